package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ahmedEssyad/eter-reports-separated/internal/apperr"
	"github.com/ahmedEssyad/eter-reports-separated/internal/auth"
	"github.com/ahmedEssyad/eter-reports-separated/internal/database"
	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserHandler carries the admin-only account management endpoints.
type UserHandler struct {
	auth        *auth.Service
	logger      *zap.Logger
	development bool
}

func NewUserHandler(svc *auth.Service, logger *zap.Logger, development bool) *UserHandler {
	return &UserHandler{auth: svc, logger: logger, development: development}
}

func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var total int64
	if err := database.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	var users []models.User
	err := database.DB.Order("created_at desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"users":   users,
		"pagination": gin.H{
			"current":      page,
			"total":        totalPages,
			"count":        len(users),
			"totalRecords": total,
		},
	})
}

func (h *UserHandler) Create(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.logger, h.development, apperr.BadRequest("INVALID_PAYLOAD", "Invalid request body"))
		return
	}

	var errs []validation.FieldError
	errs = append(errs, validation.Username(&body.Username)...)
	errs = append(errs, validation.Password(body.Password)...)
	errs = append(errs, validation.DisplayName(&body.Name)...)
	if body.Role == "" {
		body.Role = string(models.RoleUser)
	}
	errs = append(errs, validation.Role(body.Role)...)
	if len(errs) > 0 {
		respondError(c, h.logger, h.development, apperr.Validation(errs))
		return
	}

	hash, err := h.auth.HashPassword(body.Password)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	user := models.User{
		Username:     body.Username,
		PasswordHash: hash,
		Name:         body.Name,
		Role:         models.UserRole(body.Role),
		IsActive:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, h.logger, h.development, apperr.Conflict("USERNAME_EXISTS", "Username already exists"))
			return
		}
		respondError(c, h.logger, h.development, err)
		return
	}

	actorID := sessionUserID(c)
	database.CreateAuditLog(actorID, "user", user.Username, "create", "role "+body.Role)
	h.logger.Info("user created",
		zap.String("username", user.Username),
		zap.String("role", body.Role),
		zap.Uint("created_by", actorID))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"name":      user.Name,
			"role":      user.Role,
			"isActive":  user.IsActive,
			"createdAt": user.CreatedAt,
		},
	})
}

func (h *UserHandler) Update(c *gin.Context) {
	var body struct {
		Name     *string `json:"name"`
		Role     *string `json:"role"`
		IsActive *bool   `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.logger, h.development, apperr.BadRequest("INVALID_PAYLOAD", "Invalid request body"))
		return
	}

	user, err := h.find(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	var errs []validation.FieldError
	updates := map[string]any{}
	if body.Name != nil {
		errs = append(errs, validation.DisplayName(body.Name)...)
		updates["name"] = *body.Name
	}
	if body.Role != nil {
		errs = append(errs, validation.Role(*body.Role)...)
		updates["role"] = *body.Role
	}
	if body.IsActive != nil {
		updates["is_active"] = *body.IsActive
	}
	if len(errs) > 0 {
		respondError(c, h.logger, h.development, apperr.Validation(errs))
		return
	}
	if len(updates) == 0 {
		respondError(c, h.logger, h.development, apperr.BadRequest("NO_VALID_UPDATES", "No valid updates provided"))
		return
	}

	if err := database.DB.Model(user).Updates(updates).Error; err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	database.CreateAuditLog(sessionUserID(c), "user", user.Username, "update", "")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) Delete(c *gin.Context) {
	user, err := h.find(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	actorID := sessionUserID(c)
	if user.ID == actorID {
		respondError(c, h.logger, h.development, apperr.BadRequest("CANNOT_DELETE_SELF", "You cannot delete your own account"))
		return
	}

	if err := database.DB.Delete(user).Error; err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	database.CreateAuditLog(actorID, "user", user.Username, "delete", "")
	h.logger.Info("user deleted",
		zap.String("username", user.Username),
		zap.Uint("deleted_by", actorID))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User deleted successfully",
	})
}

func (h *UserHandler) find(raw string) (*models.User, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return nil, apperr.NotFound("USER_NOT_FOUND", "User not found")
	}
	var user models.User
	dbErr := database.DB.First(&user, uint(id)).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("USER_NOT_FOUND", "User not found")
	}
	if dbErr != nil {
		return nil, dbErr
	}
	return &user, nil
}
