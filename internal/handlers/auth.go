package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ahmedEssyad/eter-reports-separated/internal/apperr"
	"github.com/ahmedEssyad/eter-reports-separated/internal/auth"
	"github.com/ahmedEssyad/eter-reports-separated/internal/database"
	"github.com/ahmedEssyad/eter-reports-separated/internal/models"
	"github.com/ahmedEssyad/eter-reports-separated/internal/validation"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AuthHandler struct {
	auth        *auth.Service
	logger      *zap.Logger
	development bool
}

func NewAuthHandler(svc *auth.Service, logger *zap.Logger, development bool) *AuthHandler {
	return &AuthHandler{auth: svc, logger: logger, development: development}
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"name":      u.Name,
		"role":      u.Role,
		"lastLogin": u.LastLogin,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.logger, h.development, apperr.BadRequest("INVALID_PAYLOAD", "Invalid request body"))
		return
	}
	if strings.TrimSpace(body.Username) == "" || body.Password == "" {
		respondError(c, h.logger, h.development, apperr.BadRequest("VALIDATION_ERROR", "Username and password are required"))
		return
	}

	user, err := h.auth.Authenticate(body.Username, body.Password, c.ClientIP())
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	sess.Set("role", string(user.Role))
	if err := sess.Save(); err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	database.CreateAuditLog(user.ID, "user", body.Username, "login", "session opened from "+c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    userPayload(user),
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := sess.Save(); err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

// Verify confirms the session is still valid and returns the account it
// belongs to.
func (h *AuthHandler) Verify(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session is valid",
		"user":    userPayload(user),
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var body struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.logger, h.development, apperr.BadRequest("INVALID_PAYLOAD", "Invalid request body"))
		return
	}
	if errs := validation.Password(body.NewPassword); len(errs) > 0 {
		respondError(c, h.logger, h.development, apperr.Validation(errs))
		return
	}

	userID := sessionUserID(c)
	if err := h.auth.ChangePassword(userID, body.CurrentPassword, body.NewPassword); err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	database.CreateAuditLog(userID, "user", "", "password_change", "")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password changed successfully",
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, h.logger, h.development, apperr.BadRequest("INVALID_PAYLOAD", "Invalid request body"))
		return
	}
	if errs := validation.DisplayName(&body.Name); len(errs) > 0 {
		respondError(c, h.logger, h.development, apperr.Validation(errs))
		return
	}

	user, err := h.currentUser(c)
	if err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	user.Name = body.Name
	if err := database.DB.Model(user).Update("name", body.Name).Error; err != nil {
		respondError(c, h.logger, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *AuthHandler) currentUser(c *gin.Context) (*models.User, error) {
	var user models.User
	err := database.DB.First(&user, sessionUserID(c)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("USER_NOT_FOUND", "User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
