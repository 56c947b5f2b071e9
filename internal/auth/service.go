package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/apperr"
	"github.com/ahmedEssyad/eter-reports-separated/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxLoginAttempts = 5
	lockDuration     = 30 * time.Minute
)

// Service authenticates dashboard users and maintains the per-account
// failure counter. The counter and lock window are columns on the user
// row so every server instance shares the same lock state.
type Service struct {
	db         *gorm.DB
	bcryptCost int
	logger     *zap.Logger
}

func NewService(db *gorm.DB, bcryptCost int, logger *zap.Logger) *Service {
	return &Service{db: db, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Authenticate checks a username/password pair against the active
// accounts. Five consecutive failures lock the account for thirty
// minutes; a locked account answers with the unlock time rather than
// "invalid credentials".
func (s *Service) Authenticate(username, password, ip string) (*models.User, error) {
	var user models.User
	err := s.db.Where("username = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(username)), true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("login attempt for unknown user", zap.String("username", username), zap.String("ip", ip))
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, err
	}

	now := time.Now()
	if user.IsLocked(now) {
		s.logger.Warn("login attempt on locked account",
			zap.String("username", user.Username),
			zap.Time("lock_until", *user.LockUntil),
			zap.String("ip", ip))
		return nil, apperr.Locked(*user.LockUntil)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		if err := s.recordFailure(&user, now); err != nil {
			return nil, err
		}
		s.logger.Warn("invalid password", zap.String("username", user.Username), zap.String("ip", ip))
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	updates := map[string]any{"last_login": now}
	if user.LoginAttempts > 0 || user.LockUntil != nil {
		updates["login_attempts"] = 0
		updates["lock_until"] = nil
	}
	if err := s.db.Model(&user).UpdateColumns(updates).Error; err != nil {
		return nil, err
	}
	user.LastLogin = &now
	user.LoginAttempts = 0
	user.LockUntil = nil

	s.logger.Info("successful login", zap.String("username", user.Username), zap.String("ip", ip))
	return &user, nil
}

// recordFailure advances the attempt counter at the storage layer. An
// expired lock restarts the count at 1 (not 0): the stale lock is cleared
// but the failed attempt that revealed it still counts.
func (s *Service) recordFailure(user *models.User, now time.Time) error {
	if user.LockUntil != nil && user.LockUntil.Before(now) {
		return s.db.Model(user).UpdateColumns(map[string]any{
			"login_attempts": 1,
			"lock_until":     nil,
		}).Error
	}

	updates := map[string]any{
		"login_attempts": gorm.Expr("login_attempts + 1"),
	}
	if user.LoginAttempts+1 >= maxLoginAttempts && !user.IsLocked(now) {
		lockUntil := now.Add(lockDuration)
		updates["lock_until"] = lockUntil
		s.logger.Warn("account locked after repeated failures",
			zap.String("username", user.Username),
			zap.Time("lock_until", lockUntil))
	}
	return s.db.Model(user).UpdateColumns(updates).Error
}

// ChangePassword verifies the current password before writing a new hash.
func (s *Service) ChangePassword(userID uint, current, next string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("USER_NOT_FOUND", "User not found")
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return apperr.BadRequest("INVALID_CURRENT_PASSWORD", "Current password is incorrect")
	}

	hash, err := s.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.db.Model(&user).UpdateColumn("password_hash", hash).Error; err != nil {
		return err
	}

	s.logger.Info("password changed", zap.String("username", user.Username))
	return nil
}
