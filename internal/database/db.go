package database

import (
	"fmt"
	"time"

	"github.com/ahmedEssyad/eter-reports-separated/internal/config"
	"github.com/ahmedEssyad/eter-reports-separated/internal/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config, logger *zap.Logger) error {
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		logger.Info("connecting to database", zap.Int("attempt", i), zap.Int("max", maxAttempts))

		DB, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{TranslateError: true})
		if err == nil {
			logger.Info("connected to database")
			break
		}

		logger.Warn("database connection failed", zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("connect after %d attempts: %w", maxAttempts, err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return createDefaultAdmin(cfg, logger)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Form{},
		&models.AuditLog{},
	)
}

// createDefaultAdmin seeds the first admin account from config when no
// admin exists yet. Without ADMIN_PASSWORD set, nothing is created and
// accounts must be provisioned by hand.
func createDefaultAdmin(cfg *config.Config, logger *zap.Logger) error {
	var count int64
	if err := DB.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.AdminPassword == "" {
		logger.Warn("no admin account exists and ADMIN_PASSWORD is not set, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Name:         "Administrateur",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("created default admin user", zap.String("username", admin.Username))
	return nil
}
