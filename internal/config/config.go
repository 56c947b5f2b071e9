package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string
	UploadsDir    string
	Environment   string
	AdminUsername string
	AdminPassword string
	BcryptCost    int
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		ServerPort:    os.Getenv("SERVER_PORT"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		UploadsDir:    os.Getenv("UPLOADS_DIR"),
		Environment:   os.Getenv("ENVIRONMENT"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		BcryptCost:    bcrypt.DefaultCost,
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.UploadsDir == "" {
		cfg.UploadsDir = "./uploads"
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}
	if cfg.AdminUsername == "" {
		cfg.AdminUsername = "admin"
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil && cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			cfg.BcryptCost = cost
		}
	}

	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
