package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/yourusername/realty-books/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTRefreshSecret string
	UploadDir        string
}

func LoadConfig() (*Config, error) {
	godotenv.Load()

	return &Config{
		Port:             os.Getenv("PORT"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        getEnvOrDefault("JWT_SECRET", "change-me"),
		JWTRefreshSecret: getEnvOrDefault("JWT_REFRESH_SECRET", "change-me-too"),
		UploadDir:        getEnvOrDefault("UPLOAD_DIR", "uploads"),
	}, nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs schema migration and seeds the protected Super Admin role.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Customer{},
		&models.Property{},
		&models.SellProperty{},
		&models.Transaction{},
		&models.Emi{},
		&models.SellEmi{},
		&models.PropertyDocument{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var superAdmin models.Role
	if err := db.First(&superAdmin, models.SuperAdminRoleID).Error; err != nil {
		superAdmin = models.Role{ID: models.SuperAdminRoleID, Name: "Super Admin"}
		if err := db.Create(&superAdmin).Error; err != nil {
			return fmt.Errorf("failed to seed super admin role: %w", err)
		}
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
