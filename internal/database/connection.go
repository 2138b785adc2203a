// internal/database/connection.go
package database

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/contmarket/catalog-backend/internal/config"
	"github.com/contmarket/catalog-backend/internal/models"
	"github.com/contmarket/catalog-backend/internal/utils"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Database connection established")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("failed to get underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("failed to close database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations")

	// gen_random_uuid() ships with PostgreSQL 13+, pgcrypto covers older ones
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		return fmt.Errorf("failed to create pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.Container{},
		&models.ContainerPhoto{},
		&models.ImportRecord{},
		&models.AdminUser{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_containers_size ON containers(size)",
		"CREATE INDEX IF NOT EXISTS idx_containers_condition ON containers(condition)",
		"CREATE INDEX IF NOT EXISTS idx_containers_price ON containers(price)",
		"CREATE INDEX IF NOT EXISTS idx_containers_created_at ON containers(created_at DESC)",

		// Photo indexes
		"CREATE INDEX IF NOT EXISTS idx_container_photos_order ON container_photos(container_id, display_order)",

		// Import ledger indexes
		"CREATE INDEX IF NOT EXISTS idx_import_records_created_at ON import_records(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).Warnf("failed to create index: %s", index)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// SeedInitialData creates an admin account from ADMIN_USERNAME/ADMIN_PASSWORD
// when the table is empty. Without a configured password a random one is
// generated and logged once, the setup endpoint stays available either way.
func SeedInitialData(db *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		return nil
	}

	var adminCount int64
	if err := db.Model(&models.AdminUser{}).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if adminCount > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	generated := false
	if password == "" {
		var err error
		password, err = utils.GenerateRandomString(16)
		if err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
		generated = true
	}

	admin := &models.AdminUser{
		Username: username,
		Name:     "Administrator",
	}
	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	if generated {
		logrus.WithField("username", username).
			Infof("Seeded admin account with generated password: %s", password)
	} else {
		logrus.WithField("username", username).Info("Seeded admin account")
	}
	return nil
}
