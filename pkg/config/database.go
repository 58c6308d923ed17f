package config

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"alphawatch/internal/models"
)

// DatabaseConfig selects one of the two storage backends. Backend identity
// matters only here; everything past OpenDB sees a plain *gorm.DB.
type DatabaseConfig struct {
	Backend    string // "postgres" or "sqlite"
	DSN        string // postgres DSN
	SQLitePath string
}

// LoadDatabaseConfig reads the database configuration from the environment.
// DATABASE_BACKEND defaults to sqlite so the daemon runs without a server.
func LoadDatabaseConfig() DatabaseConfig {
	backend := envString("DATABASE_BACKEND", "sqlite")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	return DatabaseConfig{
		Backend:    backend,
		DSN:        dsn,
		SQLitePath: envString("SQLITE_PATH", "alphawatch.db"),
	}
}

// OpenDB opens the selected backend and migrates the schema.
func OpenDB(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Backend {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown database backend %q", cfg.Backend)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Backend, err)
	}

	if cfg.Backend == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(
		&models.FollowEdge{},
		&models.AlphaSignal{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}
