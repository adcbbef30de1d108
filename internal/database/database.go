// Package database opens the relational store behind the SQL backend and the
// dev backend, and keeps its schema current.
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"promptdeck/internal/logger"
	"promptdeck/internal/models"
)

// DefaultCategories are seeded into an empty database.
var DefaultCategories = []string{
	"AI & Machine Learning",
	"Art",
	"Business & Marketing",
	"Coding",
	"Content Creation",
	"Copywriting",
	"Education & Learning",
	"Health & Fitness",
	"Midjourney",
	"Productivity",
	"Research",
	"Storytelling",
	"Technology",
	"UI/UX",
	"YouTube",
}

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager connects to the configured driver.
func NewManager(config *Config) (*Manager, error) {
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}

	var dialector gorm.Dialector
	switch config.Driver {
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  config.DSN(),
			PreferSimpleProtocol: true, // Required for Supabase Supavisor; harmless for direct connections
		})
	case DriverSQLite:
		dialector = sqlite.Open(config.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if config.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return &Manager{db: db, config: config}, nil
}

// RunMigrations brings the schema up to date. Postgres applies the SQL files
// in dir through golang-migrate; SQLite auto-migrates the models and seeds the
// default categories.
func (m *Manager) RunMigrations(dir string) error {
	logger.Get().Info("Running database migrations...")

	switch m.config.Driver {
	case DriverPostgres:
		if err := m.migratePostgres(dir); err != nil {
			return err
		}
	case DriverSQLite:
		if err := m.db.AutoMigrate(&models.Category{}, &models.Prompt{}); err != nil {
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
		if err := Seed(m.db); err != nil {
			return err
		}
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}

func (m *Manager) migratePostgres(dir string) error {
	mig, err := migrate.New("file://"+dir, m.config.MigrateURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Seed inserts DefaultCategories when the categories table is empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	rows := make([]models.Category, 0, len(DefaultCategories))
	for _, name := range DefaultCategories {
		rows = append(rows, models.Category{Name: name})
	}
	if err := db.Create(&rows).Error; err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	logger.Get().Infow("Seeded default categories", "count", len(rows))
	return nil
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
