package main

import (
	"fmt"
	"os"

	"promptdeck/internal/backend/sqlclient"
	"promptdeck/internal/config"
	"promptdeck/internal/database"
	"promptdeck/internal/logger"
	"promptdeck/internal/server"
)

// @title           Promptdeck Dev Backend
// @version         1.0
// @description     A PostgREST-compatible table API over the prompt library, for local development and tests.

// @host      localhost:8080
// @BasePath  /rest/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name apikey
// @description Project key (HS256 JWT) issued by promptdeck keygen.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var driver string
	switch appConfig.Backend {
	case config.BackendPostgres:
		driver = database.DriverPostgres
	case config.BackendSQLite:
		driver = database.DriverSQLite
	default:
		return fmt.Errorf("the dev backend serves BACKEND=postgres or BACKEND=sqlite, got %q", appConfig.Backend)
	}
	if appConfig.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set; every /rest/v1 request will be rejected")
	}

	dbManager, err := database.NewManager(database.NewConfig(driver))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("closing database: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(getMigrationsDir()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	router := server.NewRouter(server.Options{
		Store:     sqlclient.New(dbManager.DB()),
		JWTSecret: appConfig.JWTSecret,
	})

	log.Infof("Starting promptdeck dev backend on port %s (%s)", appConfig.Port, driver)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

func getMigrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "migrations"
}
