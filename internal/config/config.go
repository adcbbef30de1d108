package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"promptdeck/internal/apikey"
	"promptdeck/internal/logger"
	"promptdeck/internal/models"
)

// BackendKind selects the Backend Client implementation.
type BackendKind string

const (
	BackendREST     BackendKind = "rest"
	BackendPostgres BackendKind = "postgres"
	BackendSQLite   BackendKind = "sqlite"
)

// Config holds application configuration
type Config struct {
	Env string

	// Backend selection
	Backend         BackendKind
	SupabaseURL     string
	SupabaseAnonKey string
	RequestTimeout  time.Duration

	// Prompt schema
	DescriptionMode models.DescriptionMode

	// Downloads
	DownloadDir string

	// Dev backend
	Port      string
	JWTSecret string
}

// Load loads configuration from environment variables, after reading the
// given .env files (or ./.env when none are given).
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logger.Get().Debugw("no .env file loaded", "error", err)
	}

	cfg := &Config{
		Env:             getEnv("ENV", "development"),
		Backend:         BackendKind(strings.ToLower(getEnv("BACKEND", string(BackendREST)))),
		SupabaseURL:     strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		DownloadDir:     getEnv("DOWNLOAD_DIR", "."),
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
	}

	switch cfg.Backend {
	case BackendREST, BackendPostgres, BackendSQLite:
	default:
		return nil, fmt.Errorf("invalid BACKEND %q: must be rest, postgres, or sqlite", cfg.Backend)
	}

	mode, ok := models.ParseDescriptionMode(strings.ToLower(getEnv("DESCRIPTION_MODE", "")))
	if !ok {
		return nil, fmt.Errorf("invalid DESCRIPTION_MODE %q: must be omitted, optional, or required", os.Getenv("DESCRIPTION_MODE"))
	}
	cfg.DescriptionMode = mode

	timeout, err := parseTimeout(getEnv("REQUEST_TIMEOUT", ""))
	if err != nil {
		return nil, err
	}
	cfg.RequestTimeout = timeout

	if cfg.Backend == BackendREST {
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("SUPABASE_URL is required when BACKEND=rest")
		}
		if cfg.SupabaseAnonKey == "" {
			return nil, fmt.Errorf("SUPABASE_ANON_KEY is required when BACKEND=rest")
		}
	}

	return cfg, nil
}

// RESTEndpoint returns the PostgREST root under the project URL.
func (c *Config) RESTEndpoint() string {
	return c.SupabaseURL + "/rest/v1"
}

// CheckAnonKey decodes the anon key and returns a warning when it is expired.
// An undecodable key is reported as an error; the backend would reject it anyway.
func (c *Config) CheckAnonKey(now time.Time) (string, error) {
	if c.SupabaseAnonKey == "" {
		return "", nil
	}
	claims, err := apikey.Inspect(c.SupabaseAnonKey)
	if err != nil {
		return "", err
	}
	if claims.Expired(now) {
		return fmt.Sprintf("SUPABASE_ANON_KEY for project %q expired at %s", claims.Ref, claims.ExpiresAt.Time.Format(time.RFC3339)), nil
	}
	return "", nil
}

// parseTimeout parses REQUEST_TIMEOUT. Empty means no timeout.
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid REQUEST_TIMEOUT %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("REQUEST_TIMEOUT must not be negative, got %v", d)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
