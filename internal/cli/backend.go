package cli

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"promptdeck/internal/backend"
	"promptdeck/internal/backend/restclient"
	"promptdeck/internal/backend/sqlclient"
	"promptdeck/internal/config"
	"promptdeck/internal/database"
	"promptdeck/internal/logger"
	"promptdeck/internal/services"
)

// OpenLibrary builds the library service for cfg.Backend. The returned close
// function releases database handles. Warnings about the configuration, such
// as an expired anon key, are written to warn.
func OpenLibrary(cfg *config.Config, warn io.Writer) (services.LibraryServicer, func() error, error) {
	var (
		client  backend.Client
		closeFn = func() error { return nil }
	)

	switch cfg.Backend {
	case config.BackendREST:
		msg, err := cfg.CheckAnonKey(time.Now())
		if err != nil {
			fmt.Fprintf(warn, "warning: SUPABASE_ANON_KEY does not look like a project key: %v\n", err)
		} else if msg != "" {
			fmt.Fprintf(warn, "warning: %s\n", msg)
		}
		client = restclient.New(cfg.RESTEndpoint(), cfg.SupabaseAnonKey, &http.Client{Timeout: cfg.RequestTimeout})

	case config.BackendPostgres, config.BackendSQLite:
		driver := database.DriverPostgres
		if cfg.Backend == config.BackendSQLite {
			driver = database.DriverSQLite
		}
		m, err := database.NewManager(database.NewConfig(driver))
		if err != nil {
			return nil, nil, err
		}
		if driver == database.DriverSQLite {
			// A local file needs no separate migrate step.
			if err := m.RunMigrations(""); err != nil {
				_ = m.Close()
				return nil, nil, err
			}
		}
		client = backend.WithTimeout(sqlclient.New(m.DB()), cfg.RequestTimeout)
		closeFn = m.Close

	default:
		return nil, nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}

	logger.Get().Debugw("backend ready", "backend", cfg.Backend, "description_mode", cfg.DescriptionMode)
	return services.NewLibraryService(client, cfg.DescriptionMode), closeFn, nil
}
