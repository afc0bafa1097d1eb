package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/cornndawwg/the-icatalyst-crm/internal/auth"
	httpmiddleware "github.com/cornndawwg/the-icatalyst-crm/internal/http"
	"github.com/cornndawwg/the-icatalyst-crm/internal/logger"
	"github.com/cornndawwg/the-icatalyst-crm/internal/server"
	"github.com/cornndawwg/the-icatalyst-crm/internal/store"
	memorystore "github.com/cornndawwg/the-icatalyst-crm/internal/store/memory"
	postgresstore "github.com/cornndawwg/the-icatalyst-crm/internal/store/postgres"
	"github.com/cornndawwg/the-icatalyst-crm/internal/telemetry"
	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"ICATALYST_LISTEN"`
	Cert   string `help:"path to TLS cert file" default:"" env:"ICATALYST_TLS_CERT"`
	Key    string `help:"path to TLS key file" default:"" env:"ICATALYST_TLS_KEY"`

	// CORS configuration
	CORSOrigins []string `help:"allowed CORS origins for API requests" default:"http://localhost:3000" env:"ICATALYST_CORS_ORIGINS"`

	// Auth configuration
	JWTSecret string `help:"HMAC secret shared with the identity provider" default:"" env:"ICATALYST_JWT_SECRET"`

	// Development and operational modes
	NoAuth  bool `help:"disable authentication and use a fixed dev tenant (development only)" default:"false" env:"ICATALYST_NO_AUTH"`
	Tracing bool `help:"enable tracing" default:"false" env:"ICATALYST_TRACING"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"ICATALYST_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"ICATALYST_POSTGRES_AUTO_MIGRATE"`
}

func (s *PostgresStoreFlags) Validate() error {
	if s.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	if c.Tracing {
		log.Info().Msg("Tracing is enabled")
		shutdown, err := telemetry.InitTelemetry(ctx, "icatalyst-crm", globals.Version)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize telemetry, continuing without metrics")
			shutdown = func(ctx context.Context) error { return nil }
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to shutdown telemetry")
			}
		}()
	}

	// Create stores based on store type
	var (
		projectStore     store.ProjectStore
		taskStore        store.TaskStore
		changeOrderStore store.ChangeOrderStore
		activityStore    store.ActivityStore
		templateStore    store.TemplateStore
		directoryStore   store.DirectoryStore
	)

	switch c.StoreType {
	case "postgres":
		// Shared connection pool for all PostgreSQL stores
		poolCfg := &postgresstore.PoolConfig{
			ConnString:      c.PostgresStore.ConnString,
			MaxConns:        c.PostgresStore.MaxConns,
			MinConns:        c.PostgresStore.MinConns,
			MaxConnLifetime: c.PostgresStore.MaxConnLifetime,
			MaxConnIdleTime: c.PostgresStore.MaxConnIdleTime,
		}
		pool, err := postgresstore.NewPool(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		if c.PostgresStore.AutoMigrate {
			if err := postgresstore.RunMigrations(ctx, pool); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info().Msg("Database migrations completed")
		}

		projectStore = postgresstore.NewProjectStore(pool)
		taskStore = postgresstore.NewTaskStore(pool)
		changeOrderStore = postgresstore.NewChangeOrderStore(pool)
		activityStore = postgresstore.NewActivityStore(pool)
		templateStore = postgresstore.NewTemplateStore(pool)
		directoryStore = postgresstore.NewDirectoryStore(pool)

		log.Info().Msg("Using PostgreSQL stores with shared connection pool")

	default:
		shared := memorystore.NewStore()
		projectStore = memorystore.NewProjectStore(shared)
		taskStore = memorystore.NewTaskStore(shared)
		changeOrderStore = memorystore.NewChangeOrderStore(shared)
		activityStore = memorystore.NewActivityStore(shared)
		templateStore = memorystore.NewTemplateStore(shared)
		directoryStore = memorystore.NewDirectoryStore(shared)
		log.Info().Msg("Using in-memory stores")
	}

	srv := server.New(projectStore, taskStore, changeOrderStore, activityStore, templateStore, directoryStore)

	if c.NoAuth {
		log.Warn().Msg("Authentication is disabled (--no-auth). This should only be used in development!")
	}
	authMiddleware, err := c.authMiddleware()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", server.Healthz)
	mux.Handle("/", authMiddleware(srv.Routes()))

	handler := logger.Requests(log)(
		httpmiddleware.ClientIPMiddleware()(
			withCORS(c.CORSOrigins, mux)))

	httpServer := configureHTTPServer(c.Listen, handler)

	if c.Cert != "" && c.Key != "" {
		log.Info().Str("addr", c.Listen).Bool("auth", !c.NoAuth).Msg("Starting HTTPS server")
		return httpServer.ListenAndServeTLS(c.Cert, c.Key)
	}

	log.Info().Str("addr", c.Listen).Bool("auth", !c.NoAuth).Msg("Starting HTTP server")
	return httpServer.ListenAndServe()
}

// authMiddleware builds the tenant guard. With --no-auth every request runs
// as a fixed development tenant instead of requiring a token.
func (c *ServerCmd) authMiddleware() (func(http.Handler) http.Handler, error) {
	if c.NoAuth {
		devTenant := tenant.Context{
			OrgID:   uuid.Must(uuid.NewV7()),
			ActorID: uuid.Must(uuid.NewV7()),
			Role:    "admin",
		}
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(tenant.WithContext(r.Context(), devTenant)))
			})
		}, nil
	}

	verifier, err := auth.NewVerifier(c.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create token verifier (--jwt-secret or ICATALYST_JWT_SECRET): %w", err)
	}
	return verifier.Middleware(), nil
}

// withCORS adds CORS support for browser clients.
func withCORS(allowedOrigins []string, h http.Handler) http.Handler {
	middleware := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return middleware.Handler(h)
}
