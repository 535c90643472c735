package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/box-webauth/docs"
	"github.com/custodia-labs/box-webauth/internal/adapters/driven/auth"
	"github.com/custodia-labs/box-webauth/internal/adapters/driven/box"
	"github.com/custodia-labs/box-webauth/internal/adapters/driven/crypto"
	"github.com/custodia-labs/box-webauth/internal/adapters/driven/memory"
	redisadapter "github.com/custodia-labs/box-webauth/internal/adapters/driven/redis"
	"github.com/custodia-labs/box-webauth/internal/adapters/driven/sqlstore"
	"github.com/custodia-labs/box-webauth/internal/adapters/driving/http"
	"github.com/custodia-labs/box-webauth/internal/config"
	"github.com/custodia-labs/box-webauth/internal/core/ports/driven"
	"github.com/custodia-labs/box-webauth/internal/core/services"
	"github.com/custodia-labs/box-webauth/internal/worker"
)

const cookieKeyInfo = "box-webauth/session-cookie/v1"

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	logger.Info("box-webauth starting",
		"version", version,
		"session_backend", cfg.SessionBackend,
	)
	if cfg.UsesDefaultSecret() {
		logger.Warn("using the development session secret; set WEBAUTH_SESSION_SECRET in production")
	}

	// Setup context with cancellation for graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ===== Session backend =====
	store, closeStore, err := openSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// ===== Driven adapters (infrastructure) =====
	secret := []byte(cfg.SessionSecret)
	sealer, err := crypto.NewSealerFromSecret(secret)
	if err != nil {
		return fmt.Errorf("create sealer: %w", err)
	}
	cookieKey, err := crypto.DeriveKey(secret, cookieKeyInfo, crypto.KeySize)
	if err != nil {
		return fmt.Errorf("derive cookie key: %w", err)
	}
	signer := auth.NewSessionSigner(cookieKey)

	provider := box.NewOAuthProvider(box.Config{
		AuthURL:     cfg.BoxAuthURL,
		TokenURL:    cfg.BoxTokenURL,
		RedirectURI: cfg.BoxRedirectURI,
		Timeout:     cfg.ExchangeTimeout,
	})

	// ===== Services =====
	webAuthService := services.NewWebAuthService(services.WebAuthServiceConfig{
		Provider:        provider,
		Logger:          logger,
		ShowDiagnostics: cfg.ShowDiagnostics,
	})

	// ===== Background janitor (stores without native expiry) =====
	var janitorHealth http.JanitorHealth
	if cleaner, ok := store.(driven.SessionCleaner); ok {
		janitor := worker.NewJanitor(worker.JanitorConfig{
			Cleaner:  cleaner,
			Logger:   logger,
			Interval: cfg.SessionCleanupInterval,
		})
		if err := janitor.Start(ctx); err != nil {
			return fmt.Errorf("start janitor: %w", err)
		}
		defer janitor.Stop()
		janitorHealth = janitor
	}

	// ===== HTTP server =====
	sessions := http.NewSessionManager(http.SessionManagerConfig{
		Store:  store,
		Sealer: sealer,
		Signer: signer,
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
		Logger: logger,
	})

	docs.SwaggerInfo.Version = version
	server := http.NewServer(http.Config{
		Host:    cfg.Host,
		Port:    cfg.Port,
		Version: version,
	}, webAuthService, sessions, store, janitorHealth, logger)

	return server.Start(ctx)
}

// openSessionStore connects the configured session backend
func openSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (driven.SessionStore, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		logger.Info("connecting to Redis")
		client, err := redisadapter.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("Redis connected")
		return redisadapter.NewSessionStore(client, cfg.SessionTTL), func() { _ = client.Close() }, nil

	case config.BackendPostgres, config.BackendSQLite:
		dialect := sqlstore.DialectPostgres
		if cfg.SessionBackend == config.BackendSQLite {
			dialect = sqlstore.DialectSQLite
		}
		logger.Info("connecting to database", "dialect", dialect)
		db, err := sqlstore.Connect(ctx, sqlstore.DefaultConfig(dialect, cfg.DatabaseURL))
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		// Initialize schema (idempotent)
		if err := db.InitSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("database connected and schema initialized")
		return sqlstore.NewSessionStore(db, cfg.SessionTTL), func() { _ = db.Close() }, nil

	default:
		return memory.NewSessionStore(cfg.SessionTTL), func() {}, nil
	}
}
