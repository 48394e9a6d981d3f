// Command server runs the task management API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ezrabeacon/beacon/internal/application/auth"
	"github.com/ezrabeacon/beacon/internal/application/tasks"
	"github.com/ezrabeacon/beacon/internal/config"
	httpserver "github.com/ezrabeacon/beacon/internal/infrastructure/http"
	"github.com/ezrabeacon/beacon/internal/infrastructure/http/handler"
	"github.com/ezrabeacon/beacon/internal/infrastructure/persistence/memory"
	"github.com/ezrabeacon/beacon/internal/infrastructure/persistence/postgres"
	"github.com/ezrabeacon/beacon/internal/infrastructure/persistence/sqlite"
	"github.com/ezrabeacon/beacon/pkg/observability"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Root context for all normal operations, canceled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	providers, err := observability.Init(ctx, observability.Config{
		ServiceName: cfg.Observability.ServiceName,
		Enabled:     cfg.Observability.OTelEnabled,
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	defer func() {
		// Bounded so an unreachable collector cannot hang process exit.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown observability providers", "error", err)
		}
	}()
	slog.SetDefault(providers.Logger)

	slog.InfoContext(ctx, "starting beacon service", "env", cfg.Env)

	repo, closeStore, err := newRepository(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	defer closeStore()

	service := tasks.NewService(repo, tasks.Config{
		MaxStepsPerTask: cfg.Tasks.MaxStepsPerTask,
	})

	authenticator, err := newAuthenticator(cfg.Auth)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "authentication configured", "mode", cfg.Auth.Mode)

	apiHandler := handler.NewRouter(service)
	server := httpserver.NewAPIServer(apiHandler, authenticator, httpserver.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
	})

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
		return nil

	case err := <-errResult:
		return err
	}
}

// newRepository builds the storage backend selected by config and returns it
// with a close function for deferred cleanup.
func newRepository(ctx context.Context, cfg config.StorageConfig) (tasks.Repository, func(), error) {
	switch cfg.Type {
	case config.StoragePostgres:
		store, err := postgres.NewStoreWithConfig(ctx, postgres.DBConfig{
			DSN:             cfg.PostgresURL,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "postgres storage initialized", "url", maskPassword(cfg.PostgresURL))
		return store, store.Close, nil

	case config.StorageSQLite:
		store, err := sqlite.NewStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "sqlite storage initialized", "path", cfg.SQLitePath)
		return store, func() {
			if err := store.Close(); err != nil {
				slog.Error("failed to close sqlite store", "error", err)
			}
		}, nil

	case config.StorageMemory:
		slog.InfoContext(ctx, "in-memory storage initialized")
		return memory.NewStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// newAuthenticator builds the authenticator selected by config.
func newAuthenticator(cfg config.AuthConfig) (auth.Authenticator, error) {
	switch cfg.Mode {
	case config.AuthModeJWT:
		return auth.NewJWTAuthenticator(auth.JWTConfig{
			JWKSURL:  cfg.JWKSURL,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		}), nil
	case config.AuthModeDev:
		return auth.NewDevAuthenticator(), nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %s", cfg.Mode)
	}
}

// maskPassword masks the password in a connection string for logging.
func maskPassword(connStr string) string {
	u, err := url.Parse(connStr)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
