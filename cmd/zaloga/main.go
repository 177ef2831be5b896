package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/zaloga/internal/api"
	"github.com/erazemk/zaloga/internal/auth"
	"github.com/erazemk/zaloga/internal/config"
	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/inventory"
	"github.com/erazemk/zaloga/internal/logging"
	"github.com/erazemk/zaloga/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(os.Stdout, config.Usage)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n\n%s", err, config.Usage)
		os.Exit(1)
	}

	// INFO/WARN → stdout, ERROR → stderr, optionally also a log file.
	closeLog, err := logging.Setup(cfg.LogPath, logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	database, err := db.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, cfg.Driver); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "driver", cfg.Driver)

	st := store.New(database, cfg.Driver)

	secret := cfg.SessionSecret
	if secret == "" {
		// Auto-generated on first run and kept in the settings table.
		secret, err = st.GetSessionSecret(ctx)
		if err != nil {
			return fmt.Errorf("loading session secret: %w", err)
		}
	}

	sessions, closeSessions, err := openSessionStore(ctx, cfg, st)
	if err != nil {
		return err
	}
	defer closeSessions()

	authn, err := auth.NewAuthenticator(st, sessions, auth.Options{
		Secret:     secret,
		SessionTTL: cfg.SessionTTL,
		BcryptCost: cfg.BcryptCost,
	})
	if err != nil {
		return fmt.Errorf("creating authenticator: %w", err)
	}

	router := api.NewRouter(api.Deps{
		Auth:         authn,
		Inventory:    inventory.NewGateway(st),
		DB:           database,
		SecureCookie: cfg.SecureCookie,
	})

	return serve(cfg.Addr, api.LoggingMiddleware(api.RecoverMiddleware(router)), database)
}

// openSessionStore returns the configured session backend and a function
// that releases it.
func openSessionStore(ctx context.Context, cfg *config.Config, st *store.Store) (auth.SessionStore, func(), error) {
	if cfg.Sessions != config.SessionsRedis {
		return st, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
	}

	slog.Info("using redis sessions", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return store.NewRedisSessions(client), func() { client.Close() }, nil
}

func serve(addr string, handler http.Handler, database *sql.DB) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database", "open_connections", database.Stats().OpenConnections)
	return nil
}
