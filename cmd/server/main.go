// cmd/server/main.go
// This is the entry point for the Sports Academy API server.
// The "cmd/server" directory follows the usual Go convention: cmd/ holds executable
// binaries, and internal/ holds packages that are not meant to be imported by other projects.
//
// Usage:
//
//	server                  start the HTTP API (runs pending migrations first)
//	server migrate up       apply every pending migration
//	server migrate down [n] roll back n migrations (default 1)
//	server migrate status   print the current schema version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/trentd187/sports-academy/internal/auth"
	"github.com/trentd187/sports-academy/internal/config"
	"github.com/trentd187/sports-academy/internal/database"
	"github.com/trentd187/sports-academy/internal/handlers"
	"github.com/trentd187/sports-academy/internal/logging"
	"github.com/trentd187/sports-academy/internal/middleware"
)

// shutdownTimeout bounds how long in-flight requests get once a signal arrives.
const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Setup(cfg.Env, cfg.LogLevel)

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := runMigrate(cfg.DatabaseURL, os.Args[2:]); err != nil {
			log.WithError(err).Fatal("Migration command failed")
		}
		return
	}

	if err := serve(cfg); err != nil {
		log.WithError(err).Fatal("Server stopped with an error")
	}
}

// serve builds the shared dependencies once, starts the HTTP server and blocks until
// SIGINT or SIGTERM, then drains requests and closes the pool.
func serve(cfg *config.Config) error {
	if cfg.UsingDevSecret {
		log.Warn("TOKEN_SECRET is not set, signing tokens with the development secret")
	}

	// Run any pending SQL migrations so the schema matches the binary.
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := database.Connect(ctx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.WithError(err).Error("Failed to close database pool")
		}
	}()

	tokens, err := auth.NewCodec(cfg)
	if err != nil {
		return err
	}

	gate := middleware.NewGate(tokens, auth.NewUserDirectory(db))
	app := newApp(cfg, handlers.NewEnv(db, tokens), gate)

	listenErr := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{"port": cfg.Port, "env": cfg.Env}).Info("Starting server")
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-listenErr:
		return err
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Received shutdown signal, shutting down gracefully...")
	}

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("Server stopped")
	return nil
}

// runMigrate handles the "migrate" subcommand.
func runMigrate(dsn string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: server migrate up|down [n]|status")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp(dsn)
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid step count %q: %w", args[1], err)
			}
			steps = n
		}
		return database.MigrateDown(dsn, steps)
	case "status":
		return database.MigrateStatus(dsn)
	default:
		return fmt.Errorf("unknown migrate command %q", args[0])
	}
}
