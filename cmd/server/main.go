// Package main is the entry point for the taskhub API server. It wires
// configuration, logging, the database, migrations and the application
// dependencies, then runs the HTTP server until shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/davrill/taskhub-api/internal/config"
	"github.com/davrill/taskhub-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, initializes dependencies and starts the server.
// It is separated from main so all exits flow through a single error path.
func run() error {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Setup(cfg.Server)
	slog.SetDefault(log)
	log.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database", maskDatabaseURL(cfg.Database.URL))

	db, err := openDatabase(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if *migrateCmd != "" {
		defer func() {
			if cerr := db.Close(); cerr != nil {
				log.Error("error closing database connection", "error", cerr)
			}
		}()
		return runMigrationCommand(db, *migrateCmd, log)
	}

	// Pending migrations are applied on normal startup so the schema is
	// always current before the first request or scan cycle.
	if err := runMigrationCommand(db, "up", log); err != nil {
		if cerr := db.Close(); cerr != nil {
			log.Error("error closing database connection", "error", cerr)
		}
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			log.Error("error closing database connection", "error", cerr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
