package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/pressly/goose/v3"
)

// migrationsDir is the path to the goose SQL migrations, relative to the
// working directory the server is launched from.
const migrationsDir = "migrations"

// runMigrationCommand executes a goose command against the migrations
// directory. Supported commands are up, down and status.
func runMigrationCommand(db *sql.DB, command string, log *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{log: log.With("component", "migrations")})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	log.Info("running migration command", "command", command, "dir", migrationsDir)

	switch command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration command %q (expected up, down or status)", command)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.Info("migration command completed", "command", command, "version", version)
	return nil
}

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	log *slog.Logger
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(fmt.Sprintf(format, v...))
}

// dbURLCredentials matches the userinfo section of a connection URL.
var dbURLCredentials = regexp.MustCompile(`(://[^:/@]+):[^@]+@`)

// maskDatabaseURL hides the password in a connection URL so it can be
// logged safely.
func maskDatabaseURL(url string) string {
	return dbURLCredentials.ReplaceAllString(url, "$1:*****@")
}
