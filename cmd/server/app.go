package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/davrill/taskhub-api/internal/config"
	"github.com/davrill/taskhub-api/internal/email"
	"github.com/davrill/taskhub-api/internal/events"
	"github.com/davrill/taskhub-api/internal/platform/postgres"
	"github.com/davrill/taskhub-api/internal/reminder"
	"github.com/davrill/taskhub-api/internal/service/auth"
	"github.com/davrill/taskhub-api/internal/store"
)

// application holds all shared services and dependencies of the server.
// Dependencies are typed as interfaces where consumers accept interfaces,
// so tests and future implementations can swap them out.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Store interfaces
	userStore         store.UserStore
	teamStore         store.TeamStore
	taskStore         store.TaskStore
	notificationStore store.NotificationStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	passwordHasher   auth.PasswordHasher
	dispatcher       email.Dispatcher

	// Event system
	eventEmitter events.EventEmitter

	// Background deadline scanning
	reminderEngine *reminder.Engine
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger and
// database connection that must be established before application
// initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()
	app.passwordHasher = auth.NewBcryptHasher(0)

	app.userStore = postgres.NewPostgresUserStore(db)
	app.teamStore = postgres.NewPostgresTeamStore(db)
	app.taskStore = postgres.NewPostgresTaskStore(db)
	app.notificationStore = postgres.NewPostgresNotificationStore(db)

	app.dispatcher = email.NewSMTPDispatcher(cfg.Email, logger)
	if !cfg.Email.Configured() {
		logger.Warn("email is not configured, outbound messages will be skipped")
	}

	// Event-driven notifications: handlers persist in-app records and
	// dispatch best-effort emails for assignment and status changes.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewNotificationWriter(
		app.notificationStore,
		app.userStore,
		app.dispatcher,
		cfg.Server.FrontendURL,
		logger,
	))
	app.eventEmitter = emitter

	app.reminderEngine = reminder.NewEngine(
		app.taskStore,
		app.userStore,
		app.notificationStore,
		app.dispatcher,
		reminder.EngineConfig{
			Interval:     cfg.Reminder.Interval,
			CycleTimeout: cfg.Reminder.CycleTimeout,
			FrontendURL:  cfg.Server.FrontendURL,
		},
		logger,
	)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the deadline notification engine and the HTTP server, and
// blocks until shutdown completes.
func (app *application) Run(ctx context.Context) error {
	if err := app.reminderEngine.Start(); err != nil {
		return fmt.Errorf("failed to start reminder engine: %w", err)
	}
	app.logger.Info("reminder engine started",
		"interval", app.config.Reminder.Interval)

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.reminderEngine != nil {
		app.reminderEngine.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
