package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// shutdownTimeout bounds how long in-flight requests get to finish once a
// termination signal arrives.
const shutdownTimeout = 10 * time.Second

// startHTTPServer runs the HTTP server and blocks until it stops, either
// because of a fatal listener error or a SIGINT/SIGTERM triggering a
// graceful shutdown.
func (app *application) startHTTPServer(ctx context.Context, handler http.Handler) error {
	serverAddr := fmt.Sprintf(":%d", app.config.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	serverErrCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	select {
	case err := <-serverErrCh:
		app.cleanup()
		return fmt.Errorf("server failed to start: %w", err)

	case sig := <-shutdownCh:
		app.logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("graceful shutdown failed", "error", err)
			app.cleanup()
			return fmt.Errorf("server shutdown error: %w", err)
		}

		app.logger.Info("server stopped")
		app.cleanup()
		return nil
	}
}
