package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/davrill/taskhub-api/internal/api"
	"github.com/davrill/taskhub-api/internal/api/middleware"
)

// setupRouter builds the HTTP route table. Authentication endpoints are
// public; everything else under /api requires a valid access token.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.passwordHasher,
	)
	taskHandler := api.NewTaskHandler(
		app.taskStore,
		app.teamStore,
		app.userStore,
		app.eventEmitter,
	)
	teamHandler := api.NewTeamHandler(
		app.teamStore,
		app.userStore,
		app.notificationStore,
	)
	notificationHandler := api.NewNotificationHandler(app.notificationStore)
	reminderHandler := api.NewReminderHandler(app.reminderEngine)

	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.ListMine)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Patch("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)

			r.Post("/teams", teamHandler.Create)
			r.Get("/teams", teamHandler.ListMine)
			r.Get("/teams/{id}", teamHandler.Get)
			r.Post("/teams/{id}/members", teamHandler.AddMember)
			r.Get("/teams/{id}/tasks", taskHandler.ListByTeam)

			r.Get("/notifications", notificationHandler.List)
			r.Get("/notifications/unread-count", notificationHandler.UnreadCount)
			r.Post("/notifications/read-all", notificationHandler.MarkAllRead)
			r.Post("/notifications/{id}/read", notificationHandler.MarkRead)
			r.Delete("/notifications/{id}", notificationHandler.Delete)

			r.Post("/reminders/run", reminderHandler.Run)
		})
	})

	return r
}
