package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/email"
)

// NotificationStore is the slice of the notification store the writer needs.
type NotificationStore interface {
	Create(ctx context.Context, notification *domain.Notification) error
}

// UserSource resolves users for email addressing.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// NotificationWriter handles task events by persisting in-app notifications
// for the affected users and sending best-effort emails. Email failures are
// logged, never returned; the persisted notification is the contract.
type NotificationWriter struct {
	notifications NotificationStore
	users         UserSource
	dispatcher    email.Dispatcher
	logger        *slog.Logger
	frontendURL   string
}

// NewNotificationWriter creates a NotificationWriter.
func NewNotificationWriter(
	notifications NotificationStore,
	users UserSource,
	dispatcher email.Dispatcher,
	frontendURL string,
	logger *slog.Logger,
) *NotificationWriter {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NotificationWriter")
	}
	return &NotificationWriter{
		notifications: notifications,
		users:         users,
		dispatcher:    dispatcher,
		logger:        logger.With(slog.String("component", "notification_writer")),
		frontendURL:   frontendURL,
	}
}

// HandleEvent processes a task event. Events of unknown types are ignored so
// that new event types can be introduced without breaking this handler.
func (w *NotificationWriter) HandleEvent(ctx context.Context, event *TaskEvent) error {
	switch event.Type {
	case TypeTaskAssigned:
		var payload TaskAssignedPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		return w.handleAssigned(ctx, &payload)
	case TypeTaskStatusChanged:
		var payload TaskStatusChangedPayload
		if err := event.UnmarshalPayload(&payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		return w.handleStatusChanged(ctx, &payload)
	default:
		w.logger.Debug("ignoring event of unhandled type", "event_type", event.Type)
		return nil
	}
}

func (w *NotificationWriter) handleAssigned(ctx context.Context, p *TaskAssignedPayload) error {
	// Self-assignment needs no notification.
	if p.AssigneeID == p.AssignerID {
		return nil
	}

	message := fmt.Sprintf("%s assigned you the task %q", p.AssignerName, p.TaskTitle)
	link := fmt.Sprintf("/tasks/%s", p.TaskID)

	notification, err := domain.NewNotification(p.AssigneeID, &p.TaskID, domain.KindAssignment, message, link)
	if err != nil {
		return fmt.Errorf("failed to build assignment notification: %w", err)
	}
	if err := w.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("failed to persist assignment notification: %w", err)
	}

	due := ""
	if p.DueDate != nil {
		due = p.DueDate.Format(time.DateOnly)
	}
	body, err := email.AssignmentBody(p.TaskTitle, p.AssignerName, due, w.dashboardURL())
	if err != nil {
		w.logger.Error("failed to render assignment email", "task_id", p.TaskID, "error", err)
		return nil
	}
	w.sendEmail(ctx, p.AssigneeID, email.AssignmentSubject(p.TaskTitle), body, p.TaskID)
	return nil
}

func (w *NotificationWriter) handleStatusChanged(ctx context.Context, p *TaskStatusChangedPayload) error {
	message := fmt.Sprintf("%s moved the task %q from %s to %s",
		p.ActorName, p.TaskTitle, p.OldStatus, p.NewStatus)
	link := fmt.Sprintf("/tasks/%s", p.TaskID)

	body, renderErr := email.StatusChangeBody(
		p.TaskTitle,
		p.ActorName,
		domain.TaskStatus(p.OldStatus),
		domain.TaskStatus(p.NewStatus),
		w.dashboardURL(),
	)
	if renderErr != nil {
		w.logger.Error("failed to render status change email", "task_id", p.TaskID, "error", renderErr)
	}

	var firstErr error
	for _, recipient := range p.Recipients {
		if recipient == p.ActorID {
			continue
		}

		notification, err := domain.NewNotification(recipient, &p.TaskID, domain.KindStatusChange, message, link)
		if err == nil {
			err = w.notifications.Create(ctx, notification)
		}
		if err != nil {
			w.logger.Error("failed to persist status change notification",
				"task_id", p.TaskID,
				"user_id", recipient,
				"error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if renderErr == nil {
			w.sendEmail(ctx, recipient, email.StatusChangeSubject(p.TaskTitle), body, p.TaskID)
		}
	}
	return firstErr
}

// sendEmail resolves the recipient and dispatches, logging any failure.
func (w *NotificationWriter) sendEmail(ctx context.Context, userID uuid.UUID, subject, body string, taskID uuid.UUID) {
	user, err := w.users.GetByID(ctx, userID)
	if err != nil {
		w.logger.Error("failed to load recipient for email",
			"task_id", taskID,
			"user_id", userID,
			"error", err)
		return
	}

	result := w.dispatcher.Send(ctx, user.Email, subject, body)
	if result.Err != nil {
		w.logger.Warn("task event email failed",
			"task_id", taskID,
			"user_id", userID,
			"error", result.Err)
	}
}

func (w *NotificationWriter) dashboardURL() string {
	if w.frontendURL == "" {
		return ""
	}
	return w.frontendURL + "/dashboard"
}
