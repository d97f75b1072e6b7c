package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
)

// NotificationFilter narrows ListByUser results.
type NotificationFilter struct {
	// UnreadOnly restricts the result to unread notifications.
	UnreadOnly bool

	// Limit caps the number of returned notifications; 0 means the
	// implementation's default.
	Limit int
}

// NotificationStore defines the interface for notification persistence.
//
// Notifications are insert-only from the writers' point of view: once
// created they are only ever marked read or deleted, never updated in
// place. CountRecent is the existence check the deduplication gate relies
// on; callers only need cardinality, not the records themselves.
type NotificationStore interface {
	// Create saves a new notification to the store. The write is durable
	// and visible to subsequent CountRecent calls.
	Create(ctx context.Context, n *domain.Notification) error

	// GetByID retrieves a notification by its unique ID.
	// Returns ErrNotificationNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)

	// ListByUser retrieves notifications addressed to the given user,
	// newest first, applying the filter.
	ListByUser(ctx context.Context, userID uuid.UUID, filter NotificationFilter) ([]*domain.Notification, error)

	// CountUnread returns the number of unread notifications for the user.
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)

	// CountRecent returns the number of notifications matching the exact
	// (task, recipient, kind) triple created at or after the given instant.
	CountRecent(
		ctx context.Context,
		taskID, userID uuid.UUID,
		kind domain.NotificationKind,
		createdAfter time.Time,
	) (int, error)

	// MarkRead sets the read flag on a single notification.
	// Returns ErrNotificationNotFound if it does not exist.
	MarkRead(ctx context.Context, id uuid.UUID) error

	// MarkAllRead sets the read flag on all of the user's unread
	// notifications and returns the number of rows affected.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error)

	// Delete removes a notification from the store.
	// Returns ErrNotificationNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
