package reminder

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
)

// The engine depends on narrow slices of the persistence layer. The full
// store interfaces in internal/store satisfy these, and tests supply
// in-memory fakes.

// TaskSource provides the two scan predicates of a cycle.
type TaskSource interface {
	// ListDueBefore returns non-completed tasks due strictly before t.
	ListDueBefore(ctx context.Context, t time.Time) ([]*domain.Task, error)

	// ListDueBetween returns non-completed tasks due within [from, to].
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
}

// UserSource resolves notification recipients to their email addresses.
type UserSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// NotificationStore is the engine's view of the notification store: the
// durable insert and the existence check the deduplication gate uses.
type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error

	CountRecent(
		ctx context.Context,
		taskID, userID uuid.UUID,
		kind domain.NotificationKind,
		createdAfter time.Time,
	) (int, error)
}
