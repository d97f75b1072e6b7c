package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// The two ListDue* methods are the scan predicates the deadline engine
// depends on; both exclude completed tasks and tasks without a due date.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update persists changes to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	//
	// Notifications referencing the task are removed by the database's
	// ON DELETE CASCADE constraint; implementations do not delete them
	// in application code.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByTeam retrieves all tasks belonging to the given team,
	// newest first.
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.Task, error)

	// ListByAssignee retrieves all tasks assigned to the given user,
	// newest first.
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListDueBefore retrieves tasks whose due date is strictly before the
	// given instant and whose status is not completed.
	ListDueBefore(ctx context.Context, t time.Time) ([]*domain.Task, error)

	// ListDueBetween retrieves tasks whose due date lies in [from, to]
	// inclusive and whose status is not completed.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)
}
