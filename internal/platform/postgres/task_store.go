package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/platform/logger"
	"github.com/davrill/taskhub-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL.
type PostgresTaskStore struct {
	db store.DBTX
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{db: db}
}

const taskColumns = `id, title, description, creator_id, assignee_id, team_id,
	status, priority, due_date, tags, created_at, updated_at`

// Create saves a new task to the database.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return store.NewStoreError("task", "create", "validation failed", err)
	}

	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return store.NewStoreError("task", "create", "failed to encode tags", err)
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.CreatorID,
		task.AssigneeID,
		task.TeamID,
		task.Status,
		task.Priority,
		task.DueDate,
		tags,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			"task_id", task.ID,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID retrieves a task by its unique ID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return task, nil
}

// Update persists changes to an existing task.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return store.NewStoreError("task", "update", "validation failed", err)
	}

	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return store.NewStoreError("task", "update", "failed to encode tags", err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, assignee_id = $3, status = $4,
			priority = $5, due_date = $6, tags = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.AssigneeID,
		task.Status,
		task.Priority,
		task.DueDate,
		tags,
		time.Now().UTC(),
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			"task_id", task.ID,
			"error", err)
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task. Associated notifications go with it via the
// ON DELETE CASCADE constraint on notifications.task_id.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// ListByTeam retrieves all tasks belonging to the given team, newest first.
func (s *PostgresTaskStore) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE team_id = $1 ORDER BY created_at DESC`
	return s.queryTasks(ctx, query, teamID)
}

// ListByAssignee retrieves all tasks assigned to the given user, newest first.
func (s *PostgresTaskStore) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assignee_id = $1 ORDER BY created_at DESC`
	return s.queryTasks(ctx, query, userID)
}

// ListDueBefore retrieves non-completed tasks due strictly before t.
// This is the overdue scan predicate of the deadline engine.
func (s *PostgresTaskStore) ListDueBefore(ctx context.Context, t time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_date IS NOT NULL AND due_date < $1 AND status <> $2
		ORDER BY due_date ASC`
	return s.queryTasks(ctx, query, t, domain.TaskStatusCompleted)
}

// ListDueBetween retrieves non-completed tasks due within [from, to]
// inclusive. This is the upcoming-deadline scan predicate.
func (s *PostgresTaskStore) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_date IS NOT NULL AND due_date >= $1 AND due_date <= $2 AND status <> $3
		ORDER BY due_date ASC`
	return s.queryTasks(ctx, query, from, to, domain.TaskStatusCompleted)
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task       domain.Task
		assigneeID uuid.NullUUID
		dueDate    sql.NullTime
		tags       []byte
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.CreatorID,
		&assigneeID,
		&task.TeamID,
		&task.Status,
		&task.Priority,
		&dueDate,
		&tags,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if assigneeID.Valid {
		id := assigneeID.UUID
		task.AssigneeID = &id
	}
	if dueDate.Valid {
		due := dueDate.Time.UTC()
		task.DueDate = &due
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &task.Tags); err != nil {
			return nil, err
		}
	}
	task.CreatedAt = createdAt.UTC()
	task.UpdatedAt = updatedAt.UTC()

	return &task, nil
}
