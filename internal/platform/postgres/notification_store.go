package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/platform/logger"
	"github.com/davrill/taskhub-api/internal/store"
)

// defaultNotificationLimit caps ListByUser results when the caller does
// not specify a limit.
const defaultNotificationLimit = 50

// PostgresNotificationStore implements store.NotificationStore using PostgreSQL.
type PostgresNotificationStore struct {
	db store.DBTX
}

// NewPostgresNotificationStore creates a new PostgresNotificationStore.
func NewPostgresNotificationStore(db store.DBTX) *PostgresNotificationStore {
	return &PostgresNotificationStore{db: db}
}

const notificationColumns = `id, user_id, task_id, kind, message, read, link, created_at`

// Create saves a new notification. The write is durable and visible to
// subsequent CountRecent calls, which is what the deduplication gate
// depends on.
func (s *PostgresNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	log := logger.FromContext(ctx)

	if err := n.Validate(); err != nil {
		return store.NewStoreError("notification", "create", "validation failed", err)
	}

	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.TaskID,
		n.Kind,
		n.Message,
		n.Read,
		n.Link,
		n.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create notification",
			"notification_id", n.ID,
			"kind", n.Kind,
			"error", err)
		return MapError(err)
	}

	return nil
}

// GetByID retrieves a notification by its unique ID.
func (s *PostgresNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, MapError(err)
	}
	return n, nil
}

// ListByUser retrieves notifications addressed to the given user, newest
// first.
func (s *PostgresNotificationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.NotificationFilter,
) ([]*domain.Notification, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND ($2 = false OR read = false)
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, userID, filter.UnreadOnly, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, MapError(err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return notifications, nil
}

// CountUnread returns the number of unread notifications for the user.
func (s *PostgresNotificationStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// CountRecent returns the number of notifications matching the exact
// (task, recipient, kind) triple created at or after createdAfter. The
// deduplication gate only needs cardinality, never the records.
func (s *PostgresNotificationStore) CountRecent(
	ctx context.Context,
	taskID, userID uuid.UUID,
	kind domain.NotificationKind,
	createdAfter time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE task_id = $1 AND user_id = $2 AND kind = $3 AND created_at >= $4
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, taskID, userID, kind, createdAfter).Scan(&count)
	if err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// MarkRead sets the read flag on a single notification.
func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead sets the read flag on all of the user's unread notifications.
func (s *PostgresNotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`, userID)
	if err != nil {
		return 0, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}
	return int(affected), nil
}

// Delete removes a notification from the store.
func (s *PostgresNotificationStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrNotificationNotFound
	}

	return nil
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var (
		n         domain.Notification
		taskID    uuid.NullUUID
		createdAt time.Time
	)

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&taskID,
		&n.Kind,
		&n.Message,
		&n.Read,
		&n.Link,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	if taskID.Valid {
		id := taskID.UUID
		n.TaskID = &id
	}
	n.CreatedAt = createdAt.UTC()

	return &n, nil
}
