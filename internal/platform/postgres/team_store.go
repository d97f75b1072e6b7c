package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/platform/logger"
	"github.com/davrill/taskhub-api/internal/store"
)

// PostgresTeamStore implements the store.TeamStore interface using PostgreSQL.
type PostgresTeamStore struct {
	db store.DBTX
}

// NewPostgresTeamStore creates a new PostgresTeamStore.
func NewPostgresTeamStore(db store.DBTX) *PostgresTeamStore {
	return &PostgresTeamStore{db: db}
}

// Create saves a new team and its membership rows. The team row and the
// member rows are written atomically: when the store is backed by a *sql.DB
// it wraps the writes in a transaction, and a transaction-backed DBTX is
// used as is.
func (s *PostgresTeamStore) Create(ctx context.Context, team *domain.Team) error {
	if db, ok := s.db.(*sql.DB); ok {
		return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
			return (&PostgresTeamStore{db: tx}).create(ctx, team)
		})
	}
	return s.create(ctx, team)
}

func (s *PostgresTeamStore) create(ctx context.Context, team *domain.Team) error {
	log := logger.FromContext(ctx)

	if err := team.Validate(); err != nil {
		return store.NewStoreError("team", "create", "validation failed", err)
	}

	query := `
		INSERT INTO teams (id, name, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query,
		team.ID,
		team.Name,
		team.OwnerID,
		team.CreatedAt,
		team.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create team",
			"team_id", team.ID,
			"error", err)
		return MapError(err)
	}

	for _, memberID := range team.MemberIDs {
		if err := s.AddMember(ctx, team.ID, memberID); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a team with its member IDs populated.
func (s *PostgresTeamStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM teams
		WHERE id = $1
	`

	var (
		team      domain.Team
		createdAt time.Time
		updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.OwnerID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if mapped := MapError(err); store.IsNotFoundError(mapped) {
			return nil, store.ErrTeamNotFound
		}
		return nil, MapError(err)
	}
	team.CreatedAt = createdAt.UTC()
	team.UpdatedAt = updatedAt.UTC()

	members, err := s.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	team.MemberIDs = members

	return &team, nil
}

// ListByMember retrieves all teams the given user belongs to.
func (s *PostgresTeamStore) ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error) {
	query := `
		SELECT t.id, t.name, t.owner_id, t.created_at, t.updated_at
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var teams []*domain.Team
	for rows.Next() {
		var (
			team      domain.Team
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&team.ID, &team.Name, &team.OwnerID, &createdAt, &updatedAt); err != nil {
			return nil, MapError(err)
		}
		team.CreatedAt = createdAt.UTC()
		team.UpdatedAt = updatedAt.UTC()
		teams = append(teams, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return teams, nil
}

// AddMember adds a user to a team. Adding an existing member is a no-op.
func (s *PostgresTeamStore) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	query := `
		INSERT INTO team_members (team_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (team_id, user_id) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, teamID, userID); err != nil {
		return MapError(err)
	}
	return nil
}

func (s *PostgresTeamStore) memberIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT user_id FROM team_members WHERE team_id = $1`

	rows, err := s.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return ids, nil
}
