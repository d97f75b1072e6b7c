package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
)

// TeamStore defines the interface for team data persistence.
type TeamStore interface {
	// Create saves a new team to the store, including its membership rows.
	Create(ctx context.Context, team *domain.Team) error

	// GetByID retrieves a team with its member IDs populated.
	// Returns ErrTeamNotFound if the team does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error)

	// ListByMember retrieves all teams the given user belongs to.
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Team, error)

	// AddMember adds a user to a team. Adding an existing member is a no-op.
	AddMember(ctx context.Context, teamID, userID uuid.UUID) error
}
