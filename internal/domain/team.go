package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Team-specific validation errors
var (
	ErrEmptyTeamID    = errors.New("team ID cannot be empty")
	ErrEmptyTeamName  = errors.New("team name cannot be empty")
	ErrEmptyTeamOwner = errors.New("team owner cannot be empty")
)

// Team represents a group of users that share tasks.
type Team struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	MemberIDs []uuid.UUID `json:"member_ids"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewTeam creates a new Team owned by the given user. The owner is always
// a member. Returns an error if validation fails.
func NewTeam(name string, ownerID uuid.UUID) (*Team, error) {
	team := &Team{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		OwnerID:   ownerID,
		MemberIDs: []uuid.UUID{ownerID},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := team.Validate(); err != nil {
		return nil, err
	}

	return team, nil
}

// Validate checks if the Team has valid data.
func (t *Team) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTeamID
	}

	if t.Name == "" {
		return ErrEmptyTeamName
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTeamOwner
	}

	return nil
}

// HasMember reports whether the given user belongs to the team.
func (t *Team) HasMember(userID uuid.UUID) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
