package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/api/shared"
	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/store"
)

// TeamHandler handles team management API requests.
type TeamHandler struct {
	teamStore         store.TeamStore
	userStore         store.UserStore
	notificationStore store.NotificationStore
	validator         *validator.Validate
}

// NewTeamHandler creates a new TeamHandler with the given dependencies.
func NewTeamHandler(
	teamStore store.TeamStore,
	userStore store.UserStore,
	notificationStore store.NotificationStore,
) *TeamHandler {
	return &TeamHandler{
		teamStore:         teamStore,
		userStore:         userStore,
		notificationStore: notificationStore,
		validator:         validator.New(),
	}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTeamRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	team, err := domain.NewTeam(req.Name, userID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid team data: "+err.Error())
		return
	}

	if err := h.teamStore.Create(r.Context(), team); err != nil {
		HandleAPIError(w, r, err, "Failed to create team")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, team)
}

// ListMine handles GET /teams, the authenticated user's teams.
func (h *TeamHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	teams, err := h.teamStore.ListByMember(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list teams")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, teams)
}

// Get handles GET /teams/{id}.
func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	team, err := h.teamStore.GetByID(r.Context(), teamID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !team.HasMember(userID) {
		HandleAPIError(w, r, fmt.Errorf("user is not a member of team %s: %w", teamID, domain.ErrUnauthorized), "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, team)
}

// AddMember handles POST /teams/{id}/members. Only the team owner can add
// members; the new member receives a team invite notification.
func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AddTeamMemberRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	team, err := h.teamStore.GetByID(r.Context(), teamID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if team.OwnerID != userID {
		HandleAPIError(w, r, fmt.Errorf("only the team owner can add members: %w", domain.ErrUnauthorized), "")
		return
	}

	// Reject unknown users up front rather than on the FK violation.
	if _, err := h.userStore.GetByID(r.Context(), req.UserID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.teamStore.AddMember(r.Context(), teamID, req.UserID); err != nil {
		HandleAPIError(w, r, err, "Failed to add member")
		return
	}

	h.writeInviteNotification(r, team, req.UserID)

	w.WriteHeader(http.StatusNoContent)
}

// writeInviteNotification records a team invite notification for the new
// member. Failures are logged only; membership was already persisted.
func (h *TeamHandler) writeInviteNotification(r *http.Request, team *domain.Team, memberID uuid.UUID) {
	message := fmt.Sprintf("You were added to the team %q", team.Name)

	notification, err := domain.NewNotification(memberID, nil, domain.KindTeamInvite, message, "")
	if err == nil {
		err = h.notificationStore.Create(r.Context(), notification)
	}
	if err != nil {
		slog.Error("failed to persist invite notification",
			"error", err,
			"team_id", team.ID,
			"user_id", memberID)
	}
}
