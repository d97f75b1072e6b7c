package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateTeamRequest defines the payload for creating a team.
type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// AddTeamMemberRequest defines the payload for adding a member to a team.
type AddTeamMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,min=1,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	TeamID      uuid.UUID  `json:"team_id"     validate:"required"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// UpdateTaskRequest defines the payload for updating a task. All fields are
// optional; absent fields leave the current value unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	Status      *string    `json:"status,omitempty"      validate:"omitempty,oneof=pending in_progress completed"`
	Priority    *string    `json:"priority,omitempty"    validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
}

// TaskResponse is the wire representation of a task.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatorID   uuid.UUID  `json:"creator_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	TeamID      uuid.UUID  `json:"team_id"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTaskResponse converts a domain task to its wire representation.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatorID:   t.CreatorID,
		AssigneeID:  t.AssigneeID,
		TeamID:      t.TeamID,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Tags:        t.Tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NotificationResponse is the wire representation of a notification.
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    *uuid.UUID `json:"task_id,omitempty"`
	Kind      string     `json:"kind"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	Link      string     `json:"link,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewNotificationResponse converts a domain notification to its wire form.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		TaskID:    n.TaskID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		Read:      n.Read,
		Link:      n.Link,
		CreatedAt: n.CreatedAt,
	}
}

// UnreadCountResponse carries the unread notification count for a user.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// ReminderRunResponse summarizes a manually triggered reminder cycle.
type ReminderRunResponse struct {
	Scanned      int `json:"scanned"`
	Notified     int `json:"notified"`
	Suppressed   int `json:"suppressed"`
	Skipped      int `json:"skipped"`
	Failures     int `json:"failures"`
	EmailsSent   int `json:"emails_sent"`
	EmailsFailed int `json:"emails_failed"`
	ScanErrors   int `json:"scan_errors"`
}
