package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Notification-specific validation errors
var (
	ErrEmptyNotificationID        = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationUser      = errors.New("notification user cannot be empty")
	ErrEmptyNotificationMessage   = errors.New("notification message cannot be empty")
	ErrUnknownNotificationKind    = errors.New("unknown notification kind")
	ErrNotificationAlreadyDeleted = errors.New("notification already deleted")
)

// NotificationKind enumerates the kinds of notifications the system emits.
// The deadline engine creates only KindDeadline and KindOverdue; the other
// kinds are written by the task API's event handlers and share the store.
type NotificationKind string

const (
	// KindDeadline marks an upcoming-deadline reminder (task due within 24h).
	KindDeadline NotificationKind = "deadline"

	// KindOverdue marks an overdue alert (task past its due date).
	KindOverdue NotificationKind = "overdue"

	// KindAssignment marks a task-assignment notification.
	KindAssignment NotificationKind = "assignment"

	// KindStatusChange marks a task status change notification.
	KindStatusChange NotificationKind = "status_change"

	// KindTeamInvite marks a team invitation notification.
	KindTeamInvite NotificationKind = "team_invite"
)

// Valid reports whether the kind is one of the known values.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindDeadline, KindOverdue, KindAssignment, KindStatusChange, KindTeamInvite:
		return true
	}
	return false
}

// Notification is an in-app message addressed to a single user, optionally
// referencing a task. Notifications are created by their writers (the
// deadline engine, the task API's event handlers) and thereafter only ever
// marked read or deleted; no writer mutates an existing notification.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	TaskID    *uuid.UUID       `json:"task_id,omitempty"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Link      string           `json:"link,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewNotification creates an unread Notification for the given user.
// taskID may be nil for notifications not tied to a task (team invites).
// Returns an error if validation fails.
func NewNotification(
	userID uuid.UUID,
	taskID *uuid.UUID,
	kind NotificationKind,
	message string,
	link string,
) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		TaskID:    taskID,
		Kind:      kind,
		Message:   message,
		Read:      false,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}

	if n.UserID == uuid.Nil {
		return ErrEmptyNotificationUser
	}

	if !n.Kind.Valid() {
		return ErrUnknownNotificationKind
	}

	if n.Message == "" {
		return ErrEmptyNotificationMessage
	}

	return nil
}
