package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrEmptyTaskCreator = errors.New("task creator cannot be empty")
	ErrEmptyTaskTeam    = errors.New("task team cannot be empty")
)

// TaskStatus enumerates the lifecycle states of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task represents a unit of work belonging to a team, optionally assigned
// to a user and optionally carrying a due date.
//
// AssigneeID and DueDate are pointers because both are optional: a task
// with no due date, or with status completed, is never eligible for
// deadline notifications.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	CreatorID   uuid.UUID    `json:"creator_id"`
	AssigneeID  *uuid.UUID   `json:"assignee_id,omitempty"`
	TeamID      uuid.UUID    `json:"team_id"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a new pending Task with the given title, creator and team.
// Status defaults to pending and priority to medium, matching the store
// defaults. Returns an error if validation fails.
func NewTask(title string, creatorID, teamID uuid.UUID) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		CreatorID: creatorID,
		TeamID:    teamID,
		Status:    TaskStatusPending,
		Priority:  TaskPriorityMedium,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.CreatorID == uuid.Nil {
		return ErrEmptyTaskCreator
	}

	if t.TeamID == uuid.Nil {
		return ErrEmptyTaskTeam
	}

	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}

	if !t.Priority.Valid() {
		return ErrInvalidTaskPriority
	}

	return nil
}

// Completed reports whether the task has reached its terminal status.
func (t *Task) Completed() bool {
	return t.Status == TaskStatusCompleted
}
