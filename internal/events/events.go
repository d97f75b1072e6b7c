package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the task API.
const (
	TypeTaskAssigned      = "task.assigned"
	TypeTaskStatusChanged = "task.status_changed"
)

// TaskEvent represents something that happened to a task. It carries the
// event-specific data as a serialized payload so that emitters do not need
// direct dependencies on the handlers' input types.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what happened (one of the Type* constants)
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *TaskEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewTaskEvent creates a new TaskEvent with the specified type and payload.
func NewTaskEvent(eventType string, payload interface{}) (*TaskEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &TaskEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// TaskAssignedPayload is the payload of a TypeTaskAssigned event.
type TaskAssignedPayload struct {
	TaskID       uuid.UUID  `json:"task_id"`
	TaskTitle    string     `json:"task_title"`
	AssigneeID   uuid.UUID  `json:"assignee_id"`
	AssignerID   uuid.UUID  `json:"assigner_id"`
	AssignerName string     `json:"assigner_name"`
	DueDate      *time.Time `json:"due_date,omitempty"`
}

// TaskStatusChangedPayload is the payload of a TypeTaskStatusChanged event.
// Recipients is the set of users to notify, already excluding the actor who
// made the change.
type TaskStatusChangedPayload struct {
	TaskID     uuid.UUID   `json:"task_id"`
	TaskTitle  string      `json:"task_title"`
	ActorID    uuid.UUID   `json:"actor_id"`
	ActorName  string      `json:"actor_name"`
	Recipients []uuid.UUID `json:"recipients"`
	OldStatus  string      `json:"old_status"`
	NewStatus  string      `json:"new_status"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}
