package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/api/shared"
	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/events"
	"github.com/davrill/taskhub-api/internal/store"
)

// TaskHandler handles task CRUD API requests. Assignment and status changes
// emit events; the notification writer turns those into in-app notifications
// and emails without the handler knowing about either.
type TaskHandler struct {
	taskStore store.TaskStore
	teamStore store.TeamStore
	userStore store.UserStore
	emitter   events.EventEmitter
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	taskStore store.TaskStore,
	teamStore store.TeamStore,
	userStore store.UserStore,
	emitter events.EventEmitter,
) *TaskHandler {
	return &TaskHandler{
		taskStore: taskStore,
		teamStore: teamStore,
		userStore: userStore,
		emitter:   emitter,
		validator: validator.New(),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if !h.requireTeamMembership(w, r, req.TeamID, userID) {
		return
	}

	task, err := domain.NewTask(req.Title, userID, req.TeamID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}
	task.Description = req.Description
	task.AssigneeID = req.AssigneeID
	task.DueDate = req.DueDate
	task.Tags = req.Tags
	if req.Priority != "" {
		task.Priority = domain.TaskPriority(req.Priority)
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	if task.AssigneeID != nil {
		h.emitAssigned(r, task, userID)
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.requireTeamMembership(w, r, task.TeamID, userID) {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// ListByTeam handles GET /teams/{id}/tasks.
func (h *TaskHandler) ListByTeam(w http.ResponseWriter, r *http.Request) {
	userID, teamID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if !h.requireTeamMembership(w, r, teamID, userID) {
		return
	}

	tasks, err := h.taskStore.ListByTeam(r.Context(), teamID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// ListMine handles GET /tasks, the authenticated user's assigned tasks.
func (h *TaskHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	tasks, err := h.taskStore.ListByAssignee(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, NewTaskResponse(task))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// Update handles PATCH /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.requireTeamMembership(w, r, task.TeamID, userID) {
		return
	}

	oldStatus := task.Status
	oldAssignee := task.AssigneeID

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.AssigneeID != nil {
		task.AssigneeID = req.AssigneeID
	}
	if req.Status != nil {
		task.Status = domain.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}

	if err := task.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	assigneeChanged := task.AssigneeID != nil &&
		(oldAssignee == nil || *oldAssignee != *task.AssigneeID)
	if assigneeChanged {
		h.emitAssigned(r, task, userID)
	}
	if task.Status != oldStatus {
		h.emitStatusChanged(r, task, userID, oldStatus)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if !h.requireTeamMembership(w, r, task.TeamID, userID) {
		return
	}

	if err := h.taskStore.Delete(r.Context(), taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireTeamMembership loads the team and verifies the user belongs to it,
// writing the error response itself on failure.
func (h *TaskHandler) requireTeamMembership(
	w http.ResponseWriter,
	r *http.Request,
	teamID, userID uuid.UUID,
) bool {
	team, err := h.teamStore.GetByID(r.Context(), teamID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	if !team.HasMember(userID) {
		HandleAPIError(w, r, fmt.Errorf("user is not a member of team %s: %w", teamID, domain.ErrUnauthorized), "")
		return false
	}
	return true
}

// emitAssigned publishes a task.assigned event. Emission failures are logged
// only; the task write already succeeded.
func (h *TaskHandler) emitAssigned(r *http.Request, task *domain.Task, actorID uuid.UUID) {
	actorName := h.lookupName(r, actorID)

	event, err := events.NewTaskEvent(events.TypeTaskAssigned, events.TaskAssignedPayload{
		TaskID:       task.ID,
		TaskTitle:    task.Title,
		AssigneeID:   *task.AssigneeID,
		AssignerID:   actorID,
		AssignerName: actorName,
		DueDate:      task.DueDate,
	})
	if err == nil {
		err = h.emitter.EmitEvent(r.Context(), event)
	}
	if err != nil {
		slog.Error("failed to emit task assigned event", "error", err, "task_id", task.ID)
	}
}

// emitStatusChanged publishes a task.status_changed event addressed to the
// task's creator and assignee.
func (h *TaskHandler) emitStatusChanged(
	r *http.Request,
	task *domain.Task,
	actorID uuid.UUID,
	oldStatus domain.TaskStatus,
) {
	recipients := []uuid.UUID{task.CreatorID}
	if task.AssigneeID != nil {
		recipients = append(recipients, *task.AssigneeID)
	}

	event, err := events.NewTaskEvent(events.TypeTaskStatusChanged, events.TaskStatusChangedPayload{
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		ActorID:    actorID,
		ActorName:  h.lookupName(r, actorID),
		Recipients: recipients,
		OldStatus:  string(oldStatus),
		NewStatus:  string(task.Status),
	})
	if err == nil {
		err = h.emitter.EmitEvent(r.Context(), event)
	}
	if err != nil {
		slog.Error("failed to emit status change event", "error", err, "task_id", task.ID)
	}
}

func (h *TaskHandler) lookupName(r *http.Request, userID uuid.UUID) string {
	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		slog.Warn("failed to resolve actor name", "error", err, "user_id", userID)
		return "Someone"
	}
	return user.Name
}
