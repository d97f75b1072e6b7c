package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrill/taskhub-api/internal/api/shared"
	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/events"
)

// asUser injects the user ID the way the auth middleware does.
func asUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type taskFixture struct {
	handler *TaskHandler
	tasks   *memTaskStore
	teams   *memTeamStore
	users   *memUserStore
	emitter *capturingEmitter

	ownerID uuid.UUID
	mateID  uuid.UUID
	teamID  uuid.UUID
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	users := newMemUserStore()
	teams := newMemTeamStore()
	tasks := newMemTaskStore()
	emitter := &capturingEmitter{}

	owner, err := domain.NewUser("Owner", "owner@example.com", "long enough password")
	require.NoError(t, err)
	owner.HashedPassword = "x"
	require.NoError(t, users.Create(context.Background(), owner))

	mate, err := domain.NewUser("Mate", "mate@example.com", "long enough password")
	require.NoError(t, err)
	mate.HashedPassword = "x"
	require.NoError(t, users.Create(context.Background(), mate))

	team, err := domain.NewTeam("Platform", owner.ID)
	require.NoError(t, err)
	team.MemberIDs = append(team.MemberIDs, mate.ID)
	require.NoError(t, teams.Create(context.Background(), team))

	return &taskFixture{
		handler: NewTaskHandler(tasks, teams, users, emitter),
		tasks:   tasks,
		teams:   teams,
		users:   users,
		emitter: emitter,
		ownerID: owner.ID,
		mateID:  mate.ID,
		teamID:  team.ID,
	}
}

func (f *taskFixture) router(userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(asUser(userID))
	r.Post("/tasks", f.handler.Create)
	r.Get("/tasks", f.handler.ListMine)
	r.Get("/tasks/{id}", f.handler.Get)
	r.Patch("/tasks/{id}", f.handler.Update)
	r.Delete("/tasks/{id}", f.handler.Delete)
	r.Get("/teams/{id}/tasks", f.handler.ListByTeam)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestTaskHandler_CreateAndGet(t *testing.T) {
	f := newTaskFixture(t)
	router := f.router(f.ownerID)

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	rr := doJSON(t, router, http.MethodPost, "/tasks", CreateTaskRequest{
		Title:      "Prepare demo",
		TeamID:     f.teamID,
		AssigneeID: &f.mateID,
		Priority:   "high",
		DueDate:    &due,
		Tags:       []string{"demo"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Prepare demo", created.Title)
	assert.Equal(t, "high", created.Priority)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, f.ownerID, created.CreatorID)
	require.NotNil(t, created.AssigneeID)
	assert.Equal(t, f.mateID, *created.AssigneeID)

	// Creating with an assignee emits a task.assigned event.
	emitted := f.emitter.all()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.TypeTaskAssigned, emitted[0].Type)

	rr = doJSON(t, router, http.MethodGet, "/tasks/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestTaskHandler_NonMemberIsForbidden(t *testing.T) {
	f := newTaskFixture(t)
	strangerID := uuid.New()
	router := f.router(strangerID)

	rr := doJSON(t, router, http.MethodPost, "/tasks", CreateTaskRequest{
		Title:  "Sneaky task",
		TeamID: f.teamID,
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/teams/"+f.teamID.String()+"/tasks", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestTaskHandler_UpdateStatusEmitsEvent(t *testing.T) {
	f := newTaskFixture(t)
	router := f.router(f.mateID)

	task, err := domain.NewTask("Fix flaky test", f.ownerID, f.teamID)
	require.NoError(t, err)
	task.AssigneeID = &f.mateID
	require.NoError(t, f.tasks.Create(context.Background(), task))

	status := "in_progress"
	rr := doJSON(t, router, http.MethodPatch, "/tasks/"+task.ID.String(), UpdateTaskRequest{
		Status: &status,
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var updated TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "in_progress", updated.Status)

	emitted := f.emitter.all()
	require.Len(t, emitted, 1)
	require.Equal(t, events.TypeTaskStatusChanged, emitted[0].Type)

	var payload events.TaskStatusChangedPayload
	require.NoError(t, emitted[0].UnmarshalPayload(&payload))
	assert.Equal(t, task.ID, payload.TaskID)
	assert.Equal(t, f.mateID, payload.ActorID)
	assert.Equal(t, "pending", payload.OldStatus)
	assert.Equal(t, "in_progress", payload.NewStatus)
	assert.Contains(t, payload.Recipients, f.ownerID)
}

func TestTaskHandler_UpdateRejectsInvalidStatus(t *testing.T) {
	f := newTaskFixture(t)
	router := f.router(f.ownerID)

	task, err := domain.NewTask("Some task", f.ownerID, f.teamID)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(context.Background(), task))

	status := "archived"
	rr := doJSON(t, router, http.MethodPatch, "/tasks/"+task.ID.String(), UpdateTaskRequest{
		Status: &status,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTaskHandler_Delete(t *testing.T) {
	f := newTaskFixture(t)
	router := f.router(f.ownerID)

	task, err := domain.NewTask("Obsolete", f.ownerID, f.teamID)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(context.Background(), task))

	rr := doJSON(t, router, http.MethodDelete, "/tasks/"+task.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/tasks/"+task.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTaskHandler_GetUnknownTask(t *testing.T) {
	f := newTaskFixture(t)
	router := f.router(f.ownerID)

	rr := doJSON(t, router, http.MethodGet, "/tasks/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/tasks/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTaskHandler_ListMine(t *testing.T) {
	f := newTaskFixture(t)

	task, err := domain.NewTask("Mine", f.ownerID, f.teamID)
	require.NoError(t, err)
	task.AssigneeID = &f.mateID
	require.NoError(t, f.tasks.Create(context.Background(), task))

	other, err := domain.NewTask("Not mine", f.ownerID, f.teamID)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Create(context.Background(), other))

	rr := doJSON(t, f.router(f.mateID), http.MethodGet, "/tasks", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var list []TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Mine", list[0].Title)
}
