package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrill/taskhub-api/internal/domain"
)

func notificationRouter(h *NotificationHandler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(asUser(userID))
	r.Get("/notifications", h.List)
	r.Get("/notifications/unread-count", h.UnreadCount)
	r.Post("/notifications/read-all", h.MarkAllRead)
	r.Post("/notifications/{id}/read", h.MarkRead)
	r.Delete("/notifications/{id}", h.Delete)
	return r
}

func seedNotification(t *testing.T, s *memNotificationStore, userID uuid.UUID, kind domain.NotificationKind) *domain.Notification {
	t.Helper()
	taskID := uuid.New()
	n, err := domain.NewNotification(userID, &taskID, kind, "something happened", "/tasks/"+taskID.String())
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), n))
	return n
}

func TestNotificationHandler_ListAndCount(t *testing.T) {
	notifications := newMemNotificationStore()
	handler := NewNotificationHandler(notifications)
	userID := uuid.New()

	seedNotification(t, notifications, userID, domain.KindDeadline)
	read := seedNotification(t, notifications, userID, domain.KindOverdue)
	read.Read = true
	seedNotification(t, notifications, uuid.New(), domain.KindDeadline) // someone else's

	router := notificationRouter(handler, userID)

	rr := doJSON(t, router, http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []NotificationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	rr = doJSON(t, router, http.MethodGet, "/notifications?unread=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rr = doJSON(t, router, http.MethodGet, "/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var count UnreadCountResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &count))
	assert.Equal(t, 1, count.Unread)
}

func TestNotificationHandler_ListRejectsBadLimit(t *testing.T) {
	handler := NewNotificationHandler(newMemNotificationStore())
	router := notificationRouter(handler, uuid.New())

	rr := doJSON(t, router, http.MethodGet, "/notifications?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/notifications?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNotificationHandler_MarkRead(t *testing.T) {
	notifications := newMemNotificationStore()
	handler := NewNotificationHandler(notifications)
	userID := uuid.New()
	n := seedNotification(t, notifications, userID, domain.KindDeadline)

	router := notificationRouter(handler, userID)
	rr := doJSON(t, router, http.MethodPost, "/notifications/"+n.ID.String()+"/read", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	stored, err := notifications.GetByID(context.Background(), n.ID)
	require.NoError(t, err)
	assert.True(t, stored.Read)
}

func TestNotificationHandler_OwnershipIsEnforced(t *testing.T) {
	notifications := newMemNotificationStore()
	handler := NewNotificationHandler(notifications)
	ownerID := uuid.New()
	n := seedNotification(t, notifications, ownerID, domain.KindDeadline)

	// Another authenticated user touching the record gets 403.
	intruder := notificationRouter(handler, uuid.New())
	rr := doJSON(t, intruder, http.MethodPost, "/notifications/"+n.ID.String()+"/read", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, intruder, http.MethodDelete, "/notifications/"+n.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// A missing record is 404, regardless of user.
	rr = doJSON(t, intruder, http.MethodPost, "/notifications/"+uuid.NewString()+"/read", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNotificationHandler_MarkAllReadAndDelete(t *testing.T) {
	notifications := newMemNotificationStore()
	handler := NewNotificationHandler(notifications)
	userID := uuid.New()

	first := seedNotification(t, notifications, userID, domain.KindDeadline)
	seedNotification(t, notifications, userID, domain.KindOverdue)

	router := notificationRouter(handler, userID)

	rr := doJSON(t, router, http.MethodPost, "/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var result map[string]int
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, 2, result["updated"])

	rr = doJSON(t, router, http.MethodDelete, "/notifications/"+first.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	_, err := notifications.GetByID(context.Background(), first.ID)
	assert.Error(t, err)
}
