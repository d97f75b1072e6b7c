package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/api/shared"
	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/store"
)

// NotificationHandler handles notification API requests. All operations are
// scoped to the authenticated user; touching another user's notification
// yields 403, not 404, once the record is known to exist.
type NotificationHandler struct {
	notificationStore store.NotificationStore
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationStore store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notificationStore: notificationStore}
}

// List handles GET /notifications. Supports ?unread=true and ?limit=N.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter := store.NotificationFilter{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		filter.Limit = limit
	}

	notifications, err := h.notificationStore.ListByUser(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notifications")
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, NewNotificationResponse(n))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UnreadCount handles GET /notifications/unread-count.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	count, err := h.notificationStore.CountUnread(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to count notifications")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UnreadCountResponse{Unread: count})
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, notificationID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if !h.requireOwnership(w, r, notificationID, userID) {
		return
	}

	if err := h.notificationStore.MarkRead(r.Context(), notificationID); err != nil {
		HandleAPIError(w, r, err, "Failed to mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	updated, err := h.notificationStore.MarkAllRead(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to mark notifications read")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]int{"updated": updated})
}

// Delete handles DELETE /notifications/{id}.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, notificationID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if !h.requireOwnership(w, r, notificationID, userID) {
		return
	}

	if err := h.notificationStore.Delete(r.Context(), notificationID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requireOwnership verifies that the notification exists and is addressed to
// the user, writing the error response itself on failure.
func (h *NotificationHandler) requireOwnership(
	w http.ResponseWriter,
	r *http.Request,
	notificationID, userID uuid.UUID,
) bool {
	notification, err := h.notificationStore.GetByID(r.Context(), notificationID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	if notification.UserID != userID {
		HandleAPIError(w, r, fmt.Errorf("notification %s belongs to another user: %w",
			notificationID, domain.ErrUnauthorized), "")
		return false
	}
	return true
}
