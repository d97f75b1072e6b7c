package shared

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davrill/taskhub-api/internal/platform/logger"
)

// tracedRequest builds a request whose context carries a fixed trace ID and
// a logger writing into buf.
func tracedRequest(t *testing.T, buf *strings.Builder) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	ctx := context.WithValue(req.Context(), TraceIDKey, "trace-1234")
	if buf != nil {
		log := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ctx = logger.WithLogger(ctx, log)
	}
	return req.WithContext(ctx)
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/unread-count", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]int{"unread": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"unread": 3}`, w.Body.String())
}

// circular cannot be JSON encoded; used to exercise the encode error path.
type circular struct {
	Self *circular
}

func TestRespondWithJSONEncodingFailureIsLogged(t *testing.T) {
	t.Parallel()

	var logBuf strings.Builder
	req := tracedRequest(t, &logBuf)
	w := httptest.NewRecorder()

	data := &circular{}
	data.Self = data
	RespondWithJSON(w, req, http.StatusOK, data)

	// The status was already written; the failure is only observable in
	// the logs.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logBuf.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	req := tracedRequest(t, nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Notification not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Notification not found", body.Error)
	assert.Equal(t, "trace-1234", body.TraceID)
}

func TestRespondWithErrorOmitsTraceIDWhenAbsent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Invalid limit parameter")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "trace_id")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	t.Run("client body never carries the raw error", func(t *testing.T) {
		t.Parallel()

		var logBuf strings.Builder
		req := tracedRequest(t, &logBuf)
		w := httptest.NewRecorder()

		dbErr := errors.New("pq: connection to postgres://taskhub:hunter22@db:5432 refused")
		RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "Failed to list notifications", dbErr)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Failed to list notifications", body.Error)
		assert.Equal(t, "trace-1234", body.TraceID)
		assert.NotContains(t, w.Body.String(), "hunter22")
	})

	t.Run("server errors log at error level with redacted detail", func(t *testing.T) {
		t.Parallel()

		var logBuf strings.Builder
		req := tracedRequest(t, &logBuf)
		w := httptest.NewRecorder()

		dbErr := errors.New("pq: connection to postgres://taskhub:hunter22@db:5432 refused")
		RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "Failed to list notifications", dbErr)

		logged := logBuf.String()
		assert.Contains(t, logged, "level=ERROR")
		assert.Contains(t, logged, "trace-1234")
		assert.NotContains(t, logged, "hunter22")
	})

	t.Run("client errors log at debug level", func(t *testing.T) {
		t.Parallel()

		var logBuf strings.Builder
		req := tracedRequest(t, &logBuf)
		w := httptest.NewRecorder()

		RespondWithErrorAndLog(w, req, http.StatusForbidden, "Forbidden", errors.New("user is not a team member"))

		assert.Contains(t, logBuf.String(), "level=DEBUG")
	})

	t.Run("nil underlying error is fine", func(t *testing.T) {
		t.Parallel()

		req := tracedRequest(t, nil)
		w := httptest.NewRecorder()

		RespondWithErrorAndLog(w, req, http.StatusBadRequest, "Invalid request format", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Invalid request format", body.Error)
	})
}
