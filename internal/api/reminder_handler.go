package api

import (
	"net/http"

	"github.com/davrill/taskhub-api/internal/api/shared"
	"github.com/davrill/taskhub-api/internal/reminder"
)

// ReminderHandler exposes the manual trigger for the deadline notification
// engine. The cycle is synchronous; the response carries its report.
type ReminderHandler struct {
	engine *reminder.Engine
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(engine *reminder.Engine) *ReminderHandler {
	return &ReminderHandler{engine: engine}
}

// Run handles POST /reminders/run.
func (h *ReminderHandler) Run(w http.ResponseWriter, r *http.Request) {
	if _, ok := getUserIDFromContext(r); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	report := h.engine.RunCycle(r.Context())

	shared.RespondWithJSON(w, r, http.StatusOK, ReminderRunResponse{
		Scanned:      report.Scanned,
		Notified:     report.Notified,
		Suppressed:   report.Suppressed,
		Skipped:      report.Skipped,
		Failures:     report.Failures,
		EmailsSent:   report.EmailsSent,
		EmailsFailed: report.EmailsFailed,
		ScanErrors:   len(report.ScanErrors),
	})
}
