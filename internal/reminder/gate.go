package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
)

// Deduplication windows per notification kind. An overdue state persists
// for days, so a day-long suppression window prevents re-notifying every
// cycle while still re-alerting daily. The upcoming window is shorter
// because the 24-hour eligibility band itself is narrow and a missed early
// reminder should still land before the deadline.
const (
	overdueWindow  = 24 * time.Hour
	upcomingWindow = 6 * time.Hour
)

// Window returns the deduplication lookback window for a notification kind.
func Window(kind domain.NotificationKind) time.Duration {
	if kind == domain.KindOverdue {
		return overdueWindow
	}
	return upcomingWindow
}

// Gate decides whether a new notification may be emitted for a
// (task, recipient, kind) triple, suppressing repeats inside the kind's
// deduplication window.
//
// The check and the subsequent write are intentionally not wrapped in a
// transaction: two overlapping cycles in separate processes can both pass
// the gate and double-write. That duplicate is rare and harmless, and the
// window absorbs it on the next cycle.
type Gate struct {
	notifications NotificationStore
}

// NewGate creates a Gate over the given notification store.
func NewGate(notifications NotificationStore) *Gate {
	return &Gate{notifications: notifications}
}

// Allow reports whether a notification of the given kind may be emitted
// for the task/recipient pair at the given instant. It permits when no
// notification of the exact (task, recipient, kind) triple exists with a
// creation timestamp inside the lookback window.
func (g *Gate) Allow(
	ctx context.Context,
	taskID, userID uuid.UUID,
	kind domain.NotificationKind,
	now time.Time,
) (bool, error) {
	cutoff := now.Add(-Window(kind))

	count, err := g.notifications.CountRecent(ctx, taskID, userID, kind, cutoff)
	if err != nil {
		return false, fmt.Errorf("dedup check for task %s failed: %w", taskID, err)
	}

	return count == 0, nil
}
