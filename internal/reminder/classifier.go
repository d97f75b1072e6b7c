package reminder

import (
	"math"
	"time"

	"github.com/davrill/taskhub-api/internal/domain"
)

// UpcomingWindow is the eligibility band for upcoming-deadline reminders:
// tasks due within this span of "now" are classified as upcoming.
const UpcomingWindow = 24 * time.Hour

// Threshold labels a task's position relative to its due date.
type Threshold int

const (
	// ThresholdNone means the task needs no deadline notification: no due
	// date, already completed, or due further than the upcoming window out.
	ThresholdNone Threshold = iota

	// ThresholdUpcoming means the task is due within the upcoming window.
	ThresholdUpcoming

	// ThresholdOverdue means the task is past its due date.
	ThresholdOverdue
)

// String returns the threshold label for logs.
func (t Threshold) String() string {
	switch t {
	case ThresholdUpcoming:
		return "upcoming"
	case ThresholdOverdue:
		return "overdue"
	default:
		return "none"
	}
}

// Classification is the result of classifying one task at one instant.
//
// Magnitude is the user-visible quantity embedded in notification
// messages: whole hours left for upcoming tasks, whole days overdue for
// overdue ones. The two use different roundings (hours are rounded, days
// are ceiled with a minimum of 1); the asymmetry is observed behavior and
// deliberately preserved.
type Classification struct {
	Threshold Threshold
	Magnitude int
}

// Classify maps a task's due date and status to a threshold classification
// at the given instant. Pure and deterministic: callers inject now rather
// than having this read the system clock.
func Classify(now time.Time, task *domain.Task) Classification {
	if task.DueDate == nil || task.Completed() {
		return Classification{Threshold: ThresholdNone}
	}

	due := *task.DueDate

	if due.Before(now) {
		days := int(math.Ceil(now.Sub(due).Hours() / 24))
		if days < 1 {
			days = 1
		}
		return Classification{Threshold: ThresholdOverdue, Magnitude: days}
	}

	if !due.After(now.Add(UpcomingWindow)) {
		hours := int(math.Round(due.Sub(now).Hours()))
		return Classification{Threshold: ThresholdUpcoming, Magnitude: hours}
	}

	return Classification{Threshold: ThresholdNone}
}

// Kind maps a threshold to the notification kind the engine writes for it.
// Only upcoming and overdue thresholds have kinds.
func (t Threshold) Kind() domain.NotificationKind {
	switch t {
	case ThresholdUpcoming:
		return domain.KindDeadline
	case ThresholdOverdue:
		return domain.KindOverdue
	default:
		return ""
	}
}
