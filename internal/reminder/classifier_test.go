package reminder

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/davrill/taskhub-api/internal/domain"
)

// taskDue builds a minimal task with the given due date offset from now
// and the given status.
func taskDue(now time.Time, offset time.Duration, status domain.TaskStatus) *domain.Task {
	due := now.Add(offset)
	return &domain.Task{
		ID:        uuid.New(),
		Title:     "test task",
		CreatorID: uuid.New(),
		TeamID:    uuid.New(),
		Status:    status,
		Priority:  domain.TaskPriorityMedium,
		DueDate:   &due,
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		task          *domain.Task
		wantThreshold Threshold
		wantMagnitude int
	}{
		{
			name:          "due 50h ago pending is overdue by 3 days",
			task:          taskDue(now, -50*time.Hour, domain.TaskStatusPending),
			wantThreshold: ThresholdOverdue,
			wantMagnitude: 3, // ceil(50/24)
		},
		{
			name:          "due in 5h in progress is upcoming with 5 hours",
			task:          taskDue(now, 5*time.Hour, domain.TaskStatusInProgress),
			wantThreshold: ThresholdUpcoming,
			wantMagnitude: 5,
		},
		{
			name:          "due in 48h is outside both windows",
			task:          taskDue(now, 48*time.Hour, domain.TaskStatusPending),
			wantThreshold: ThresholdNone,
		},
		{
			name:          "due exactly now is upcoming with 0 hours",
			task:          taskDue(now, 0, domain.TaskStatusPending),
			wantThreshold: ThresholdUpcoming,
			wantMagnitude: 0,
		},
		{
			name:          "due exactly 24h out is still upcoming",
			task:          taskDue(now, 24*time.Hour, domain.TaskStatusPending),
			wantThreshold: ThresholdUpcoming,
			wantMagnitude: 24,
		},
		{
			name:          "due just past 24h is none",
			task:          taskDue(now, 24*time.Hour+time.Minute, domain.TaskStatusPending),
			wantThreshold: ThresholdNone,
		},
		{
			name:          "one minute overdue still reports one day",
			task:          taskDue(now, -time.Minute, domain.TaskStatusPending),
			wantThreshold: ThresholdOverdue,
			wantMagnitude: 1,
		},
		{
			name:          "exactly one day overdue is one day",
			task:          taskDue(now, -24*time.Hour, domain.TaskStatusPending),
			wantThreshold: ThresholdOverdue,
			wantMagnitude: 1,
		},
		{
			name:          "a bit past one day overdue rounds up to two",
			task:          taskDue(now, -25*time.Hour, domain.TaskStatusPending),
			wantThreshold: ThresholdOverdue,
			wantMagnitude: 2,
		},
		{
			name:          "hours left round half up",
			task:          taskDue(now, 5*time.Hour+30*time.Minute, domain.TaskStatusPending),
			wantThreshold: ThresholdUpcoming,
			wantMagnitude: 6,
		},
		{
			name:          "hours left round down below half",
			task:          taskDue(now, 5*time.Hour+20*time.Minute, domain.TaskStatusPending),
			wantThreshold: ThresholdUpcoming,
			wantMagnitude: 5,
		},
		{
			name:          "completed task overdue is none",
			task:          taskDue(now, -50*time.Hour, domain.TaskStatusCompleted),
			wantThreshold: ThresholdNone,
		},
		{
			name:          "completed task upcoming is none",
			task:          taskDue(now, 5*time.Hour, domain.TaskStatusCompleted),
			wantThreshold: ThresholdNone,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Classify(now, tt.task)
			assert.Equal(t, tt.wantThreshold, got.Threshold)
			assert.Equal(t, tt.wantMagnitude, got.Magnitude)
		})
	}

	t.Run("no due date is none regardless of status", func(t *testing.T) {
		t.Parallel()

		task := taskDue(now, -50*time.Hour, domain.TaskStatusPending)
		task.DueDate = nil

		got := Classify(now, task)
		assert.Equal(t, ThresholdNone, got.Threshold)
	})

	t.Run("deterministic for a fixed now", func(t *testing.T) {
		t.Parallel()

		task := taskDue(now, -36*time.Hour, domain.TaskStatusInProgress)
		first := Classify(now, task)
		second := Classify(now, task)
		assert.Equal(t, first, second)
	})
}

func TestThresholdKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.KindDeadline, ThresholdUpcoming.Kind())
	assert.Equal(t, domain.KindOverdue, ThresholdOverdue.Kind())
	assert.Empty(t, ThresholdNone.Kind())
}
