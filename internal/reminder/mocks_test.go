package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/email"
)

var errUserMissing = errors.New("user not found")

// fakeTaskSource serves fixed task slices for the two scan predicates.
type fakeTaskSource struct {
	overdue  []*domain.Task
	upcoming []*domain.Task

	overdueErr  error
	upcomingErr error
}

func (f *fakeTaskSource) ListDueBefore(_ context.Context, _ time.Time) ([]*domain.Task, error) {
	if f.overdueErr != nil {
		return nil, f.overdueErr
	}
	return f.overdue, nil
}

func (f *fakeTaskSource) ListDueBetween(_ context.Context, _, _ time.Time) ([]*domain.Task, error) {
	if f.upcomingErr != nil {
		return nil, f.upcomingErr
	}
	return f.upcoming, nil
}

// fakeUserSource resolves users from a map.
type fakeUserSource struct {
	users map[uuid.UUID]*domain.User
	err   error
}

func (f *fakeUserSource) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errUserMissing
}

// fakeNotificationStore keeps created notifications in memory and answers
// CountRecent against them, so a write in one cycle is visible to the
// gate check of the next.
type fakeNotificationStore struct {
	mu      sync.Mutex
	created []*domain.Notification

	createErr func(n *domain.Notification) error
	countErr  error
}

func (f *fakeNotificationStore) Create(_ context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		if err := f.createErr(n); err != nil {
			return err
		}
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationStore) CountRecent(
	_ context.Context,
	taskID, userID uuid.UUID,
	kind domain.NotificationKind,
	createdAfter time.Time,
) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countErr != nil {
		return 0, f.countErr
	}

	count := 0
	for _, n := range f.created {
		if n.TaskID != nil && *n.TaskID == taskID &&
			n.UserID == userID &&
			n.Kind == kind &&
			!n.CreatedAt.Before(createdAfter) {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) all() []*domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Notification(nil), f.created...)
}

// fakeDispatcher records send attempts and returns a configurable result.
type fakeDispatcher struct {
	mu     sync.Mutex
	sent   []string // recipient addresses
	result email.Result
}

func (f *fakeDispatcher) Send(_ context.Context, to, _, _ string) email.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return f.result
}

func (f *fakeDispatcher) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}
