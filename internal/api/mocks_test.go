package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/davrill/taskhub-api/internal/domain"
	"github.com/davrill/taskhub-api/internal/events"
	"github.com/davrill/taskhub-api/internal/service/auth"
	"github.com/davrill/taskhub-api/internal/store"
)

// In-memory store fakes used across the handler tests.

type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uuid.UUID]*domain.User{}}
}

func (s *memUserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

type memTeamStore struct {
	mu    sync.Mutex
	teams map[uuid.UUID]*domain.Team
}

func newMemTeamStore() *memTeamStore {
	return &memTeamStore{teams: map[uuid.UUID]*domain.Team{}}
}

func (s *memTeamStore) Create(_ context.Context, team *domain.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.ID] = team
	return nil
}

func (s *memTeamStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.teams[id]; ok {
		return t, nil
	}
	return nil, store.ErrTeamNotFound
}

func (s *memTeamStore) ListByMember(_ context.Context, userID uuid.UUID) ([]*domain.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Team
	for _, t := range s.teams {
		if t.HasMember(userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTeamStore) AddMember(_ context.Context, teamID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[teamID]
	if !ok {
		return store.ErrTeamNotFound
	}
	if !t.HasMember(userID) {
		t.MemberIDs = append(t.MemberIDs, userID)
	}
	return nil
}

type memTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: map[uuid.UUID]*domain.Task{}}
}

func (s *memTaskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return nil
}

func (s *memTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		return t, nil
	}
	return nil, store.ErrTaskNotFound
}

func (s *memTaskStore) Update(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *memTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *memTaskStore) ListByTeam(_ context.Context, teamID uuid.UUID) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.TeamID == teamID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTaskStore) ListByAssignee(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTaskStore) ListDueBefore(_ context.Context, at time.Time) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.DueDate != nil && t.DueDate.Before(at) && !t.Completed() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memTaskStore) ListDueBetween(_ context.Context, from, to time.Time) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.DueDate == nil || t.Completed() {
			continue
		}
		if !t.DueDate.Before(from) && !t.DueDate.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}

type memNotificationStore struct {
	mu            sync.Mutex
	notifications map[uuid.UUID]*domain.Notification
}

func newMemNotificationStore() *memNotificationStore {
	return &memNotificationStore{notifications: map[uuid.UUID]*domain.Notification{}}
}

func (s *memNotificationStore) Create(_ context.Context, n *domain.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = n
	return nil
}

func (s *memNotificationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notifications[id]; ok {
		return n, nil
	}
	return nil, store.ErrNotificationNotFound
}

func (s *memNotificationStore) ListByUser(
	_ context.Context,
	userID uuid.UUID,
	filter store.NotificationFilter,
) ([]*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if filter.UnreadOnly && n.Read {
			continue
		}
		out = append(out, n)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *memNotificationStore) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *memNotificationStore) CountRecent(
	_ context.Context,
	taskID, userID uuid.UUID,
	kind domain.NotificationKind,
	createdAfter time.Time,
) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, n := range s.notifications {
		if n.TaskID != nil && *n.TaskID == taskID &&
			n.UserID == userID && n.Kind == kind &&
			!n.CreatedAt.Before(createdAfter) {
			count++
		}
	}
	return count, nil
}

func (s *memNotificationStore) MarkRead(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return store.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (s *memNotificationStore) MarkAllRead(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}

func (s *memNotificationStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[id]; !ok {
		return store.ErrNotificationNotFound
	}
	delete(s.notifications, id)
	return nil
}

// capturingEmitter records emitted events without any handlers.
type capturingEmitter struct {
	mu     sync.Mutex
	events []*events.TaskEvent
}

func (e *capturingEmitter) EmitEvent(_ context.Context, event *events.TaskEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *capturingEmitter) all() []*events.TaskEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*events.TaskEvent(nil), e.events...)
}

// stubJWTService returns canned tokens and claims.
type stubJWTService struct {
	userID      uuid.UUID
	validateErr error
	generateErr error
}

var _ auth.JWTService = (*stubJWTService)(nil)

func (s *stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return "access-token", nil
}

func (s *stubJWTService) GenerateRefreshToken(context.Context, uuid.UUID) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return "refresh-token", nil
}

func (s *stubJWTService) ValidateToken(context.Context, string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return &auth.Claims{UserID: s.userID, TokenType: "access"}, nil
}

func (s *stubJWTService) ValidateRefreshToken(context.Context, string) (*auth.Claims, error) {
	if s.validateErr != nil {
		return nil, s.validateErr
	}
	return &auth.Claims{UserID: s.userID, TokenType: "refresh"}, nil
}

// plainVerifier compares without hashing, paired with plainHasher.
type plainVerifier struct{}

func (plainVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}
