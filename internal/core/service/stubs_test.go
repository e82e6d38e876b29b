package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pawcare/auth-service/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User // by id
	nextID    int
	createErr error // if set, Create returns this error
	hideEmail bool  // FindByEmail always misses (simulates a registration race)
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	created := cloneUser(user)
	r.nextID++
	created.ID = fmt.Sprintf("u%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.hideEmail {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, hash string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = at
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = active
	u.UpdatedAt = at
	return nil
}

// stubSessionRepo joins the owner from users on read, like the $lookup does.
type stubSessionRepo struct {
	users     *stubUserRepo
	sessions  map[string]*domain.Session
	createErr error
	deleteErr error
}

func newStubSessionRepo(users *stubUserRepo) *stubSessionRepo {
	return &stubSessionRepo{users: users, sessions: make(map[string]*domain.Session)}
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.sessions[s.Token]; exists {
		return domain.ErrSessionExists
	}
	clone := *s
	r.sessions[s.Token] = &clone
	return nil
}

func (r *stubSessionRepo) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	clone.User = cloneUser(r.users.users[s.UserID])
	return &clone, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, token string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.sessions[token]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, token)
	return nil
}

func (r *stubSessionRepo) DeleteByUser(_ context.Context, userID string) (int64, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var n int64
	for token, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, token)
			n++
		}
	}
	return n, nil
}

func (r *stubSessionRepo) countFor(userID string) int {
	n := 0
	for _, s := range r.sessions {
		if s.UserID == userID {
			n++
		}
	}
	return n
}

type stubAuditRepo struct {
	events []domain.AuditEvent
	err    error
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuditEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(e domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) types() []domain.AuditEventType {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditEventType, len(a.events))
	for i, e := range a.events {
		out[i] = e.Type
	}
	return out
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

var errBoom = errors.New("boom")
