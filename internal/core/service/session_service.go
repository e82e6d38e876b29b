package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pawcare/auth-service/internal/core/domain"
	"github.com/pawcare/auth-service/internal/core/ports"
)

// SessionService tracks refresh-token sessions. Its expiry is the
// authoritative one; a token whose exp is still in the future is useless once
// its session is gone or past Expires.
type SessionService struct {
	repo ports.SessionRepository
	now  func() time.Time
}

func NewSessionService(repo ports.SessionRepository, now func() time.Time) *SessionService {
	if now == nil {
		now = time.Now
	}
	return &SessionService{repo: repo, now: now}
}

// Create opens a session for userID keyed by refreshToken, expiring SessionTTL from now.
func (s *SessionService) Create(ctx context.Context, userID, refreshToken string, device domain.DeviceInfo) (*domain.Session, error) {
	now := s.now().UTC()
	session := &domain.Session{
		Token:     refreshToken,
		UserID:    userID,
		Expires:   now.Add(domain.SessionTTL),
		Device:    withDeviceDefaults(device),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		if errors.Is(err, domain.ErrSessionExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Get returns the session with its owner joined, or domain.ErrSessionNotFound.
func (s *SessionService) Get(ctx context.Context, refreshToken string) (*domain.Session, error) {
	return s.repo.FindByToken(ctx, refreshToken)
}

func (s *SessionService) Delete(ctx context.Context, refreshToken string) error {
	return s.repo.Delete(ctx, refreshToken)
}

func (s *SessionService) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	return s.repo.DeleteByUser(ctx, userID)
}

// Expired reports whether session is past its expiry on the service clock.
func (s *SessionService) Expired(session *domain.Session) bool {
	return session.Expired(s.now())
}

func withDeviceDefaults(d domain.DeviceInfo) domain.DeviceInfo {
	if d.UserAgent == "" {
		d.UserAgent = domain.DefaultUserAgent
	}
	if d.IP == "" {
		d.IP = domain.DefaultIP
	}
	return d
}
