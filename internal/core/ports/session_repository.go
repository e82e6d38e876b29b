package ports

import (
	"context"

	"github.com/pawcare/auth-service/internal/core/domain"
)

// SessionRepository persists refresh-token keyed sessions.
type SessionRepository interface {
	// Create stores s. A second session with the same token returns
	// domain.ErrSessionExists.
	Create(ctx context.Context, s *domain.Session) error
	// FindByToken returns the session with its owning user joined, or
	// domain.ErrSessionNotFound.
	FindByToken(ctx context.Context, token string) (*domain.Session, error)
	// Delete removes one session; domain.ErrSessionNotFound when nothing matched.
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
