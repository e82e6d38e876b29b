package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pawcare/auth-service/internal/core/domain"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = domain.SessionTTL

	typeAccess  = "access"
	typeRefresh = "refresh"
)

// tokenClaims is the JWT body. The jti makes every token unique even when the
// same identity is signed twice within one second.
type tokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"typ"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) identity() domain.TokenClaims {
	return domain.TokenClaims{UserID: c.UserID, Email: c.Email, Role: domain.Role(c.Role)}
}

// TokenManager issues and verifies HS256 access and refresh tokens, each class
// with its own secret.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

// Option configures a TokenManager.
type Option func(*TokenManager)

// WithClock replaces time.Now for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

func NewTokenManager(accessSecret, refreshSecret string, opts ...Option) *TokenManager {
	m := &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *TokenManager) AccessTokenTTL() time.Duration { return AccessTokenTTL }

func (m *TokenManager) IssueAccessToken(claims domain.TokenClaims) (string, error) {
	return m.sign(claims, typeAccess, m.accessSecret, AccessTokenTTL)
}

func (m *TokenManager) IssueRefreshToken(claims domain.TokenClaims) (string, error) {
	return m.sign(claims, typeRefresh, m.refreshSecret, RefreshTokenTTL)
}

func (m *TokenManager) VerifyAccessToken(token string) (domain.TokenClaims, bool) {
	return m.verify(token, typeAccess, m.accessSecret)
}

func (m *TokenManager) VerifyRefreshToken(token string) (domain.TokenClaims, bool) {
	return m.verify(token, typeRefresh, m.refreshSecret)
}

// DecodeUnsafe reads the claims without checking the signature or expiry.
// Never use the result for an authorization decision.
func (m *TokenManager) DecodeUnsafe(token string) (domain.TokenClaims, bool) {
	var c tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return domain.TokenClaims{}, false
	}
	if c.UserID == "" {
		return domain.TokenClaims{}, false
	}
	return c.identity(), true
}

func (m *TokenManager) sign(claims domain.TokenClaims, typ string, secret []byte, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	c := tokenClaims{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   string(claims.Role),
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (m *TokenManager) verify(token, typ string, secret []byte) (domain.TokenClaims, bool) {
	var c tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return domain.TokenClaims{}, false
	}
	if c.Type != typ || c.UserID == "" {
		return domain.TokenClaims{}, false
	}
	return c.identity(), true
}
