package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/pawcare/auth-service/internal/core/domain"
)

// Headers the gate forwards to downstream handlers. Client-supplied values
// are always stripped first.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

const claimsKey = "auth.claims"

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying claims.
func WithIdentity(ctx context.Context, claims domain.TokenClaims) context.Context {
	return context.WithValue(ctx, identityKey{}, claims)
}

// IdentityFrom returns the claims the gate stored in ctx.
func IdentityFrom(ctx context.Context) (domain.TokenClaims, bool) {
	claims, ok := ctx.Value(identityKey{}).(domain.TokenClaims)
	return claims, ok
}

// ClaimsFrom returns the claims the gate stored on the echo context.
func ClaimsFrom(c echo.Context) (domain.TokenClaims, bool) {
	claims, ok := c.Get(claimsKey).(domain.TokenClaims)
	return claims, ok
}

func attachIdentity(c echo.Context, claims domain.TokenClaims) {
	c.Set(claimsKey, claims)

	req := c.Request()
	req.Header.Set(HeaderUserID, claims.UserID)
	req.Header.Set(HeaderUserEmail, claims.Email)
	req.Header.Set(HeaderUserRole, string(claims.Role))
	c.SetRequest(req.WithContext(WithIdentity(req.Context(), claims)))
}

func stripIdentityHeaders(c echo.Context) {
	h := c.Request().Header
	h.Del(HeaderUserID)
	h.Del(HeaderUserEmail)
	h.Del(HeaderUserRole)
}
