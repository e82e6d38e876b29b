package middleware

import (
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/pawcare/auth-service/internal/api/response"
	"github.com/pawcare/auth-service/internal/core/domain"
)

// RequireRoles enforces role-based access on a single route, independent of
// the gate's path table. It must run after Gate.
func RequireRoles(allowed ...domain.Role) echo.MiddlewareFunc {
	allowed = slices.Clone(allowed)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok || !slices.Contains(allowed, claims.Role) {
				return response.Fail(c, http.StatusForbidden, "Access denied", "Insufficient permissions")
			}
			return next(c)
		}
	}
}
