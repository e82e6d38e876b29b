package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawcare/auth-service/internal/api/middleware"
	"github.com/pawcare/auth-service/internal/core/domain"
)

// ctxClaims returns the identity the gate attached to the request. A missing
// identity means the route was wired without the gate.
func ctxClaims(c echo.Context) (domain.TokenClaims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		claims, ok = middleware.IdentityFrom(c.Request().Context())
	}
	if !ok || claims.UserID == "" {
		return domain.TokenClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return claims, nil
}
