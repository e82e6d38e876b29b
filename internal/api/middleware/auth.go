package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/pawcare/auth-service/internal/api/metrics"
	"github.com/pawcare/auth-service/internal/api/response"
	"github.com/pawcare/auth-service/internal/core/ports"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It reports false when the header is absent, uses another scheme, or
// carries an empty token.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Gate authenticates and authorizes every request that policy does not mark
// public. It trusts the signed claims and does not look the user up, so a
// deactivated user keeps passing until the access token expires.
func Gate(policy *Policy, verifier ports.AccessVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			stripIdentityHeaders(c)

			path := c.Request().URL.Path
			if policy.IsPublic(path) {
				metrics.GateDecisionsTotal.WithLabelValues("public").Inc()
				return next(c)
			}

			token, ok := BearerToken(c.Request())
			if !ok {
				metrics.GateDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return response.Fail(c, http.StatusUnauthorized, "Authentication required", "No token provided")
			}

			claims, ok := verifier.VerifyAccessToken(token)
			if !ok {
				metrics.GateDecisionsTotal.WithLabelValues("invalid_token").Inc()
				return response.Fail(c, http.StatusUnauthorized, "Authentication failed", "Invalid or expired token")
			}

			if !policy.Allows(path, claims.Role) {
				metrics.GateDecisionsTotal.WithLabelValues("forbidden").Inc()
				return response.Fail(c, http.StatusForbidden, "Access denied", "Insufficient permissions")
			}

			metrics.GateDecisionsTotal.WithLabelValues("allowed").Inc()
			attachIdentity(c, claims)
			return next(c)
		}
	}
}
