package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pawcare/auth-service/internal/api/metrics"
	"github.com/pawcare/auth-service/internal/api/response"
	"github.com/pawcare/auth-service/internal/core/ports"
)

// RateLimit throttles a route per client IP. Limiter errors let the request
// through with a warning.
func RateLimit(limiter ports.RateLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}

			d, err := limiter.Allow(c.Request().Context(), route+":"+ip)
			if err != nil {
				log.Warn().Err(err).Str("route", route).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))

			if !d.Allowed {
				secs := int(math.Ceil(d.RetryAfter.Seconds()))
				h.Set("Retry-After", strconv.Itoa(secs))
				metrics.RateLimitedTotal.WithLabelValues(route).Inc()
				return response.Fail(c, http.StatusTooManyRequests, "Too many requests", "Rate limit exceeded, retry later")
			}
			return next(c)
		}
	}
}
