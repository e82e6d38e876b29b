package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawcare/auth-service/internal/core/domain"
)

const refreshCookieName = "refreshToken"

// refreshTokenFrom prefers the token in the body and falls back to the cookie.
func refreshTokenFrom(c echo.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// deviceFrom reads the caller's User-Agent and the first X-Forwarded-For hop.
func deviceFrom(c echo.Context) domain.DeviceInfo {
	req := c.Request()

	device := domain.DeviceInfo{
		UserAgent: req.UserAgent(),
		IP:        domain.DefaultIP,
	}
	if device.UserAgent == "" {
		device.UserAgent = domain.DefaultUserAgent
	}
	if xff := req.Header.Get(echo.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			device.IP = first
		}
	}
	return device
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(domain.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
