package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pawcare/auth-service/internal/api/response"
	"github.com/pawcare/auth-service/internal/core/domain"
)

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:      http.StatusBadRequest,
	domain.KindUnauthorized:    http.StatusUnauthorized,
	domain.KindForbidden:       http.StatusForbidden,
	domain.KindNotFound:        http.StatusNotFound,
	domain.KindConflict:        http.StatusConflict,
	domain.KindTooManyRequests: http.StatusTooManyRequests,
	domain.KindInternal:        http.StatusInternalServerError,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps *domain.Error kinds to their HTTP status codes.
//   - Logs internal errors without leaking their cause, unless exposeDetail is set.
//   - Renders the standard envelope: {"success": false, "message", "error", "timestamp"}.
func NewHTTPErrorHandler(log zerolog.Logger, exposeDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, detail := resolveError(err, log, c, exposeDetail)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = response.Fail(c, code, msg, detail)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, exposeDetail bool) (int, string, any) {
	var de *domain.Error
	if errors.As(err, &de) {
		code := kindStatus[de.Kind]
		if de.Kind == domain.KindValidation && len(de.Fields) > 0 {
			return code, de.Message, de.Fields
		}
		if de.Kind == domain.KindInternal {
			logInternal(log, c, err)
			if exposeDetail && de.Err != nil {
				return code, de.Message, de.Err.Error()
			}
		}
		return code, de.Message, nil
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code >= http.StatusInternalServerError {
			logInternal(log, c, err)
		}
		return he.Code, msg, nil
	}

	// Sentinels that escaped a flow without being classified.
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", nil
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "User with this email already exists", nil
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "Session not found", nil
	}

	logInternal(log, c, err)
	if exposeDetail {
		return http.StatusInternalServerError, "Internal server error", err.Error()
	}
	return http.StatusInternalServerError, "Internal server error", nil
}

func logInternal(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
