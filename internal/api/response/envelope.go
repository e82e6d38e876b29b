// Package response renders the JSON envelope every endpoint answers with.
package response

import (
	"time"

	"github.com/labstack/echo/v4"
)

// timestampLayout is RFC 3339 with millisecond precision, always in UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the body of every API response.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Error     any    `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

// OK writes a success envelope.
func OK(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: Now(),
	})
}

// Fail writes an error envelope. When detail is nil the message is repeated
// in the error field so clients can always read one of them.
func Fail(c echo.Context, status int, message string, detail any) error {
	if detail == nil {
		detail = message
	}
	return c.JSON(status, Envelope{
		Success:   false,
		Message:   message,
		Error:     detail,
		Timestamp: Now(),
	})
}

// Now is the envelope timestamp for the current instant.
func Now() string {
	return time.Now().UTC().Format(timestampLayout)
}
