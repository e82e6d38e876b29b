package domain

import "time"

const (
	DefaultUserAgent = "Unknown"
	DefaultIP        = "127.0.0.1"

	// SessionTTL is the server-side lifetime of a session and the lifetime of
	// the refresh token that keys it.
	SessionTTL = 7 * 24 * time.Hour
)

// DeviceInfo is opaque metadata about the client that opened a session.
type DeviceInfo struct {
	UserAgent string `json:"userAgent"`
	IP        string `json:"ip"`
}

// Session binds a refresh token to its owning user and an authoritative expiry.
type Session struct {
	Token     string
	UserID    string
	Expires   time.Time
	Device    DeviceInfo
	CreatedAt time.Time

	// User is the owning account, joined on read. Nil when the user no longer exists.
	User *User
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.Expires)
}
