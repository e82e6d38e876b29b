package domain

import "time"

// AuditEventType names something that happened to an account or session.
type AuditEventType string

const (
	AuditRegistered      AuditEventType = "registered"
	AuditLoginSucceeded  AuditEventType = "login_succeeded"
	AuditLoginFailed     AuditEventType = "login_failed"
	AuditLogout          AuditEventType = "logout"
	AuditTokenRefreshed  AuditEventType = "token_refreshed"
	AuditRefreshRejected AuditEventType = "refresh_rejected"
	AuditSessionsRevoked AuditEventType = "sessions_revoked"
	AuditPasswordChanged AuditEventType = "password_changed"
	AuditStatusChanged   AuditEventType = "status_changed"
)

// AuditEvent is an append-only record of an authentication event.
type AuditEvent struct {
	Type       AuditEventType
	UserID     string // empty when the subject could not be resolved (unknown email)
	Email      string
	Reason     string
	Device     DeviceInfo
	OccurredAt time.Time
}

// Subject is the key used to keep events for the same account in order.
func (e AuditEvent) Subject() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.Email
}
