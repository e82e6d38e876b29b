package ports

import (
	"context"

	"github.com/pawcare/auth-service/internal/core/domain"
)

// AuditRepository appends auth events to the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
