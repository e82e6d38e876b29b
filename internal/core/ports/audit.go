package ports

import (
	"context"

	"github.com/pawcare/auth-service/internal/core/domain"
)

// AuditRecorder accepts events without blocking the caller. Delivery is best effort.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditService persists a single dequeued audit event.
type AuditService interface {
	Process(ctx context.Context, event domain.AuditEvent) error
}
