package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pawcare/auth-service/internal/api/metrics"
	"github.com/pawcare/auth-service/internal/core/domain"
	"github.com/pawcare/auth-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns the AuditService the dispatcher workers call.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event.
func (s *auditService) Process(ctx context.Context, event domain.AuditEvent) error {
	start := time.Now()

	if event.OccurredAt.IsZero() {
		event.OccurredAt = start.UTC()
	}

	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditProcessingDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("process audit event: %w", err)
	}
	metrics.AuditProcessingDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	s.log.Debug().
		Str("type", string(event.Type)).
		Str("subject", event.Subject()).
		Msg("audit event stored")
	return nil
}

// nopRecorder discards events when no dispatcher is wired.
type nopRecorder struct{}

func (nopRecorder) Record(domain.AuditEvent) {}
