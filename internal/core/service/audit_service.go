package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/terracasa/realty-system/internal/api/metrics"
	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
)

// AuditWriter persists queued audit events.
type AuditWriter struct {
	repo ports.AuditRepository
}

func NewAuditWriter(repo ports.AuditRepository) *AuditWriter {
	return &AuditWriter{repo: repo}
}

func (s *AuditWriter) Process(ctx context.Context, event ports.AuditEventInput) error {
	start := time.Now()

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	err := s.repo.Insert(ctx, &domain.AuditEvent{
		ID:        uuid.NewString(),
		Actor:     event.Actor,
		Action:    event.Action,
		Target:    event.Target,
		Timestamp: ts,
	})
	if err != nil {
		metrics.AuditErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("insert audit event: %w", err)
	}

	metrics.AuditProcessedTotal.WithLabelValues(string(event.Action)).Inc()
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
	return nil
}
