package ports

import (
	"context"
	"time"

	"github.com/terracasa/realty-system/internal/core/domain"
)

// AuditEventInput is the DTO handed from services to the audit pipeline.
type AuditEventInput struct {
	Actor     string
	Action    domain.AuditAction
	Target    string
	Timestamp time.Time
}

// AuditRecorder accepts audit events for asynchronous persistence.
// Record must not block the request path.
type AuditRecorder interface {
	Record(event AuditEventInput)
}

// AuditService processes queued audit events.
type AuditService interface {
	Process(ctx context.Context, event AuditEventInput) error
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
