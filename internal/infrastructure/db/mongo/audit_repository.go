package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/terracasa/realty-system/internal/core/domain"
)

const auditCollection = "audit_events"

// MongoAuditRepository persists audit trail entries. The collection is
// append-only; events are never updated or deleted by the application.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	ID        string `bson:"_id"`
	Actor     string `bson:"actor"`
	Action    string `bson:"action"`
	Target    string `bson:"target,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	_, err := r.coll.InsertOne(ctx, mongoAuditEvent{
		ID:        event.ID,
		Actor:     event.Actor,
		Action:    string(event.Action),
		Target:    event.Target,
		Timestamp: event.Timestamp.Unix(),
	})
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
