package domain

import "time"

// AuditAction identifies what a recorded audit event describes.
type AuditAction string

const (
	ActionLogin           AuditAction = "login"
	ActionUserCreated     AuditAction = "user_created"
	ActionUserDeleted     AuditAction = "user_deleted"
	ActionPropertyCreated AuditAction = "property_created"
	ActionPropertyUpdated AuditAction = "property_updated"
	ActionPropertyDeleted AuditAction = "property_deleted"
)

// AuditEvent is a single entry in the back-office audit trail.
type AuditEvent struct {
	ID        string
	Actor     string // user id (or email on login, before the id is known)
	Action    AuditAction
	Target    string // affected resource id, empty for login
	Timestamp time.Time
}
