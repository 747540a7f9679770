package ports

import (
	"context"

	"github.com/terracasa/realty-system/internal/core/domain"
)

// CreateUserInput carries the data for an admin- or bootstrap-initiated
// user creation. Admin is honored only for non-bootstrap calls; the very
// first user in an empty system is granted admin unconditionally.
type CreateUserInput struct {
	Nombre   string
	Apellido string
	Email    string
	Password string
	Admin    bool
}

// UserService defines the back-office user management operations.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput, bootstrap bool) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	// Delete removes a user. requesterID guards against self-deletion.
	Delete(ctx context.Context, id, requesterID string) error
	Count(ctx context.Context) (int64, error)
}
