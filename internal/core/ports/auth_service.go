package ports

import (
	"context"

	"github.com/terracasa/realty-system/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, nombre, apellido, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// CurrentUser resolves the authenticated user from a fresh database read.
	CurrentUser(ctx context.Context, id string) (*domain.User, error)
}
