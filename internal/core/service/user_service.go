package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
)

// UserService implements back-office user management.
type UserService struct {
	repo  ports.UserRepository
	audit ports.AuditRecorder
}

func NewUserService(repo ports.UserRepository, audit ports.AuditRecorder) *UserService {
	return &UserService{repo: repo, audit: audit}
}

// Create adds a user. When bootstrap is true (first user in an empty system)
// the admin flag is forced on regardless of the requested value.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput, bootstrap bool) (*domain.User, error) {
	if input.Nombre == "" || input.Apellido == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	admin := input.Admin
	if bootstrap {
		admin = true
	}

	now := time.Now().UTC()
	user := &domain.User{
		Nombre:       input.Nombre,
		Apellido:     input.Apellido,
		Email:        input.Email,
		PasswordHash: string(hash),
		Admin:        admin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.Record(ports.AuditEventInput{
			Actor:     created.ID,
			Action:    domain.ActionUserCreated,
			Target:    created.ID,
			Timestamp: now,
		})
	}
	return created, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Delete removes a user. Self-deletion is rejected server-side; the UI hiding
// the button is not a guarantee.
func (s *UserService) Delete(ctx context.Context, id, requesterID string) error {
	if id == requesterID {
		return domain.ErrSelfDeletion
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.audit != nil {
		s.audit.Record(ports.AuditEventInput{
			Actor:     requesterID,
			Action:    domain.ActionUserDeleted,
			Target:    id,
			Timestamp: time.Now().UTC(),
		})
	}
	return nil
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
