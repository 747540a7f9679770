package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
)

const bcryptCost = 10

// AuthService implements registration, login and token issuance.
type AuthService struct {
	repo      ports.UserRepository
	limiter   ports.LoginLimiter
	audit     ports.AuditRecorder
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.UserRepository, limiter ports.LoginLimiter, audit ports.AuditRecorder, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{repo: repo, limiter: limiter, audit: audit, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Register(ctx context.Context, nombre, apellido, email, password string) (*domain.User, error) {
	if nombre == "" || apellido == "" || email == "" || password == "" {
		return nil, domain.ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Nombre:       nombre,
		Apellido:     apellido,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, user)
}

// Login verifies the credentials and returns a signed token. Unknown email
// and wrong password deliberately collapse into the same error so the
// response does not reveal which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrMissingFields
	}

	if s.limiter != nil {
		blocked, err := s.limiter.TooManyAttempts(ctx, email)
		if err == nil && blocked {
			return "", nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	if s.limiter != nil {
		_ = s.limiter.Reset(ctx, email)
	}
	if s.audit != nil {
		s.audit.Record(ports.AuditEventInput{
			Actor:     user.ID,
			Action:    domain.ActionLogin,
			Timestamp: time.Now().UTC(),
		})
	}

	return token, user, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if s.limiter != nil {
		_ = s.limiter.RecordFailure(ctx, email)
	}
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	if s.jwtSecret == "" {
		return "", domain.ErrSecretNotConfigured
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"id":    user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
