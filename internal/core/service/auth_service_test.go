package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		r.nextID++
		copy.ID = string(rune('a' + r.nextID))
	}
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type stubLimiter struct {
	blocked  bool
	failures int
	resets   int
}

func (l *stubLimiter) TooManyAttempts(_ context.Context, _ string) (bool, error) {
	return l.blocked, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, _ string) error {
	l.failures++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, _ string) error {
	l.resets++
	return nil
}

type stubAudit struct {
	events []ports.AuditEventInput
}

func (a *stubAudit) Record(event ports.AuditEventInput) {
	a.events = append(a.events, event)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, nil, nil, "secret", time.Hour)

	user, err := svc.Register(context.Background(), "Ana", "Lopez", "ana@example.com", "pass1234")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Admin {
		t.Fatalf("public registration must not grant admin")
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, nil, nil, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "", "Lopez", "ana@example.com", "pass"); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, nil, nil, "secret", time.Hour)

	_, _ = svc.Register(context.Background(), "Ana", "Lopez", "ana@example.com", "pass1234")
	if _, err := svc.Register(context.Background(), "Ana", "Lopez", "ana@example.com", "other123"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{}
	audit := &stubAudit{}
	svc := NewAuthService(repo, limiter, audit, "secret", time.Hour)

	if _, err := svc.Register(context.Background(), "Carla", "Ruiz", "carla@example.com", "s3cretpw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carla@example.com", "s3cretpw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Email != "carla@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset, got %d", limiter.resets)
	}
	if len(audit.events) != 1 || audit.events[0].Action != domain.ActionLogin {
		t.Fatalf("expected login audit event, got %+v", audit.events)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["id"] != user.ID {
		t.Fatalf("expected id claim %q, got %v", user.ID, claims["id"])
	}
	if claims["email"] != "carla@example.com" {
		t.Fatalf("unexpected email claim: %v", claims["email"])
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		t.Fatalf("missing exp claim")
	}
	ttl := time.Until(time.Unix(int64(exp), 0))
	if ttl < 55*time.Minute || ttl > 65*time.Minute {
		t.Fatalf("unexpected token ttl: %v", ttl)
	}
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{}
	svc := NewAuthService(repo, limiter, nil, "secret", time.Hour)

	_, _ = svc.Register(context.Background(), "Dan", "Mora", "dan@example.com", "goodpass")

	_, _, errWrongPass := svc.Login(context.Background(), "dan@example.com", "badpass")
	_, _, errNoUser := svc.Login(context.Background(), "ghost@example.com", "whatever")

	if errWrongPass != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", errWrongPass)
	}
	if errNoUser != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", errNoUser)
	}
	if limiter.failures != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", limiter.failures)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{blocked: true}
	svc := NewAuthService(repo, limiter, nil, "secret", time.Hour)

	_, _ = svc.Register(context.Background(), "Eva", "Sol", "eva@example.com", "goodpass")
	if _, _, err := svc.Login(context.Background(), "eva@example.com", "goodpass"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_MissingSecret(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, nil, nil, "", time.Hour)

	_, _ = svc.Register(context.Background(), "Fede", "Gil", "fede@example.com", "goodpass")
	if _, _, err := svc.Login(context.Background(), "fede@example.com", "goodpass"); err != domain.ErrSecretNotConfigured {
		t.Fatalf("expected ErrSecretNotConfigured, got %v", err)
	}
}
