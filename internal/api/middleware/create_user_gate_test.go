package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/terracasa/realty-system/internal/core/domain"
)

func gateContext(e *echo.Echo, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateUserGate_BootstrapAdmitsUnauthenticated(t *testing.T) {
	e := echo.New()
	repo := newStubUserRepo() // empty system

	called := false
	handler := CreateUserGate(repo, "secret")(func(c echo.Context) error {
		called = true
		if c.Get(CtxBootstrap) != true {
			t.Fatalf("bootstrap flag not set")
		}
		return c.NoContent(http.StatusCreated)
	})

	c, rec := gateContext(e, "")
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestCreateUserGate_PopulatedSystemRequiresToken(t *testing.T) {
	e := echo.New()
	repo := newStubUserRepo(&domain.User{ID: "admin-1", Admin: true})

	handler := CreateUserGate(repo, "secret")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	c, _ := gateContext(e, "")
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestCreateUserGate_NonAdminForbidden(t *testing.T) {
	e := echo.New()
	repo := newStubUserRepo(&domain.User{ID: "user-1", Admin: false})

	token := signTokenFor(t, "secret", "user-1")
	handler := CreateUserGate(repo, "secret")(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	c, _ := gateContext(e, "Bearer "+token)
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestCreateUserGate_AdminPasses(t *testing.T) {
	e := echo.New()
	repo := newStubUserRepo(&domain.User{ID: "admin-1", Admin: true})

	token := signTokenFor(t, "secret", "admin-1")
	called := false
	handler := CreateUserGate(repo, "secret")(func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != "admin-1" {
			t.Fatalf("user id not set")
		}
		if c.Get(CtxBootstrap) != nil {
			t.Fatalf("bootstrap flag must not be set on the admin path")
		}
		return c.NoContent(http.StatusCreated)
	})

	c, _ := gateContext(e, "Bearer "+token)
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func signTokenFor(t *testing.T, secret, userID string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    userID,
		"email": userID + "@example.com",
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
