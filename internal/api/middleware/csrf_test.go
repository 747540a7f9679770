package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/terracasa/realty-system/internal/csrf"
)

func csrfContext(t *testing.T, method, secret, token string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	if secret != "" {
		req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: secret})
	}
	if token != "" {
		req.Header.Set(csrf.HeaderName, token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestCSRF_MatchingPairPasses(t *testing.T) {
	secret, err := csrf.GenerateSecret()
	if err != nil {
		t.Fatalf("generate secret: %v", err)
	}
	token, err := csrf.CreateToken(secret)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	called := false
	handler := CSRF()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	c := csrfContext(t, http.MethodPost, secret, token)
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestCSRF_MismatchedTokenRejected(t *testing.T) {
	secret, _ := csrf.GenerateSecret()
	other, _ := csrf.GenerateSecret()
	token, _ := csrf.CreateToken(other)

	handler := CSRF()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	c := csrfContext(t, http.MethodPost, secret, token)
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestCSRF_MissingCookieRejected(t *testing.T) {
	secret, _ := csrf.GenerateSecret()
	token, _ := csrf.CreateToken(secret)

	handler := CSRF()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	c := csrfContext(t, http.MethodPost, "", token)
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestCSRF_MissingHeaderRejected(t *testing.T) {
	secret, _ := csrf.GenerateSecret()

	handler := CSRF()(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	c := csrfContext(t, http.MethodDelete, secret, "")
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestCSRF_SafeMethodsSkipped(t *testing.T) {
	called := false
	handler := CSRF()(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	// No cookie, no header: GET must still pass.
	c := csrfContext(t, http.MethodGet, "", "")
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called for GET")
	}
}
