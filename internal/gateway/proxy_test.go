package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestProxy(backendURL string, production bool) *Proxy {
	p := New(backendURL, production, zerolog.Nop())
	p.retryBase = time.Millisecond
	p.perAttempt = 2 * time.Second
	return p
}

func forwardThrough(t *testing.T, p *Proxy, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	path := req.URL.Path
	if q := req.URL.RawQuery; q != "" {
		path += "?" + q
	}
	require.NoError(t, p.Forward(c, ForwardOptions{Path: path}))
	return rec
}

func TestProxyForward_RelaysMethodPathAndBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/properties", r.URL.Path)
		require.Equal(t, "ciudad=Madrid", r.URL.RawQuery)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "hola", body["msg"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer backend.Close()

	p := newTestProxy(backend.URL, false)
	req := httptest.NewRequest(http.MethodPost, "/api/properties?ciudad=Madrid", strings.NewReader(`{"msg":"hola"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := forwardThrough(t, p, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestProxyForward_StripsUpstreamIdentifyingHeaders(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("X-Forwarded-For"))
		require.Empty(t, r.Header.Get("X-Forwarded-Proto"))
		require.Empty(t, r.Header.Get("X-Real-Ip"))
		require.Empty(t, r.Header.Get("Keep-Alive"))
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	p := newTestProxy(backend.URL, false)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("X-Forwarded-Proto", "https")
	req.Header.Set("X-Real-Ip", "203.0.113.7")
	req.Header.Set("Keep-Alive", "timeout=5")
	req.Header.Set("Authorization", "Bearer tok")

	rec := forwardThrough(t, p, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProxyForward_StripsConnectionNamedHeaders(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("X-Custom-Hop"))
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	p := newTestProxy(backend.URL, false)
	req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
	req.Header.Set("Connection", "X-Custom-Hop")
	req.Header.Set("X-Custom-Hop", "secret")

	rec := forwardThrough(t, p, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProxyForward_ReappliesSetCookieAttributes(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "_csrf",
			Value:    "s3cret",
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteLaxMode,
		})
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	p := newTestProxy(backend.URL, false)
	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	rec := forwardThrough(t, p, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	ck := cookies[0]
	require.Equal(t, "_csrf", ck.Name)
	require.Equal(t, "s3cret", ck.Value)
	require.True(t, ck.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	// Local gateways serve plain HTTP; Secure would make the browser drop it.
	require.False(t, ck.Secure)
}

func TestProxyForward_KeepsSecureCookieInProduction(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "_csrf", Value: "v", Secure: true})
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	p := newTestProxy(backend.URL, true)
	req := httptest.NewRequest(http.MethodGet, "/api/csrf-token", nil)
	rec := forwardThrough(t, p, req)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.True(t, cookies[0].Secure)
}

func TestProxyForward_NoContentCarriesNoBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	p := newTestProxy(backend.URL, false)
	req := httptest.NewRequest(http.MethodDelete, "/api/properties/p1", nil)
	rec := forwardThrough(t, p, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Zero(t, rec.Body.Len())
}

func TestProxyForward_RetriesUntilBackendAnswers(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Kill the first attempt mid-flight.
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer backend.Close()

	p := newTestProxy(backend.URL, false)
	req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
	rec := forwardThrough(t, p, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.Equal(t, int32(2), calls.Load())
}

func TestProxyForward_DeadBackendAnswers502(t *testing.T) {
	// Point at a server that is already closed.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	p := newTestProxy(backend.URL, false)
	req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
	rec := forwardThrough(t, p, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, unavailableMessage, body["error"])
}

func TestProxyForward_ErrorStatusesPassThrough(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"property not found"}`))
	}))
	defer backend.Close()

	p := newTestProxy(backend.URL, false)
	req := httptest.NewRequest(http.MethodGet, "/api/properties/missing", nil)
	rec := forwardThrough(t, p, req)

	// An HTTP error from the backend is a valid answer, not a retry trigger.
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"error":"property not found"}`, rec.Body.String())
}
