package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	csrfHeaderName = "X-CSRF-Token"
	csrfTokenPath  = "/api/csrf-token"
)

// ErrUnauthorized reports that the backend no longer accepts the session.
var ErrUnauthorized = errors.New("authclient: unauthorized")

// csrfState holds the cached CSRF token. The paired secret lives in the
// cookie jar; the token alone is useless without it, so caching it here
// is safe across requests.
type csrfState struct {
	mu    sync.Mutex
	token string
	group singleflight.Group
}

func (s *csrfState) get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *csrfState) set(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *csrfState) clear() {
	s.set("")
}

// Client talks to the gateway (or directly to the backend) on behalf of a
// logged-in user. It keeps the JWT in a TokenStore, the CSRF secret cookie
// in a jar, and the CSRF token in explicit cached state refreshed on demand.
type Client struct {
	baseURL string
	http    *http.Client
	store   *TokenStore
	csrf    csrfState
}

func NewClient(baseURL string, store *TokenStore) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("authclient: cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		store: store,
	}, nil
}

type tokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// fetchCSRFToken gets a fresh token from the server. Concurrent callers
// collapse into a single request; everyone gets the same token.
func (c *Client) fetchCSRFToken(ctx context.Context) (string, error) {
	v, err, _ := c.csrf.group.Do("csrf", func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+csrfTokenPath, nil)
		if err != nil {
			return "", err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("authclient: csrf token request returned %d", resp.StatusCode)
		}
		var body tokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", fmt.Errorf("authclient: decode csrf token: %w", err)
		}
		c.csrf.set(body.CSRFToken)
		return body.CSRFToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// csrfToken returns the cached token, fetching one when the cache is empty.
func (c *Client) csrfToken(ctx context.Context) (string, error) {
	if tok := c.csrf.get(); tok != "" {
		return tok, nil
	}
	return c.fetchCSRFToken(ctx)
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Do sends a request to the configured base URL. Mutating methods carry the
// CSRF token; a 403 that looks like a stale token triggers one refresh and
// retry before the response is handed back.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, body, "")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusForbidden || !mutating(method) {
		return resp, nil
	}

	// The secret cookie rotates when the server restarts; a cached token
	// no longer verifies. Refresh once and retry.
	if !isCSRFRejection(resp) {
		return resp, nil
	}
	resp.Body.Close()
	c.csrf.clear()
	fresh, err := c.fetchCSRFToken(ctx)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, body, fresh)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, csrfToken string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.store.Get(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if mutating(method) {
		if csrfToken == "" {
			csrfToken, err = c.csrfToken(ctx)
			if err != nil {
				return nil, err
			}
		}
		req.Header.Set(csrfHeaderName, csrfToken)
	}
	return c.http.Do(req)
}

// isCSRFRejection reports whether a 403 body carries the backend's CSRF
// error message. The body is restored so callers can still read it.
func isCSRFRejection(resp *http.Response) bool {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return false
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(body.Error), "csrf")
}

// Validate checks the stored session against the backend profile endpoint.
func (c *Client) Validate(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodGet, "/api/auth/me", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	default:
		return fmt.Errorf("authclient: validate returned %d", resp.StatusCode)
	}
}
