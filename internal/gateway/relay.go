package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terracasa/realty-system/internal/api/metrics"
	"github.com/terracasa/realty-system/internal/csrf"
)

// csrfTokenPath is the backend endpoint that mints token/secret pairs.
const csrfTokenPath = "/api/csrf-token"

// ForwardMutating relays a mutating request after performing the CSRF
// handshake server-side: mint a fresh pair from the backend, splice the
// secret cookie into the outgoing Cookie header, and attach the derived
// token. Token and secret must come from the same mint: forwarding a
// browser-held token without its matching secret cookie would fail the
// backend's double-submit check.
//
// A failed handshake forwards the request untouched: the relay fails open,
// the backend fails closed.
func (p *Proxy) ForwardMutating(c echo.Context, path string) error {
	opts := ForwardOptions{Path: path}

	token, minted, err := p.mintCSRFToken(c.Request().Context())
	if err != nil {
		metrics.ProxyHandshakeFailuresTotal.Inc()
		p.log.Warn().Err(err).
			Str("path", path).
			Msg("csrf handshake failed, forwarding without token")
		return p.Forward(c, opts)
	}

	opts.ExtraHeaders = http.Header{}
	opts.ExtraHeaders.Set(csrf.HeaderName, token)
	opts.CookieHeader = mergeCookieHeader(c.Request().Header.Get("Cookie"), minted)

	return p.Forward(c, opts)
}

// mintCSRFToken fetches a fresh token/secret pair from the backend.
func (p *Proxy) mintCSRFToken(ctx context.Context) (string, []*http.Cookie, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.perAttempt)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, p.backendURL+csrfTokenPath, nil)
	if err != nil {
		return "", nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("csrf-token endpoint returned %d", resp.StatusCode)
	}

	var payload struct {
		CSRFToken string `json:"csrfToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", nil, fmt.Errorf("decode csrf-token response: %w", err)
	}
	if payload.CSRFToken == "" {
		return "", nil, fmt.Errorf("csrf-token response missing token")
	}

	return payload.CSRFToken, resp.Cookies(), nil
}

// mergeCookieHeader unions the browser's cookies with the freshly minted
// ones. Minted cookies win on name conflict: a stale _csrf secret sent by
// the browser must not shadow the one matching the new token.
func mergeCookieHeader(browserHeader string, minted []*http.Cookie) string {
	parse := http.Request{Header: http.Header{"Cookie": []string{browserHeader}}}

	merged := make([]*http.Cookie, 0, len(minted)+4)
	replaced := map[string]int{}

	for _, ck := range parse.Cookies() {
		replaced[ck.Name] = len(merged)
		merged = append(merged, ck)
	}
	for _, ck := range minted {
		if i, ok := replaced[ck.Name]; ok {
			merged[i] = ck
			continue
		}
		merged = append(merged, ck)
	}

	parts := make([]string, len(merged))
	for i, ck := range merged {
		parts[i] = ck.Name + "=" + ck.Value
	}
	return joinCookies(parts)
}

func joinCookies(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "; "
		}
		out += p
	}
	return out
}
