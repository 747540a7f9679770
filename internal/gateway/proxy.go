// Package gateway fronts the backend API for browsers: it forwards requests,
// performs the CSRF handshake server-side for mutating calls, merges cookies,
// and re-applies Set-Cookie headers so their attributes survive the hop.
package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/terracasa/realty-system/internal/api/metrics"
)

const (
	attemptTimeout = 30 * time.Second
	backoffBase    = time.Second
	backoffCap     = 5 * time.Second
	defaultRetries = 2
)

// unavailableMessage is what browsers see when the backend never answered.
// Kept retry-friendly: free-tier backends cold-start in well under a minute.
const unavailableMessage = "the server is starting, please retry in a moment"

// hopHeaders are stripped in both directions per RFC 9110 §7.6.1.
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Proxy forwards browser requests to the backend API.
type Proxy struct {
	backendURL string
	client     *http.Client
	production bool
	log        zerolog.Logger

	// retry knobs; package tests shrink these.
	maxRetries uint64
	retryBase  time.Duration
	perAttempt time.Duration
}

// ForwardOptions tweaks a single forwarded request.
type ForwardOptions struct {
	// Path is the backend path including any query string.
	Path string
	// ExtraHeaders are set on the outgoing request after copying, so they win
	// over browser-supplied values.
	ExtraHeaders http.Header
	// CookieHeader, when non-empty, replaces the browser's Cookie header on
	// the outgoing request (used to splice the CSRF secret in).
	CookieHeader string
}

func New(backendURL string, production bool, log zerolog.Logger) *Proxy {
	return &Proxy{
		backendURL: strings.TrimRight(backendURL, "/"),
		client: &http.Client{
			// Redirects bubble back to the browser untouched.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		production: production,
		log:        log,
		maxRetries: defaultRetries,
		retryBase:  backoffBase,
		perAttempt: attemptTimeout,
	}
}

// Forward relays the request on c to the backend and writes the backend's
// response back, re-applying Set-Cookie attribute by attribute. Network
// failures are retried with capped exponential backoff; when every attempt
// fails the browser gets a 502 with a retry-friendly message.
func (p *Proxy) Forward(c echo.Context, opts ForwardOptions) error {
	req := c.Request()

	// Buffer the body so retries can replay it.
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
		}
	}

	var resp *http.Response
	var respBody []byte

	backoff := retry.WithMaxRetries(p.maxRetries, retry.WithCappedDuration(backoffCap, retry.NewExponential(p.retryBase)))
	err := retry.Do(req.Context(), backoff, func(ctx context.Context) error {
		var attemptErr error
		resp, respBody, attemptErr = p.attempt(ctx, req, body, opts)
		if attemptErr != nil {
			metrics.ProxyAttemptsTotal.WithLabelValues("retry").Inc()
			p.log.Warn().Err(attemptErr).
				Str("method", req.Method).
				Str("path", opts.Path).
				Msg("backend attempt failed")
			return retry.RetryableError(attemptErr)
		}
		return nil
	})
	if err != nil {
		metrics.ProxyAttemptsTotal.WithLabelValues("exhausted").Inc()
		return c.JSON(http.StatusBadGateway, map[string]string{"error": unavailableMessage})
	}

	metrics.ProxyAttemptsTotal.WithLabelValues("ok").Inc()
	return p.writeResponse(c, resp, respBody)
}

// attempt performs one forwarding round trip with its own timeout, returning
// the response with its body fully read.
func (p *Proxy) attempt(ctx context.Context, in *http.Request, body []byte, opts ForwardOptions) (*http.Response, []byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.perAttempt)
	defer cancel()

	out, err := http.NewRequestWithContext(attemptCtx, in.Method, p.backendURL+opts.Path, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}

	copyRequestHeaders(out.Header, in.Header)
	if opts.CookieHeader != "" {
		out.Header.Set("Cookie", opts.CookieHeader)
	}
	for k, vs := range opts.ExtraHeaders {
		out.Header.Del(k)
		for _, v := range vs {
			out.Header.Add(k, v)
		}
	}

	resp, err := p.client.Do(out)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, respBody, nil
}

// writeResponse copies the backend response onto c. Set-Cookie is handled
// separately so each cookie is re-parsed and re-applied with its attributes;
// Secure is dropped outside production since local gateways serve plain HTTP.
func (p *Proxy) writeResponse(c echo.Context, resp *http.Response, body []byte) error {
	header := c.Response().Header()
	for k, vs := range resp.Header {
		if k == "Set-Cookie" || isHopHeader(k) {
			continue
		}
		for _, v := range vs {
			header.Add(k, v)
		}
	}

	for _, cookie := range resp.Cookies() {
		if !p.production {
			cookie.Secure = false
		}
		c.SetCookie(cookie)
	}

	// 204/205 must not carry a body.
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent {
		return c.NoContent(resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = echo.MIMETextPlain
	}
	return c.Blob(resp.StatusCode, contentType, body)
}

// copyRequestHeaders copies browser headers minus hop-by-hop and
// upstream-identifying ones, so the backend sees a clean direct request.
func copyRequestHeaders(dst, src http.Header) {
	// Connection may name additional per-hop headers.
	perHop := map[string]bool{}
	for _, v := range src.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				perHop[http.CanonicalHeaderKey(name)] = true
			}
		}
	}

	for k, vs := range src {
		if isHopHeader(k) || perHop[k] || strings.HasPrefix(k, "X-Forwarded-") || k == "X-Real-Ip" || k == "Host" {
			continue
		}
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

func isHopHeader(name string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}
