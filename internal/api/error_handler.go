package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/terracasa/realty-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Detail
// carries the underlying error text and is populated only outside production.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, internal := resolveError(err, log, c)

		resp := errorResponse{Error: msg}
		if internal && !production {
			resp.Detail = err.Error()
		}
		_ = c.JSON(code, resp)
	}
}

// resolveError maps an error to a status code and user-facing message.
// The third return reports whether the error was unexpected (internal).
func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, bool) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), false
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest, err.Error(), false
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", false
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many login attempts", false
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", false
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", false
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists", false
	case errors.Is(err, domain.ErrSelfDeletion):
		return http.StatusBadRequest, "cannot delete own account", false
	case errors.Is(err, domain.ErrPropertyNotFound):
		return http.StatusNotFound, "property not found", false
	case errors.Is(err, domain.ErrInvalidImage), errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusBadRequest, err.Error(), false
	case errors.Is(err, domain.ErrSecretNotConfigured):
		// Misconfiguration, not client error; keep the message generic.
		log.Error().Err(err).Msg("signing secret not configured")
		return http.StatusInternalServerError, "internal server error", true
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error", true
}
