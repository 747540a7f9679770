package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terracasa/realty-system/internal/api/metrics"
	"github.com/terracasa/realty-system/internal/csrf"
)

// CSRF enforces the double-submit check on mutating requests: the
// X-CSRF-Token header must have been derived from the secret in the _csrf
// cookie. Both must originate from the same /api/csrf-token handshake.
func CSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			cookie, err := c.Cookie(csrf.CookieName)
			if err != nil || cookie.Value == "" {
				metrics.CSRFRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
			}

			token := c.Request().Header.Get(csrf.HeaderName)
			if !csrf.Verify(cookie.Value, token) {
				metrics.CSRFRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
			}

			return next(c)
		}
	}
}
