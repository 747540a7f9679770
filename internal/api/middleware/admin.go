package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
)

// RequireAdmin authorizes privileged operations. The admin flag is re-read
// from the database on every call; JWT claims are never trusted for
// authorization, so a demoted admin loses access before their token expires.
func RequireAdmin(repo ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(CtxUserID).(string)
			if userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			user, err := repo.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
				}
				return err
			}
			if !user.Admin {
				return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
			}

			return next(c)
		}
	}
}
