package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terracasa/realty-system/internal/core/domain"
	"github.com/terracasa/realty-system/internal/core/ports"
	"github.com/terracasa/realty-system/internal/core/service"
)

// CtxBootstrap marks a user-creation request admitted via the empty-system
// bootstrap path. The handler forces admin=true on the created user.
const CtxBootstrap = "bootstrap"

// CreateUserGate guards POST /api/users. The authorization policy is
// evaluated exactly once per request: an empty system admits the call
// unauthenticated (bootstrap), otherwise the requester must present a valid
// token and pass a fresh admin check.
func CreateUserGate(repo ports.UserRepository, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			count, err := repo.Count(ctx)
			if err != nil {
				return err
			}

			userID, email, parseErr := ParseBearer(jwtSecret, c.Request().Header.Get("Authorization"))

			switch service.CanCreateUser(userID, count) {
			case service.AllowBootstrap:
				c.Set(CtxBootstrap, true)
				return next(c)

			case service.RequireAdmin:
				if parseErr != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, authFailureMessage(parseErr))
				}
				user, err := repo.FindByID(ctx, userID)
				if err != nil {
					if errors.Is(err, domain.ErrUserNotFound) {
						return echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
					}
					return err
				}
				if !user.Admin {
					return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
				}
				c.Set(CtxUserID, userID)
				c.Set(CtxEmail, email)
				return next(c)

			default:
				return echo.NewHTTPError(http.StatusForbidden, "user creation not allowed")
			}
		}
	}
}
