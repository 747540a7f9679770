package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apimw "github.com/terracasa/realty-system/internal/api/middleware"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a missing user id means the middleware
// did not run (or the token carried no identity), which is a 401 either way.
func ctxIdentity(c echo.Context) (userID, email string, err error) {
	userID, _ = c.Get(apimw.CtxUserID).(string)
	if userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	email, _ = c.Get(apimw.CtxEmail).(string)
	return userID, email, nil
}
