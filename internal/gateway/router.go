package gateway

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// NewRouter builds the gateway's Echo instance. Every /api/* request is
// relayed to the backend; mutating methods additionally get the CSRF
// handshake.
func NewRouter(p *Proxy) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	relay := func(c echo.Context) error {
		path := c.Request().URL.Path
		if q := c.Request().URL.RawQuery; q != "" {
			path += "?" + q
		}

		switch c.Request().Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			return p.ForwardMutating(c, path)
		default:
			return p.Forward(c, ForwardOptions{Path: path})
		}
	}

	e.Any("/api/*", relay)

	// Gateway's own liveness, not proxied.
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return e
}
