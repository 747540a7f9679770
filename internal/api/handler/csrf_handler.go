package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/terracasa/realty-system/internal/csrf"
)

// CSRFHandler mints token/secret pairs for the double-submit check.
type CSRFHandler struct {
	// secure gates the cookie's Secure attribute; production only.
	secure bool
}

func NewCSRFHandler(secure bool) *CSRFHandler {
	return &CSRFHandler{secure: secure}
}

type csrfTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// Token mints a fresh secret/token pair. The secret travels back as an
// httpOnly cookie, the derived token in the JSON body; a later mutating
// request must present both.
//
// @Summary      Mint a CSRF token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  csrfTokenResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/csrf-token [get]
func (h *CSRFHandler) Token(c echo.Context) error {
	secret, err := csrf.GenerateSecret()
	if err != nil {
		return err
	}
	token, err := csrf.CreateToken(secret)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     csrf.CookieName,
		Value:    secret,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, csrfTokenResponse{CSRFToken: token})
}
