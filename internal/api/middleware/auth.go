package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadHeader     = errors.New("invalid authorization header")
)

// ParseBearer validates the Authorization header and returns the token's
// identity claims. An expired token surfaces as jwt.ErrTokenExpired so the
// caller can report it distinctly.
func ParseBearer(jwtSecret, authHeader string) (userID, email string, err error) {
	if authHeader == "" {
		return "", "", errMissingHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", "", errBadHeader
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return "", "", err
	}
	if !tkn.Valid {
		return "", "", jwt.ErrTokenInvalidClaims
	}

	userID, _ = claims["id"].(string)
	email, _ = claims["email"].(string)
	return userID, email, nil
}

// Auth validates the JWT and injects the identity claims into context.
// Expiry is reported with a distinct message so clients can tell a stale
// session apart from a forged or malformed token.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, email, err := ParseBearer(jwtSecret, c.Request().Header.Get("Authorization"))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, authFailureMessage(err))
			}

			c.Set(CtxUserID, userID)
			c.Set(CtxEmail, email)

			return next(c)
		}
	}
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, errMissingHeader):
		return "missing authorization header"
	case errors.Is(err, errBadHeader):
		return "invalid authorization header"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	default:
		return "invalid token"
	}
}
