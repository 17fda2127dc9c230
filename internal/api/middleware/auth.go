package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sellerhub/account-api/internal/core/token"
)

// Auth validates the bearer token and injects the identity into context.
//
// Refresh tokens are rejected here with their own error kind: possession of
// a refresh token must never grant access to ordinary endpoints.
func Auth(tokens *token.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Authenticate(parts[1])
			if err != nil {
				return err
			}
			if err := tokens.RequireAccess(claims); err != nil {
				return err
			}

			c.Set("email", claims.Subject)
			c.Set("role", string(claims.Role))

			return next(c)
		}
	}
}
