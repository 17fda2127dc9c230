package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sellerhub/account-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fast-fails before any service call: a non-empty email and role prove the
// middleware ran on this route.
func ctxIdentity(c echo.Context) (string, domain.Role, error) {
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	if email == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return email, domain.Role(role), nil
}
