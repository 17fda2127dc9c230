package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sellerhub/account-api/internal/core/domain"
)

func invokeRBAC(t *testing.T, role string, allowed ...domain.Role) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RBAC(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestRBAC_AllowsListedRole(t *testing.T) {
	rec := invokeRBAC(t, string(domain.RoleAdmin), domain.RoleAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin rejected: %d", rec.Code)
	}
}

func TestRBAC_RejectsOtherRoles(t *testing.T) {
	rec := invokeRBAC(t, string(domain.RoleUser), domain.RoleAdmin)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRBAC_RejectsMissingRole(t *testing.T) {
	rec := invokeRBAC(t, "", domain.RoleAdmin, domain.RoleSeller)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without a role in context, got %d", rec.Code)
	}
}

func TestRBAC_MultipleRoles(t *testing.T) {
	rec := invokeRBAC(t, string(domain.RoleSeller), domain.RoleAdmin, domain.RoleSeller)
	if rec.Code != http.StatusOK {
		t.Fatalf("seller rejected on a multi-role route: %d", rec.Code)
	}
}
