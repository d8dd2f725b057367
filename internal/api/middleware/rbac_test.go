package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/chainlance/marketplace-api/internal/core/domain"
)

func invokeRequireRole(t *testing.T, role string, allowed ...string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(CtxRole, role)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return RequireRole(allowed...)(next)(c)
}

func TestRequireRole_Allowed(t *testing.T) {
	if err := invokeRequireRole(t, domain.RoleEmployer, domain.RoleEmployer); err != nil {
		t.Fatalf("allowed role rejected: %v", err)
	}
	if err := invokeRequireRole(t, domain.RoleWorker, domain.RoleEmployer, domain.RoleWorker); err != nil {
		t.Fatalf("role in allow list rejected: %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	cases := []struct {
		name string
		role string
	}{
		{"wrong role", domain.RoleWorker},
		{"no role in context", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := invokeRequireRole(t, tc.role, domain.RoleEmployer)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if httpErr.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", httpErr.Code)
			}
		})
	}
}
