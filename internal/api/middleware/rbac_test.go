package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pawcare/auth-service/internal/core/domain"
)

func TestRequireRoles(t *testing.T) {
	cases := []struct {
		name     string
		claims   *domain.TokenClaims
		allowed  []domain.Role
		wantCode int
		wantNext bool
	}{
		{
			name:     "admin on admin route",
			claims:   &domain.TokenClaims{UserID: "u1", Role: domain.RoleAdmin},
			allowed:  []domain.Role{domain.RoleAdmin, domain.RoleVeterinary},
			wantCode: http.StatusOK,
			wantNext: true,
		},
		{
			name:     "veterinary in a multi-role list",
			claims:   &domain.TokenClaims{UserID: "u2", Role: domain.RoleVeterinary},
			allowed:  []domain.Role{domain.RoleAdmin, domain.RoleVeterinary},
			wantCode: http.StatusOK,
			wantNext: true,
		},
		{
			name:     "user on admin route",
			claims:   &domain.TokenClaims{UserID: "u3", Role: domain.RoleUser},
			allowed:  []domain.Role{domain.RoleAdmin},
			wantCode: http.StatusForbidden,
		},
		{
			name:     "no identity because gate did not run",
			allowed:  []domain.Role{domain.RoleUser},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPatch, "/api/admin/users/u9/status", nil), rec)
			if tc.claims != nil {
				c.Set(claimsKey, *tc.claims)
			}

			called := false
			err := RequireRoles(tc.allowed...)(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})(c)
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if called != tc.wantNext {
				t.Fatalf("next called = %v, want %v", called, tc.wantNext)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
		})
	}
}

func TestRequireRoles_CopiesAllowedList(t *testing.T) {
	roles := []domain.Role{domain.RoleAdmin}
	mw := RequireRoles(roles...)
	roles[0] = domain.RoleUser

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Set(claimsKey, domain.TokenClaims{UserID: "u1", Role: domain.RoleUser})

	_ = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("caller mutation leaked into middleware: got %d", rec.Code)
	}
}
