package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/pawcare/auth-service/internal/core/domain"
)

func TestAdminHandler_SetStatus(t *testing.T) {
	stub := &stubAuthService{
		setUserActiveFn: func(_ context.Context, userID string, active bool) (*domain.UserView, error) {
			if userID != "u7" || active {
				t.Fatalf("unexpected args: %s %v", userID, active)
			}
			return &domain.UserView{ID: "u7", Active: false}, nil
		},
	}

	c, rec := newContext(http.MethodPatch, "/api/admin/users/u7/status", `{"isActive":false}`)
	c.SetPath("/api/admin/users/:id/status")
	c.SetParamNames("id")
	c.SetParamValues("u7")

	if err := NewAdminHandler(stub).SetStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	user := resp["data"].(map[string]any)["user"].(map[string]any)
	if resp["message"] != "User status updated" || user["isActive"] != false {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestAdminHandler_SetStatus_MissingFlag(t *testing.T) {
	stub := &stubAuthService{
		setUserActiveFn: func(context.Context, string, bool) (*domain.UserView, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	c, _ := newContext(http.MethodPatch, "/api/admin/users/u7/status", `{}`)
	c.SetParamNames("id")
	c.SetParamValues("u7")

	err := NewAdminHandler(stub).SetStatus(c)
	var de *domain.Error
	if !asDomainError(err, &de) || de.Fields["isActive"] != "isActive is required" {
		t.Fatalf("expected isActive required, got %v", err)
	}
}

func TestAdminHandler_SetStatus_UnknownUser(t *testing.T) {
	stub := &stubAuthService{
		setUserActiveFn: func(context.Context, string, bool) (*domain.UserView, error) {
			return nil, domain.NotFound("User not found")
		},
	}

	c, _ := newContext(http.MethodPatch, "/api/admin/users/nope/status", `{"isActive":true}`)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if err := NewAdminHandler(stub).SetStatus(c); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
