package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/health", "")

	if err := (&HealthHandler{}).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeEnvelope(t, rec)
	if rec.Code != http.StatusOK || resp["message"] != "API is healthy" || resp["timestamp"] == "" {
		t.Fatalf("unexpected response %d: %+v", rec.Code, resp)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := map[string]struct {
		checks map[string]checkFunc
		code   int
		redis  string
	}{
		"all up":         {map[string]checkFunc{"mongodb": ok, "redis": ok}, http.StatusOK, "ok"},
		"redis disabled": {map[string]checkFunc{"mongodb": ok, "redis": nil}, http.StatusOK, "disabled"},
		"redis down":     {map[string]checkFunc{"mongodb": ok, "redis": down}, http.StatusServiceUnavailable, "unhealthy"},
		"mongo down":     {map[string]checkFunc{"mongodb": down, "redis": ok}, http.StatusServiceUnavailable, "ok"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/api/health/ready", "")

			if err := (&HealthHandler{checks: tc.checks}).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			resp := decodeEnvelope(t, rec)
			deps := resp["data"].(map[string]any)["dependencies"].(map[string]any)
			if got := deps["redis"].(map[string]any)["status"]; got != tc.redis {
				t.Fatalf("redis status = %v, want %s", got, tc.redis)
			}
			if resp["success"] != (tc.code == http.StatusOK) {
				t.Fatalf("unexpected success flag: %+v", resp)
			}
		})
	}
}
