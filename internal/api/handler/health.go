package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawcare/auth-service/internal/api/response"
)

const (
	serviceName      = "pawcare-auth"
	readinessTimeout = 3 * time.Second
)

type checkFunc func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checks map[string]checkFunc // nil check = dependency disabled
}

// NewHealthHandler probes Mongo and, when rdb is non-nil, Redis. A nil rdb is
// reported as "disabled" and does not fail readiness.
func NewHealthHandler(db *mongo.Database, rdb *redis.Client) *HealthHandler {
	checks := map[string]checkFunc{
		"mongodb": func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		},
		"redis": nil,
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return &HealthHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Root returns the service banner.
//
// @Summary      Service banner
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       / [get]
func (h *HealthHandler) Root(c echo.Context) error {
	return response.OK(c, http.StatusOK, "PawCare auth service", map[string]string{
		"service": serviceName,
		"docs":    "/swagger/index.html",
	})
}

// Liveness confirms the process is alive.
//
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return response.OK(c, http.StatusOK, "API is healthy", nil)
}

// Readiness checks every dependency before declaring the service ready.
//
// @Summary      Readiness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Envelope{data=readinessResponse}
// @Failure      503  {object}  response.Envelope{data=readinessResponse}
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		if check == nil {
			deps[name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := check(ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	body := readinessResponse{Status: "ok", Dependencies: deps}
	if !healthy {
		body.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, response.Envelope{
			Success:   false,
			Message:   "Service not ready",
			Data:      body,
			Timestamp: response.Now(),
		})
	}
	return response.OK(c, http.StatusOK, "Service ready", body)
}
