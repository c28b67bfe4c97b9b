package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/conectar/console-gateway/internal/core/ports"
)

// HealthHandler handles GET /health as a liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready. The gateway is ready when its
// key-value store answers; an offline real backend only changes the mode.
type ReadinessHandler struct {
	kv      ports.KVStore
	service ports.ConsoleService
}

func NewReadinessHandler(kv ports.KVStore, service ports.ConsoleService) *ReadinessHandler {
	return &ReadinessHandler{kv: kv, service: service}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Mode         string                      `json:"mode"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if err := h.kv.Ping(ctx); err != nil {
		deps["store"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["store"] = dependencyStatus{Status: "ok"}
	}

	mode := "remote"
	if h.service.UsingSimulatedData() {
		mode = "simulated"
		deps["backend"] = dependencyStatus{Status: "offline"}
	} else {
		deps["backend"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Mode:         mode,
		Dependencies: deps,
	})
}
