package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/conectar/console-gateway/internal/core/domain"
	"github.com/conectar/console-gateway/internal/core/ports"
)

// StatusHandler exposes the backend status indicator and its controls.
type StatusHandler struct {
	service ports.ConsoleService
}

func NewStatusHandler(service ports.ConsoleService) *StatusHandler {
	return &StatusHandler{service: service}
}

type statusResponse struct {
	domain.BackendStatus
	UsingSimulatedData bool `json:"usingSimulatedData"`
}

func (h *StatusHandler) current() statusResponse {
	return statusResponse{
		BackendStatus:      h.service.Status(),
		UsingSimulatedData: h.service.UsingSimulatedData(),
	}
}

// Get handles GET /status.
//
// @Summary      Backend status
// @Tags         status
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statusResponse
// @Router       /status [get]
func (h *StatusHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.current())
}

// Check handles POST /status/check: probe the real backend now.
//
// @Summary      Force a backend check
// @Tags         status
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statusResponse
// @Router       /status/check [post]
func (h *StatusHandler) Check(c echo.Context) error {
	h.service.ForceCheck(c.Request().Context())
	return c.JSON(http.StatusOK, h.current())
}

// Reset handles POST /status/reset: restore the simulated seed dataset.
//
// @Summary      Reset simulated data
// @Tags         status
// @Security     BearerAuth
// @Success      204
// @Failure      403  {object}  map[string]string
// @Router       /status/reset [post]
func (h *StatusHandler) Reset(c echo.Context) error {
	if err := h.service.ResetSimulatedData(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
