package handlers

import (
	"context"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/avdeev21/accounts/pkg/health"
)

// HealthHandler serves the health probe for load balancers and monitoring.
type HealthHandler struct{ svc health.StatusUseCase }

func NewHealthHandler(svc health.StatusUseCase) *HealthHandler { return &HealthHandler{svc: svc} }

// Health reports per-dependency statuses. A failing critical dependency
// degrades the whole response to 503; the handler itself never panics
// outward.
// @Summary Health probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	rep := h.svc.Status(ctx)
	if rep.Status != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    rep.Status,
			"message":   rep.Message,
			"timestamp": rep.Timestamp.Format(time.RFC3339),
		})
	}

	body := fiber.Map{
		"status":     "ok",
		"go_version": runtime.Version(),
		"timestamp":  rep.Timestamp.Format(time.RFC3339),
	}
	for name, status := range rep.Dependencies {
		body[name] = status
	}
	return c.Status(fiber.StatusOK).JSON(body)
}
