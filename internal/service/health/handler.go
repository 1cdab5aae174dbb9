package health

import "github.com/gofiber/fiber/v2"

// FiberHandler exposes the health service over HTTP.
type FiberHandler struct {
	service *Service
}

func NewFiberHandler(service *Service) *FiberHandler {
	return &FiberHandler{service: service}
}

func (h *FiberHandler) Live(c *fiber.Ctx) error {
	return c.JSON(h.service.Live())
}

func (h *FiberHandler) Ready(c *fiber.Ctx) error {
	resp := h.service.Ready(c.Context())
	status := fiber.StatusOK
	if resp.Status == StatusDown {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}

// RegisterRoutes mounts the probe endpoints.
func (h *FiberHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)
}
