package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	Version  string
	ping     func() error
	features map[string]bool
}

// NewHealthHandler creates a new health handler. ping checks the database;
// features reports which optional integrations are configured.
func NewHealthHandler(version string, ping func() error, features map[string]bool) *HealthHandler {
	return &HealthHandler{
		Version:  version,
		ping:     ping,
		features: features,
	}
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK
	dbOK := h.ping == nil || h.ping() == nil
	if !dbOK {
		status = "unhealthy"
		code = fiber.StatusServiceUnavailable
	}

	services := fiber.Map{"database": dbOK}
	for name, enabled := range h.features {
		services[name] = enabled
	}
	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"service":  "Hotel Luxe Backend",
		"version":  h.Version,
		"services": services,
	})
}
