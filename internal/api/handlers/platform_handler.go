package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/platform"
)

type PlatformHandler struct {
	registry *platform.Registry
}

func NewPlatformHandler(registry *platform.Registry) *PlatformHandler {
	return &PlatformHandler{registry: registry}
}

// ListPlatforms reports the platforms this deployment can publish to.
func (h *PlatformHandler) ListPlatforms(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"platforms": h.registry.Platforms(),
	})
}
