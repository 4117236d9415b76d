package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type EntityHandler struct {
	s service.EntityService
}

func NewEntityHandler(service service.EntityService) *EntityHandler {
	return &EntityHandler{s: service}
}

func (h *EntityHandler) CreateEntity(c *fiber.Ctx) error {
	var ec transfer.EntityCreation
	if err := c.BodyParser(&ec); err != nil {
		return badBody(c, err)
	}

	entity, err := h.s.Create(c.Context(), &ec)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entity)
}

func (h *EntityHandler) ListEntities(c *fiber.Ctx) error {
	entities, err := h.s.List(c.Context(), c.QueryInt("limit", 0), c.QueryInt("offset", 0))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(entities)
}

func (h *EntityHandler) GetEntity(c *fiber.Ctx) error {
	entity, err := h.s.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(entity)
}

func (h *EntityHandler) RemoveEntity(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
