package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/models"
	"github.com/maheshrc27/postflow/internal/service"
	"github.com/maheshrc27/postflow/internal/transfer"
)

type AccountHandler struct {
	s service.AccountService
}

func NewAccountHandler(service service.AccountService) *AccountHandler {
	return &AccountHandler{s: service}
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var ac transfer.AccountCreation
	if err := c.BodyParser(&ac); err != nil {
		return badBody(c, err)
	}

	account, err := h.s.Create(c.Context(), &ac)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

func (h *AccountHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.s.List(c.Context(), models.AccountFilter{
		EntityID: c.Query("entity_id"),
		Platform: c.Query("platform"),
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(accounts)
}

func (h *AccountHandler) GetAccount(c *fiber.Ctx) error {
	account, err := h.s.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(account)
}

func (h *AccountHandler) UpdateAccount(c *fiber.Ctx) error {
	var au transfer.AccountUpdate
	if err := c.BodyParser(&au); err != nil {
		return badBody(c, err)
	}

	account, err := h.s.Update(c.Context(), c.Params("id"), &au)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(account)
}

func (h *AccountHandler) RemoveAccount(c *fiber.Ctx) error {
	if err := h.s.Remove(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AccountHandler) VerifyAccount(c *fiber.Ctx) error {
	result, err := h.s.Verify(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}
