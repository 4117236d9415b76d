package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow/internal/service"
)

// errorResponse maps service sentinels to status codes. Anything else is a
// 500 and its text is not echoed back.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrInvalidInput):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrNotCancellable):
		status, message = fiber.StatusConflict, err.Error()
	default:
		slog.Error("request failed", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func badBody(c *fiber.Ctx, err error) error {
	slog.Info(err.Error())
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Unable to parse request body",
	})
}
