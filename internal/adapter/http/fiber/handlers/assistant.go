package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/domain"
	"github.com/vaani-ai/vaani/internal/ports"
	"github.com/vaani-ai/vaani/internal/service/assistant"
)

// AssistantHandler serves the single-shot command endpoint used by clients
// that do their own speech handling.
type AssistantHandler struct {
	service ports.AssistantService
	log     *zap.Logger
}

func NewAssistantHandler(service ports.AssistantService, log *zap.Logger) *AssistantHandler {
	return &AssistantHandler{service: service, log: log}
}

type AskRequest struct {
	Command string `json:"command"`
}

func (h *AssistantHandler) Ask(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	userID, _ := c.Locals("user_id").(string)
	routed, err := h.service.Ask(c.Context(), userID, req.Command)
	if err != nil {
		switch {
		case errors.Is(err, assistant.ErrEmptyCommand):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Command is required"})
		case errors.Is(err, assistant.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		case errors.Is(err, domain.ErrUnrecognizedKind):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not understand the command"})
		default:
			h.log.Error("command dispatch failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not process command"})
		}
	}
	return c.JSON(routed)
}
