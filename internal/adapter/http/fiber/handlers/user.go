package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/vaani-ai/vaani/internal/ports"
	"github.com/vaani-ai/vaani/internal/service/assistant"
)

// maxAvatarBytes caps uploaded assistant images.
const maxAvatarBytes = 5 << 20

// UserHandler serves the profile endpoints: current user, assistant
// customization and command history.
type UserHandler struct {
	assistant    ports.AssistantService
	uploader     ports.MediaUploader
	historyLimit int
	log          *zap.Logger
}

func NewUserHandler(assistantSvc ports.AssistantService, uploader ports.MediaUploader, historyLimit int, log *zap.Logger) *UserHandler {
	return &UserHandler{
		assistant:    assistantSvc,
		uploader:     uploader,
		historyLimit: historyLimit,
		log:          log,
	}
}

func (h *UserHandler) Current(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	user, err := h.assistant.CurrentProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, assistant.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		h.log.Error("current profile failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not load profile"})
	}
	return c.JSON(user)
}

type UpdateRequest struct {
	AssistantName string `json:"assistantName"`
	ImageURL      string `json:"imageUrl"`
}

// Update applies a name change and/or one of the stock avatar URLs.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.AssistantName == "" && req.ImageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	userID, _ := c.Locals("user_id").(string)
	user, err := h.assistant.UpdateProfile(c.Context(), userID, req.AssistantName, req.ImageURL)
	if err != nil {
		if errors.Is(err, assistant.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		h.log.Error("profile update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}
	return c.JSON(user)
}

// Customize accepts a multipart form with an optional assistantImage file.
// An uploaded file wins over an imageUrl form value.
func (h *UserHandler) Customize(c *fiber.Ctx) error {
	assistantName := c.FormValue("assistantName")
	imageURL := c.FormValue("imageUrl")

	if file, err := c.FormFile("assistantImage"); err == nil && file != nil {
		if file.Size > maxAvatarBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "Image too large"})
		}
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read image"})
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read image"})
		}

		hosted, err := h.uploader.Upload(c.Context(), file.Filename, data)
		if err != nil {
			h.log.Error("image upload failed", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Image upload failed"})
		}
		imageURL = hosted
	}

	if assistantName == "" && imageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	userID, _ := c.Locals("user_id").(string)
	user, err := h.assistant.UpdateProfile(c.Context(), userID, assistantName, imageURL)
	if err != nil {
		if errors.Is(err, assistant.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		h.log.Error("profile update failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}
	return c.JSON(user)
}

func (h *UserHandler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", h.historyLimit)
	userID, _ := c.Locals("user_id").(string)

	entries, err := h.assistant.History(c.Context(), userID, limit)
	if err != nil {
		h.log.Error("history lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not load history"})
	}
	return c.JSON(fiber.Map{"history": entries})
}
