package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type VersionHandler struct {
	store services.VersionStore
}

func NewVersionHandler(store services.VersionStore) *VersionHandler {
	return &VersionHandler{store: store}
}

// HandleSave handles POST /versions
func (h *VersionHandler) HandleSave(c *fiber.Ctx) error {
	var req models.SaveVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid request payload")
	}

	version := h.store.Save(req.Name, req.Content)
	return c.Status(fiber.StatusCreated).JSON(version)
}

// HandleList handles GET /versions, oldest first.
func (h *VersionHandler) HandleList(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"versions": h.store.List()})
}

// HandleGet handles GET /versions/:id
func (h *VersionHandler) HandleGet(c *fiber.Ctx) error {
	version, err := h.store.Get(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrVersionNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "version not found")
		}
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	return c.JSON(version)
}
