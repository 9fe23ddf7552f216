package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type FeedbackHandler struct {
	parser services.FeedbackParser
}

func NewFeedbackHandler(parser services.FeedbackParser) *FeedbackHandler {
	return &FeedbackHandler{parser: parser}
}

// HandleParse handles POST /feedback/parse. Any text is accepted; unstructured input
// gives an empty report.
func (h *FeedbackHandler) HandleParse(c *fiber.Ctx) error {
	var req models.ParseFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid request payload")
	}

	return c.JSON(h.parser.Parse(req.Text))
}
