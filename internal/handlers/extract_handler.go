package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type ExtractHandler struct {
	extractor   services.DocumentExtractor
	maxFileSize int64
}

func NewExtractHandler(extractor services.DocumentExtractor, maxFileSize int64) *ExtractHandler {
	return &ExtractHandler{
		extractor:   extractor,
		maxFileSize: maxFileSize,
	}
}

// HandleExtract handles POST /extract (multipart, field "file")
func (h *ExtractHandler) HandleExtract(c *fiber.Ctx) error {
	doc, err := readUpload(c, "file", h.maxFileSize)
	if err != nil {
		return writeUploadError(c, err, h.maxFileSize)
	}

	text, err := h.extractor.Extract(c.UserContext(), doc)
	if err != nil {
		return writeExtractError(c, err)
	}

	return c.JSON(models.ExtractResponse{
		Filename:  doc.Filename,
		MediaType: services.ResolveMediaType(doc.MediaType, doc.Filename, doc.Data),
		Text:      text,
	})
}

func writeExtractError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrUnsupportedFormat):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_FORMAT", "only plain text, PDF and DOCX files are supported")
	case errors.Is(err, services.ErrCorruptDocument):
		return writeError(c, fiber.StatusUnprocessableEntity, "CORRUPT_DOCUMENT", "the document could not be read")
	case errors.Is(err, services.ErrEncoding):
		return writeError(c, fiber.StatusUnprocessableEntity, "ENCODING_ERROR", "the text file is not valid UTF-8")
	default:
		log.Printf("❌ Extraction failed: %v\n", err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
