package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var (
	errFileTooLarge = errors.New("file too large")
	errNoFile       = errors.New("no file uploaded")
)

// readUpload loads one multipart file into memory. A missing field gives errNoFile.
func readUpload(c *fiber.Ctx, field string, maxFileSize int64) (models.UploadedDocument, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return models.UploadedDocument{}, errNoFile
	}
	return readFileHeader(fh, maxFileSize)
}

func readFileHeader(fh *multipart.FileHeader, maxFileSize int64) (models.UploadedDocument, error) {
	if maxFileSize > 0 && fh.Size > maxFileSize {
		return models.UploadedDocument{}, errFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to read upload: %w", err)
	}

	return models.UploadedDocument{
		Data:      data,
		MediaType: fh.Header.Get("Content-Type"),
		Filename:  fh.Filename,
	}, nil
}

// writeUploadError answers for readUpload failures.
func writeUploadError(c *fiber.Ctx, err error, maxFileSize int64) error {
	switch {
	case errors.Is(err, errNoFile):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, errFileTooLarge):
		return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE",
			fmt.Sprintf("file too large, max size is %d bytes", maxFileSize))
	default:
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot read uploaded file")
	}
}
