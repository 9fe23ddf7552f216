package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type AnalysisHandler struct {
	repo        repositories.AnalysisRepository
	extractor   services.DocumentExtractor
	worker      services.Worker
	maxFileSize int64
}

func NewAnalysisHandler(
	repo repositories.AnalysisRepository,
	extractor services.DocumentExtractor,
	worker services.Worker,
	maxFileSize int64,
) *AnalysisHandler {
	return &AnalysisHandler{
		repo:        repo,
		extractor:   extractor,
		worker:      worker,
		maxFileSize: maxFileSize,
	}
}

// HandleCreate handles POST /analyses
//
// Form fields: mode, job_description, and either a "resume" file or "resume_text".
// The resume is extracted before the job is queued so format errors surface here.
func (h *AnalysisHandler) HandleCreate(c *fiber.Ctx) error {
	mode, err := models.ParseAnalysisMode(c.FormValue("mode"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_MODE", "mode must be job_compatibility or ats_compliance")
	}

	jobDescription := strings.TrimSpace(c.FormValue("job_description"))
	if mode.RequiresJobDescription() && jobDescription == "" {
		return writeError(c, fiber.StatusBadRequest, "JOB_DESCRIPTION_REQUIRED", "job_description is required for this mode")
	}

	var (
		resumeText string
		filename   string
	)
	doc, err := readUpload(c, "resume", h.maxFileSize)
	switch {
	case err == nil:
		resumeText, err = h.extractor.Extract(c.UserContext(), doc)
		if err != nil {
			return writeExtractError(c, err)
		}
		filename = doc.Filename
	case errors.Is(err, errNoFile):
		resumeText = c.FormValue("resume_text")
		if strings.TrimSpace(resumeText) == "" {
			return writeError(c, fiber.StatusBadRequest, "RESUME_REQUIRED", "a resume file or resume_text is required")
		}
	default:
		return writeUploadError(c, err, h.maxFileSize)
	}

	if strings.TrimSpace(resumeText) == "" {
		return writeError(c, fiber.StatusUnprocessableEntity, "EMPTY_RESUME", "no text could be extracted from the resume")
	}

	now := time.Now()
	analysis := &models.Analysis{
		ID:             uuid.New(),
		Mode:           mode,
		Status:         models.StatusQueued,
		SourceFilename: filename,
		ResumeText:     resumeText,
		JobDescription: jobDescription,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.repo.Create(c.UserContext(), analysis); err != nil {
		log.Printf("❌ Failed to create analysis: %v\n", err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to create analysis job")
	}

	// a full queue is fine, the poller picks queued rows up later
	if !h.worker.EnqueueJob(analysis.ID) {
		log.Printf("⚠️  Queue full, analysis %s left for the poller\n", analysis.ID)
	}

	return c.Status(fiber.StatusAccepted).JSON(models.AnalyzeResponse{
		ID:     analysis.ID.String(),
		Status: string(models.StatusQueued),
	})
}

// HandleGet handles GET /analyses/:id
func (h *AnalysisHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}

	analysis, err := h.repo.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrAnalysisNotFound) {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "analysis not found")
		}
		log.Printf("❌ Failed to load analysis %s: %v\n", id, err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	return c.JSON(toAnalysisResponse(*analysis))
}

// HandleList handles GET /analyses?limit=&offset=
func (h *AnalysisHandler) HandleList(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit < 1 || limit > maxListLimit {
		return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 100")
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}

	analyses, total, err := h.repo.List(c.UserContext(), limit, offset)
	if err != nil {
		log.Printf("❌ Failed to list analyses: %v\n", err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}

	items := make([]models.AnalysisResultResponse, 0, len(analyses))
	for _, a := range analyses {
		items = append(items, toAnalysisResponse(a))
	}

	return c.JSON(models.ListAnalysesResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// toAnalysisResponse only exposes the report once completed and the error once failed.
func toAnalysisResponse(a models.Analysis) models.AnalysisResultResponse {
	resp := models.AnalysisResultResponse{
		ID:             a.ID.String(),
		Mode:           string(a.Mode),
		Status:         string(a.Status),
		SourceFilename: a.SourceFilename,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}

	switch a.Status {
	case models.StatusCompleted:
		resp.Report = a.Report
	case models.StatusFailed:
		resp.ErrorMessage = a.ErrorMessage
	}

	return resp
}
