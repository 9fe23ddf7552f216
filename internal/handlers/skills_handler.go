package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type SkillsHandler struct {
	analyzer services.AnalyzerService
}

func NewSkillsHandler(analyzer services.AnalyzerService) *SkillsHandler {
	return &SkillsHandler{analyzer: analyzer}
}

// HandleExtractSkills handles POST /job-descriptions/skills
func (h *SkillsHandler) HandleExtractSkills(c *fiber.Ctx) error {
	var req models.SkillsRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_PAYLOAD", "invalid request payload")
	}

	skills, err := h.analyzer.ExtractSkills(c.UserContext(), req.JobDescription)
	if err != nil {
		if errors.Is(err, services.ErrEmptyJobDescription) {
			return writeError(c, fiber.StatusBadRequest, "JOB_DESCRIPTION_REQUIRED", "job_description is required")
		}
		log.Printf("❌ Skill extraction failed: %v\n", err)
		return writeError(c, fiber.StatusBadGateway, "GENERATION_FAILED", "skills could not be generated, try again later")
	}

	return c.JSON(models.SkillsResponse{Skills: skills})
}
