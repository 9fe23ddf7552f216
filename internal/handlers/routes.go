package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Extract  *ExtractHandler
	Analysis *AnalysisHandler
	Feedback *FeedbackHandler
	Skills   *SkillsHandler
	Version  *VersionHandler
}

// RegisterRoutes mounts the API under router, normally the /api/v1 group.
func RegisterRoutes(router fiber.Router, h Handlers) {
	router.Post("/extract", h.Extract.HandleExtract)

	router.Post("/analyses", h.Analysis.HandleCreate)
	router.Get("/analyses", h.Analysis.HandleList)
	router.Get("/analyses/:id", h.Analysis.HandleGet)

	router.Post("/feedback/parse", h.Feedback.HandleParse)
	router.Post("/job-descriptions/skills", h.Skills.HandleExtractSkills)

	router.Post("/versions", h.Version.HandleSave)
	router.Get("/versions", h.Version.HandleList)
	router.Get("/versions/:id", h.Version.HandleGet)
}
