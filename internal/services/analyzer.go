package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

var tracer = otel.Tracer("alfredoptarigan/resume-analyzer/internal/services")

var ErrEmptyJobDescription = errors.New("job description is empty")

// Messages stored on failed analyses. They are shown to clients, so provider errors
// never go in here.
const (
	msgGenerationFailed = "The analysis could not be generated. Please try again later."
	msgMissingResume    = "The resume has no extractable text."
	msgMissingJobDesc   = "A job description is required for this analysis mode."
	msgAnalysisNotFound = "The analysis could not be loaded."
	msgSaveFailed       = "The analysis results could not be saved. Please try again later."
)

const (
	guidelineResultsLimit = 3
	failureUpdateTimeout  = 5 * time.Second
)

type AnalyzerService interface {
	Analyze(ctx context.Context, analysisID uuid.UUID) error
	ExtractSkills(ctx context.Context, jobDescription string) ([]string, error)
}

// AnalyzerConfig wires the analyzer. Guidelines and Embedder are optional; without
// them prompts carry no reference guidelines.
type AnalyzerConfig struct {
	Repository repositories.AnalysisRepository
	Generator  ReportGenerator
	Parser     FeedbackParser
	Guidelines QdrantService
	Embedder   Embedder
	Retry      RetryPolicy
	Metrics    *AnalyzerMetrics
}

type analyzerService struct {
	repo          repositories.AnalysisRepository
	generator     ReportGenerator
	parser        FeedbackParser
	guidelines    QdrantService
	embedder      Embedder
	promptBuilder *PromptBuilder
	retry         RetryPolicy
	metrics       *AnalyzerMetrics
}

func NewAnalyzerService(cfg AnalyzerConfig) AnalyzerService {
	parser := cfg.Parser
	if parser == nil {
		parser = NewFeedbackParser()
	}

	return &analyzerService{
		repo:          cfg.Repository,
		generator:     cfg.Generator,
		parser:        parser,
		guidelines:    cfg.Guidelines,
		embedder:      cfg.Embedder,
		promptBuilder: NewPromptBuilder(),
		retry:         cfg.Retry,
		metrics:       cfg.Metrics,
	}
}

// Analyze runs one queued analysis to completion. An analysis already claimed by another
// worker is skipped without error.
func (a *analyzerService) Analyze(ctx context.Context, analysisID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "analyzer.Analyze",
		trace.WithAttributes(attribute.String("analysis.id", analysisID.String())))
	defer span.End()

	if err := a.repo.ClaimQueued(ctx, analysisID); err != nil {
		if errors.Is(err, repositories.ErrAnalysisNotQueued) {
			log.Printf("⏭️  Analysis %s is no longer queued, skipping\n", analysisID)
			return nil
		}
		span.RecordError(err)
		return fmt.Errorf("failed to claim analysis: %w", err)
	}

	log.Printf("🔄 Starting analysis %s\n", analysisID)
	started := time.Now()

	analysis, err := a.repo.FindByID(ctx, analysisID)
	if err != nil {
		a.fail(ctx, analysisID, msgAnalysisNotFound)
		span.RecordError(err)
		return fmt.Errorf("failed to get analysis: %w", err)
	}
	span.SetAttributes(attribute.String("analysis.mode", string(analysis.Mode)))

	if strings.TrimSpace(analysis.ResumeText) == "" {
		a.fail(ctx, analysisID, msgMissingResume)
		a.metrics.observe(analysis.Mode, outcomeFailed, time.Since(started))
		return fmt.Errorf("analysis %s has no resume text", analysisID)
	}
	if analysis.Mode.RequiresJobDescription() && strings.TrimSpace(analysis.JobDescription) == "" {
		a.fail(ctx, analysisID, msgMissingJobDesc)
		a.metrics.observe(analysis.Mode, outcomeFailed, time.Since(started))
		return fmt.Errorf("analysis %s: %w", analysisID, ErrEmptyJobDescription)
	}

	log.Println("🔍 Retrieving reference guidelines...")
	guidance := a.retrieveGuidance(ctx, analysis.Mode, analysis.JobDescription)

	prompt := a.promptBuilder.BuildAnalysisPrompt(analysis.Mode, analysis.ResumeText, analysis.JobDescription, guidance)
	log.Printf("📝 Analysis prompt length: %d characters\n", len(prompt))

	log.Println("🤖 Generating analysis with LLM...")
	raw, err := GenerateWithRetry(ctx, a.generator, prompt, analysisTemperature, a.retry)
	if err != nil {
		log.Printf("❌ Analysis %s generation failed: %v\n", analysisID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		a.fail(ctx, analysisID, msgGenerationFailed)
		a.metrics.observe(analysis.Mode, outcomeFailed, time.Since(started))
		return fmt.Errorf("failed to generate analysis: %w", err)
	}

	report := a.parser.Parse(raw)
	if !report.HasFeedback() {
		log.Printf("⚠️  Analysis %s produced no recognizable feedback. Raw response:\n%s\n", analysisID, raw)
	}

	log.Println("💾 Saving analysis results...")
	if err := a.repo.UpdateResult(ctx, analysisID, report, raw); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save failed")
		a.fail(ctx, analysisID, msgSaveFailed)
		a.metrics.observe(analysis.Mode, outcomeFailed, time.Since(started))
		return fmt.Errorf("failed to save results: %w", err)
	}

	outcome := reportOutcome(report)
	a.metrics.observe(analysis.Mode, outcome, time.Since(started))
	span.SetAttributes(attribute.String("analysis.outcome", outcome))

	log.Printf("✅ Analysis %s completed (%s)\n", analysisID, outcome)
	return nil
}

// ExtractSkills asks the generator for the key skills of a job description.
func (a *analyzerService) ExtractSkills(ctx context.Context, jobDescription string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "analyzer.ExtractSkills")
	defer span.End()

	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}

	prompt := a.promptBuilder.BuildSkillsPrompt(jobDescription)
	raw, err := GenerateWithRetry(ctx, a.generator, prompt, skillsTemperature, a.retry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("failed to extract skills: %w", err)
	}

	skills := splitSkills(raw)
	span.SetAttributes(attribute.Int("skills.count", len(skills)))
	return skills, nil
}

func (a *analyzerService) retrieveGuidance(ctx context.Context, mode models.AnalysisMode, jobDescription string) string {
	if a.guidelines == nil || a.embedder == nil {
		return ""
	}

	query := a.promptBuilder.BuildRetrievalQuery(mode, jobDescription)
	embedding, err := a.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Warning: Failed to embed guideline query: %v\n", err)
		return ""
	}

	var results []SearchResult
	for _, category := range GuidelineCategories(mode) {
		found, err := a.guidelines.SearchGuidelines(ctx, embedding, category, guidelineResultsLimit)
		if err != nil {
			log.Printf("⚠️  Failed to search guidelines for %s: %v\n", category, err)
			continue
		}
		results = append(results, found...)
	}

	return FormatRAGContext(results)
}

// fail marks the analysis failed even when ctx is already cancelled.
func (a *analyzerService) fail(ctx context.Context, id uuid.UUID, msg string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureUpdateTimeout)
	defer cancel()

	if err := a.repo.UpdateError(ctx, id, msg); err != nil {
		log.Printf("❌ Failed to mark analysis %s as failed: %v\n", id, err)
	}
}

// splitSkills turns a comma or newline separated answer into a de-duplicated list.
// A leading "Skills:" style label is dropped.
func splitSkills(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})

	seen := make(map[string]bool, len(fields))
	skills := make([]string, 0, len(fields))

	for _, field := range fields {
		skill, _ := stripBullet(strings.TrimSpace(field))
		if label, detail, ok := splitLabel(skill); ok && isSkillsHeader(label) {
			skill = detail
		}
		skill = strings.TrimSpace(strings.Trim(skill, "*_`\"'."))
		if skill == "" || strings.HasSuffix(skill, ":") {
			continue
		}

		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, skill)
	}

	return skills
}

func isSkillsHeader(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "skill") || strings.Contains(l, "requirement")
}
