package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// Guideline categories stored in the Qdrant payload.
const (
	CategoryGeneral  = "general"
	CategoryATS      = "ats_compliance"
	CategoryJobMatch = "job_compatibility"
)

// Sampling temperatures per prompt kind.
const (
	analysisTemperature float32 = 0.3
	skillsTemperature   float32 = 0.2
)

// The parser reads the first line as the score, each "Area: feedback" line as its own
// section and the bullets after "Suggestions:" as general advice.
const responseFormat = `Format your response exactly as follows, with no other text. Write one "Area: feedback" line for every part of the resume you critique (for example Skills, Experience, Formatting, Keywords) and one bullet per suggestion:
%s: X%%
Skills: feedback about the skills
Experience: feedback about the experience
Formatting: feedback about the formatting
Suggestions:
- Suggestion 1
- Suggestion 2`

// maxRetrievalJobChars bounds the job description embedded for guideline retrieval.
const maxRetrievalJobChars = 2000

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the prompt for one analysis mode. guidance is optional
// reference material from the guideline library.
func (pb *PromptBuilder) BuildAnalysisPrompt(mode models.AnalysisMode, resumeText, jobDescription, guidance string) string {
	var b strings.Builder

	switch mode {
	case models.ModeATSCompliance:
		b.WriteString("You are an AI assistant that reviews resumes for applicant tracking system (ATS) compliance. ")
		b.WriteString("Check parseable structure, standard section headings, keyword usage, dates and contact details. ")
		b.WriteString("Provide an ATS compliance score as a percentage, followed by specific feedback and improvement suggestions.\n\n")
	default:
		b.WriteString("You are an AI assistant that analyzes resumes and provides feedback for ATS optimization. ")
		b.WriteString("Provide a compatibility score as a percentage, followed by specific feedback and improvement suggestions.\n\n")
	}

	if guidance = strings.TrimSpace(guidance); guidance != "" {
		fmt.Fprintf(&b, "REFERENCE GUIDELINES:\n%s\n\n", guidance)
	}

	fmt.Fprintf(&b, "RESUME:\n%s\n\n", strings.TrimSpace(resumeText))

	if jd := strings.TrimSpace(jobDescription); jd != "" {
		fmt.Fprintf(&b, "JOB DESCRIPTION:\n%s\n\n", jd)
	}

	fmt.Fprintf(&b, responseFormat, scoreLabel(mode))
	return b.String()
}

// BuildSkillsPrompt asks for the key skills of a job description as one comma separated line.
func (pb *PromptBuilder) BuildSkillsPrompt(jobDescription string) string {
	return fmt.Sprintf(`You are a helpful assistant that extracts key skills and requirements from job descriptions.

JOB DESCRIPTION:
%s

Return ONLY the key skills and requirements as a single comma-separated list, no numbering and no explanations.`,
		strings.TrimSpace(jobDescription))
}

// BuildRetrievalQuery creates the query embedded for guideline retrieval.
func (pb *PromptBuilder) BuildRetrievalQuery(mode models.AnalysisMode, jobDescription string) string {
	switch mode {
	case models.ModeATSCompliance:
		return "ATS resume formatting rules, section headings, keywords and parsing pitfalls"
	default:
		jd := truncateUTF8(strings.TrimSpace(jobDescription), maxRetrievalJobChars)
		return fmt.Sprintf("Tailoring a resume to job requirements and qualifications: %s", jd)
	}
}

// GuidelineCategories lists the guideline categories searched for mode, most specific first.
func GuidelineCategories(mode models.AnalysisMode) []string {
	switch mode {
	case models.ModeATSCompliance:
		return []string{CategoryATS, CategoryGeneral}
	default:
		return []string{CategoryJobMatch, CategoryGeneral}
	}
}

func scoreLabel(mode models.AnalysisMode) string {
	if mode == models.ModeATSCompliance {
		return "ATS Compliance Score"
	}
	return "Compatibility Score"
}

// FormatRAGContext renders retrieved guideline chunks for inclusion in a prompt.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Guideline %d (%s, score %.2f) ---\n%s",
			i+1, result.Source, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

// truncateUTF8 cuts s to at most maxBytes without splitting a rune.
func truncateUTF8(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
