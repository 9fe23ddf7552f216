package models

import "time"

type ExtractResponse struct {
	Filename  string `json:"filename"`
	MediaType string `json:"media_type"`
	Text      string `json:"text"`
}

type ParseFeedbackRequest struct {
	Text string `json:"text"`
}

type AnalyzeResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type AnalysisResultResponse struct {
	ID             string          `json:"id"`
	Mode           string          `json:"mode"`
	Status         string          `json:"status"`
	SourceFilename string          `json:"source_filename,omitempty"`
	Report         *AnalysisReport `json:"report,omitempty"`
	ErrorMessage   *string         `json:"error_message,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ListAnalysesResponse struct {
	Items  []AnalysisResultResponse `json:"items"`
	Total  int64                    `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type SkillsRequest struct {
	JobDescription string `json:"job_description"`
}

type SkillsResponse struct {
	Skills []string `json:"skills"`
}

type SaveVersionRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}
