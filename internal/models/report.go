package models

// Section is a labeled critique of one part of the resume.
type Section struct {
	Label  string `json:"label"`
	Detail string `json:"detail"`
}

// AnalysisReport is the structured form of a free-text analysis. Score is nil when the
// source text carried no usable score; zero is a real score.
type AnalysisReport struct {
	Score         *int      `json:"score"`
	Sections      []Section `json:"sections"`
	GeneralAdvice []string  `json:"general_advice"`
}

// NewAnalysisReport returns an empty report with non-nil sequences.
func NewAnalysisReport() AnalysisReport {
	return AnalysisReport{
		Sections:      []Section{},
		GeneralAdvice: []string{},
	}
}

// HasFeedback reports whether the report carries anything a caller can show.
func (r AnalysisReport) HasFeedback() bool {
	return r.Score != nil || len(r.Sections) > 0 || len(r.GeneralAdvice) > 0
}
