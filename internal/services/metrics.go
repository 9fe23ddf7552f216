package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// Analysis outcomes recorded by AnalyzerMetrics.
const (
	outcomeScored   = "scored"
	outcomeUnscored = "unscored"
	outcomeEmpty    = "empty"
	outcomeFailed   = "failed"
)

// AnalyzerMetrics counts finished analyses by mode and outcome. A nil *AnalyzerMetrics
// records nothing.
type AnalyzerMetrics struct {
	analyses *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewAnalyzerMetrics(reg prometheus.Registerer) (*AnalyzerMetrics, error) {
	m := &AnalyzerMetrics{
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_analyses_total",
				Help: "Total number of resume analyses finished, by mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resume_analysis_duration_seconds",
				Help:    "Time spent generating and parsing one resume analysis.",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"mode"},
		),
	}

	if err := reg.Register(m.analyses); err != nil {
		return nil, err
	}
	if err := reg.Register(m.duration); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *AnalyzerMetrics) observe(mode models.AnalysisMode, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(string(mode), outcome).Inc()
	m.duration.WithLabelValues(string(mode)).Observe(elapsed.Seconds())
}

func reportOutcome(report models.AnalysisReport) string {
	switch {
	case report.Score != nil:
		return outcomeScored
	case report.HasFeedback():
		return outcomeUnscored
	default:
		return outcomeEmpty
	}
}
