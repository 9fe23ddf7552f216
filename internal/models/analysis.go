package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued     AnalysisStatus = "queued"
	StatusProcessing AnalysisStatus = "processing"
	StatusCompleted  AnalysisStatus = "completed"
	StatusFailed     AnalysisStatus = "failed"
)

type AnalysisMode string

const (
	ModeJobCompatibility AnalysisMode = "job_compatibility"
	ModeATSCompliance    AnalysisMode = "ats_compliance"
)

var (
	ErrModeRequired = errors.New("analysis mode is required")
	ErrModeInvalid  = errors.New("analysis mode is invalid")
)

// ParseAnalysisMode normalizes a mode string. Dashes, spaces and case are ignored, and the
// short forms used by older clients are accepted.
func ParseAnalysisMode(raw string) (AnalysisMode, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", ErrModeRequired
	}
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)

	switch normalized {
	case string(ModeJobCompatibility), "job_match", "compatibility":
		return ModeJobCompatibility, nil
	case string(ModeATSCompliance), "ats":
		return ModeATSCompliance, nil
	default:
		return "", ErrModeInvalid
	}
}

// RequiresJobDescription reports whether the mode compares against a job description.
func (m AnalysisMode) RequiresJobDescription() bool {
	return m == ModeJobCompatibility
}

type Analysis struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Mode           AnalysisMode    `gorm:"type:text;not null" json:"mode"`
	Status         AnalysisStatus  `gorm:"not null;default:'queued'" json:"status"`
	SourceFilename string          `gorm:"type:text" json:"source_filename"`
	ResumeText     string          `gorm:"type:text;not null" json:"-"`
	JobDescription string          `gorm:"type:text" json:"-"`
	Score          *int            `gorm:"type:smallint" json:"score"`
	Report         *AnalysisReport `gorm:"type:jsonb;serializer:json" json:"report,omitempty"`
	RawResponse    *string         `gorm:"type:text" json:"-"`
	ErrorMessage   *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Analysis) TableName() string {
	return "analyses"
}
