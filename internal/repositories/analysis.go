package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-analyzer/internal/models"
)

var (
	ErrAnalysisNotFound  = errors.New("analysis not found")
	ErrAnalysisNotQueued = errors.New("analysis is not queued")
)

type AnalysisRepository interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	List(ctx context.Context, limit, offset int) ([]models.Analysis, int64, error)
	ClaimQueued(ctx context.Context, id uuid.UUID) error
	UpdateResult(ctx context.Context, id uuid.UUID, report models.AnalysisReport, raw string) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	FindPendingJobs(ctx context.Context, limit int) ([]models.Analysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	if err := r.db.WithContext(ctx).Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

// List returns the newest analyses first, together with the total count.
func (r *analysisRepository) List(ctx context.Context, limit, offset int) ([]models.Analysis, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Analysis{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count analyses: %w", err)
	}

	var analyses []models.Analysis
	err := r.db.WithContext(ctx).
		Omit("resume_text", "job_description", "raw_response").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&analyses).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list analyses: %w", err)
	}

	return analyses, total, nil
}

// ClaimQueued moves a queued analysis to processing. Only one caller can win the claim;
// the others get ErrAnalysisNotQueued.
func (r *analysisRepository) ClaimQueued(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Analysis{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to claim analysis: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAnalysisNotQueued
	}

	return nil
}

// UpdateResult completes an analysis. Score, report and raw response are written in one
// statement so a score never appears without its feedback.
func (r *analysisRepository) UpdateResult(ctx context.Context, id uuid.UUID, report models.AnalysisReport, raw string) error {
	result := r.db.WithContext(ctx).Model(&models.Analysis{}).
		Where("id = ?", id).
		Select("status", "score", "report", "raw_response", "updated_at").
		Updates(&models.Analysis{
			Status:      models.StatusCompleted,
			Score:       report.Score,
			Report:      &report,
			RawResponse: &raw,
			UpdatedAt:   time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}

	return nil
}

func (r *analysisRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	result := r.db.WithContext(ctx).Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}

	return nil
}

func (r *analysisRepository) FindPendingJobs(ctx context.Context, limit int) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.WithContext(ctx).
		Select("id").
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return analyses, nil
}
