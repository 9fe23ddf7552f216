package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Analysis), args.Error(1)
}

func (m *MockAnalysisRepository) List(ctx context.Context, limit, offset int) ([]models.Analysis, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Analysis), args.Get(1).(int64), args.Error(2)
}

func (m *MockAnalysisRepository) ClaimQueued(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnalysisRepository) UpdateResult(ctx context.Context, id uuid.UUID, report models.AnalysisReport, raw string) error {
	args := m.Called(ctx, id, report, raw)
	return args.Error(0)
}

func (m *MockAnalysisRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	args := m.Called(ctx, id, errorMsg)
	return args.Error(0)
}

func (m *MockAnalysisRepository) FindPendingJobs(ctx context.Context, limit int) ([]models.Analysis, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Analysis), args.Error(1)
}
