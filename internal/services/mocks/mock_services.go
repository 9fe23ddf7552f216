package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type MockDocumentExtractor struct {
	mock.Mock
}

func (m *MockDocumentExtractor) Extract(ctx context.Context, doc models.UploadedDocument) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

type MockAnalyzerService struct {
	mock.Mock
}

func (m *MockAnalyzerService) Analyze(ctx context.Context, analysisID uuid.UUID) error {
	args := m.Called(ctx, analysisID)
	return args.Error(0)
}

func (m *MockAnalyzerService) ExtractSkills(ctx context.Context, jobDescription string) ([]string, error) {
	args := m.Called(ctx, jobDescription)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockWorker struct {
	mock.Mock
}

func (m *MockWorker) Start(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockWorker) Stop() {
	m.Called()
}

func (m *MockWorker) EnqueueJob(analysisID uuid.UUID) bool {
	args := m.Called(analysisID)
	return args.Bool(0)
}
