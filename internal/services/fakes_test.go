package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	args := m.Called(ctx, prompt, temperature)
	return args.String(0), args.Error(1)
}

type mockEmbedder struct {
	mock.Mock
}

func (m *mockEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type mockGuidelines struct {
	mock.Mock
}

func (m *mockGuidelines) InitCollection(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockGuidelines) UpsertGuideline(ctx context.Context, chunk GuidelineChunk, embedding []float32) error {
	return m.Called(ctx, chunk, embedding).Error(0)
}

func (m *mockGuidelines) SearchGuidelines(ctx context.Context, queryEmbedding []float32, category string, limit int) ([]SearchResult, error) {
	args := m.Called(ctx, queryEmbedding, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SearchResult), args.Error(1)
}

func (m *mockGuidelines) DeleteSource(ctx context.Context, source string) error {
	return m.Called(ctx, source).Error(0)
}
