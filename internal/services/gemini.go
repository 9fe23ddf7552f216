package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	geminiEmbedModel   = "text-embedding-004"

	// text-embedding-004 accepts roughly 10k tokens
	maxEmbeddingChars = 40000
)

type GeminiService struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

// NewGeminiService returns a generator that is also an Embedder.
func NewGeminiService(ctx context.Context, apiKey, model string) (*GeminiService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{
		client:     client,
		modelName:  model,
		embedModel: geminiEmbedModel,
	}, nil
}

// GenerateEmbedding implements Embedder.
func (g *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateUTF8(text, maxEmbeddingChars)

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, ErrEmbeddingsAbsent
	}

	return result.Embeddings[0].Values, nil
}

// GenerateText implements ReportGenerator.
func (g *GeminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 4096,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
			log.Printf("❌ Gemini returned no text (finish reason: %s)\n", resp.Candidates[0].FinishReason)
		}
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	log.Printf("📊 Gemini response received: %d characters\n", len(text))
	return text, nil
}
