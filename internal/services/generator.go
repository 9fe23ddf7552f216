package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

var (
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrEmptyResponse    = errors.New("no text content in response")
	ErrUnknownProvider  = errors.New("unknown LLM provider")
	ErrMissingAPIKey    = errors.New("API key is required")
	ErrEmbeddingsAbsent = errors.New("embedding result is empty")
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// ReportGenerator produces free text for a prompt. Implementations wrap a hosted model.
type ReportGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

// Embedder turns text into a vector for the guideline library.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type GeneratorConfig struct {
	Provider     string
	Model        string
	GeminiAPIKey string
	OpenAIAPIKey string
}

// NewReportGenerator picks the backend named by cfg.Provider. An empty provider means Gemini.
func NewReportGenerator(ctx context.Context, cfg GeneratorConfig) (ReportGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		gemini, err := NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return gemini, nil
	case ProviderOpenAI:
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// GenerateWithRetry calls gen until it succeeds, the attempts run out or ctx is done.
func GenerateWithRetry(ctx context.Context, gen ReportGenerator, prompt string, temperature float32, policy RetryPolicy) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	maxAttempts := policy.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	b := backoff.NewExponentialBackOff()
	if policy.InitialDelay > 0 {
		b.InitialInterval = policy.InitialDelay
	}

	attempt := 0
	operation := func() (string, error) {
		attempt++
		text, err := gen.GenerateText(ctx, prompt, temperature)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", backoff.Permanent(ctxErr)
			}
			return "", err
		}
		return text, nil
	}

	notify := func(err error, wait time.Duration) {
		log.Printf("⚠️  Attempt %d failed: %v. Retrying in %s...\n", attempt, err, wait)
	}

	text, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithNotify(notify),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("context cancelled: %w", ctxErr)
		}
		return "", fmt.Errorf("failed after %d attempts: %w", attempt, err)
	}

	return text, nil
}
