package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

type openAIService struct {
	client openai.Client
	model  string
}

func NewOpenAIService(apiKey, model string) (ReportGenerator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}
	if model == "" {
		model = defaultOpenAIModel
	}

	return &openAIService{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// GenerateText implements ReportGenerator.
func (o *openAIService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature:         openai.Float(float64(temperature)),
		MaxCompletionTokens: openai.Int(4096),
	})
	if err != nil {
		log.Printf("❌ OpenAI API error: %v\n", err)
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyResponse)
	}

	text := resp.Choices[0].Message.Content
	log.Printf("📊 OpenAI response received: %d characters\n", len(text))
	return text, nil
}
