package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/lunaapp/luna-backend/internal/observability"
)

// GeminiClient implements domain.CompletionProvider over the Gemini API.
// It generates for whatever model it is asked; candidate ordering and
// fallback live in the chat core.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, model string, prompt string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if res.UsageMetadata != nil {
		observability.LoggerFromContext(ctx).Debug("token usage",
			"model", model,
			"input", res.UsageMetadata.PromptTokenCount,
			"output", res.UsageMetadata.CandidatesTokenCount,
			"total", res.UsageMetadata.TotalTokenCount,
		)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text for model %s", model)
	}
	return text, nil
}
