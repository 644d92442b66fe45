package suggest

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider generates text with one Gemini model.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGemini builds one provider per model, in order, sharing a client.
// It returns a nil chain when apiKey is empty.
func NewGemini(ctx context.Context, apiKey string, models []string) (*Chain, error) {
	if apiKey == "" || len(models) == 0 {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	providers := make([]Provider, 0, len(models))
	for _, m := range models {
		providers = append(providers, &GeminiProvider{client: client, model: m})
	}
	return NewChain(providers...), nil
}

func (g *GeminiProvider) Name() string {
	return g.model
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
