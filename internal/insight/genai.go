package insight

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

// GenAIGenerator calls Gemini generateContent with the sampling settings the
// widget has always used.
type GenAIGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
	topP        float32
}

func NewGenAIGenerator(ctx context.Context, apiKey, model string) (*GenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("insight: api key is required: %w", ErrNotConfigured)
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("insight: create genai client: %w", err)
	}
	return &GenAIGenerator{
		client:      client,
		model:       model,
		temperature: 0.7,
		topP:        0.95,
	}, nil
}

func (g *GenAIGenerator) Model() string {
	return g.model
}

func (g *GenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(g.temperature),
			TopP:        genai.Ptr(g.topP),
		},
	)
	if err != nil {
		return "", fmt.Errorf("insight: generate content: %w", err)
	}
	return resp.Text(), nil
}
