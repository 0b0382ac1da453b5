package llmclient

import (
	"context"
	"errors"
	"os"

	genai "google.golang.org/genai"
)

// GeminiConfig configures the Gemini client. An empty APIKey falls back to GEMINI_API_KEY.
type GeminiConfig struct {
	Model   string
	APIKey  string
	BaseURL string
}

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Cross-cutting concerns
// (rate limiting, retries, logging) are applied via Middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cc := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// Generate sends the prompt as a single user turn and concatenates the text parts.
func (g *GeminiClient) Generate(ctx context.Context, inv Invocation) (string, error) {
	s := inv.Sampling.WithDefaults()
	temp := float32(s.Temperature)
	topP := float32(s.TopP)
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		genai.Text(inv.Prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(s.MaxTokens),
			Temperature:     &temp,
			TopP:            &topP,
		},
	)
	if err != nil {
		return "", classifyGemini(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", NewError(Unknown, errors.New("gemini: response has no candidates"))
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text, nil
}

func classifyGemini(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return NewError(KindFromStatus(apiErr.Code), err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return NewError(KindFromStatus(apiErrPtr.Code), err)
	}
	return Classify(err)
}
