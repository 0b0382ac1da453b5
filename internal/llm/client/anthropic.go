package llmclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

// AnthropicConfig configures the Claude client. With UseBedrock set, requests
// go through Amazon Bedrock and APIKey is ignored.
type AnthropicConfig struct {
	Model      string
	APIKey     string
	BaseURL    string
	UseBedrock bool
	Region     string
	Profile    string
}

// AnthropicClient calls the Claude Messages API.
type AnthropicClient struct {
	inner anthropic.Client
	model anthropic.Model
}

func NewAnthropicClient(ctx context.Context, cfg AnthropicConfig) (*AnthropicClient, error) {
	// Retries are owned by the Retry middleware.
	opts := []option.RequestOption{option.WithMaxRetries(0)}

	if cfg.UseBedrock {
		var loadOpts []func(*config.LoadOptions) error
		if cfg.Region != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
		}
		if cfg.Profile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic: ANTHROPIC_API_KEY is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := anthropic.Model(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	return &AnthropicClient{inner: anthropic.NewClient(opts...), model: model}, nil
}

func (c *AnthropicClient) Name() string { return "Anthropic:" + string(c.model) }
func (c *AnthropicClient) Close() error { return nil }

func (c *AnthropicClient) Generate(ctx context.Context, inv Invocation) (string, error) {
	s := inv.Sampling.WithDefaults()
	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   int64(s.MaxTokens),
		Temperature: anthropic.Float(s.Temperature),
		TopP:        anthropic.Float(s.TopP),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(inv.Prompt)),
		},
	})
	if err != nil {
		return "", classifyAnthropic(err)
	}
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func classifyAnthropic(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return NewError(KindFromStatus(apiErr.StatusCode), err)
	}
	return Classify(err)
}
