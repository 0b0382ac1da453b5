package llmclient

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Provider names accepted by New.
const (
	ProviderBedrock   = "bedrock"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderFake      = "fake"
)

// DefaultLlamaModelID is the Bedrock model used when none is configured.
const DefaultLlamaModelID = "meta.llama3-70b-instruct-v1:0"

// ProviderConfig is the union of settings for every provider. Only the
// fields relevant to Provider are read.
type ProviderConfig struct {
	Provider   string        `mapstructure:"provider"`
	Model      string        `mapstructure:"model"`
	Region     string        `mapstructure:"region"`
	Profile    string        `mapstructure:"profile"`
	Endpoint   string        `mapstructure:"endpoint"`
	APIKey     string        `mapstructure:"api_key"`
	UseBedrock bool          `mapstructure:"use_bedrock"`
	Timeout    time.Duration `mapstructure:"timeout"`
	// FakeResponses are replayed in order by the fake provider.
	FakeResponses []string `mapstructure:"fake_responses"`
}

// ClientFactory builds a provider client.
type ClientFactory func(ctx context.Context, cfg ProviderConfig) (LLMClient, error)

var factories = map[string]ClientFactory{
	ProviderBedrock: func(ctx context.Context, cfg ProviderConfig) (LLMClient, error) {
		model := cfg.Model
		if model == "" {
			model = DefaultLlamaModelID
		}
		return NewBedrockClient(ctx, BedrockConfig{
			Region:   cfg.Region,
			Profile:  cfg.Profile,
			ModelID:  model,
			Endpoint: cfg.Endpoint,
			Timeout:  cfg.Timeout,
		})
	},
	ProviderAnthropic: func(ctx context.Context, cfg ProviderConfig) (LLMClient, error) {
		return NewAnthropicClient(ctx, AnthropicConfig{
			Model:      cfg.Model,
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.Endpoint,
			UseBedrock: cfg.UseBedrock,
			Region:     cfg.Region,
			Profile:    cfg.Profile,
		})
	},
	ProviderGemini: func(ctx context.Context, cfg ProviderConfig) (LLMClient, error) {
		return NewGeminiClient(ctx, GeminiConfig{Model: cfg.Model, APIKey: cfg.APIKey, BaseURL: cfg.Endpoint})
	},
	ProviderFake: func(_ context.Context, cfg ProviderConfig) (LLMClient, error) {
		return NewFakeClient(cfg.FakeResponses...), nil
	},
}

// Providers lists the registered provider names in sorted order.
func Providers() []string {
	out := make([]string, 0, len(factories))
	for name := range factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// New builds the client named by cfg.Provider. An empty provider selects Bedrock.
func New(ctx context.Context, cfg ProviderConfig) (LLMClient, error) {
	name := normalizeProvider(cfg.Provider, ProviderBedrock)
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown llm provider %q (want one of %s)", cfg.Provider, strings.Join(Providers(), ", "))
	}
	return factory(ctx, cfg)
}

func normalizeProvider(name, fallback string) string {
	p := strings.ToLower(strings.TrimSpace(name))
	if p == "" {
		return fallback
	}
	return p
}
