package llmclient

import "context"

// Sampling holds the generation parameters sent with every invocation.
type Sampling struct {
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	TopP        float64 `json:"top_p" mapstructure:"top_p"`
}

// DefaultSampling returns the fixed defaults: 1024 tokens, temperature 0.7, top_p 0.9.
func DefaultSampling() Sampling {
	return Sampling{MaxTokens: 1024, Temperature: 0.7, TopP: 0.9}
}

// WithDefaults returns DefaultSampling for an unset (zero) Sampling. A set
// Sampling keeps its Temperature and TopP as given, so 0 stays greedy
// decoding; only a non-positive MaxTokens is replaced.
func (s Sampling) WithDefaults() Sampling {
	if s == (Sampling{}) {
		return DefaultSampling()
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultSampling().MaxTokens
	}
	return s
}

// Invocation is a single prompt plus its sampling parameters. It is not
// retained after the call returns.
type Invocation struct {
	Prompt   string
	Sampling Sampling
}

// LLMClient defines the interface for inference providers. Implementations
// perform exactly one network call per Generate and leave retries, rate
// limiting and logging to middleware.
type LLMClient interface {
	Name() string
	Close() error
	// Generate returns the raw generated text, unmodified.
	Generate(ctx context.Context, inv Invocation) (string, error)
}
