package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	llmclient "urbanplanner/internal/llm/client"
)

// Options configures a ModelClient. The zero value yields default sampling,
// the default retry policy, no rate limit and no logging.
type Options struct {
	Sampling llmclient.Sampling
	Retry    RetryPolicy
	RPS      float64
	Burst    int
	Logger   *zap.Logger
}

// Option mutates Options.
type Option func(*Options)

func WithSampling(s llmclient.Sampling) Option { return func(o *Options) { o.Sampling = s } }
func WithRetryPolicy(p RetryPolicy) Option    { return func(o *Options) { o.Retry = p } }
func WithRateLimit(rps float64, burst int) Option {
	return func(o *Options) { o.RPS, o.Burst = rps, burst }
}
func WithLogger(l *zap.Logger) Option { return func(o *Options) { o.Logger = l } }

// ModelClient sends prompts to a provider through the retry, rate-limit and
// logging chain. It holds no per-request state and is safe for concurrent use.
type ModelClient struct {
	chain    llmclient.LLMClient
	sampling llmclient.Sampling
}

// New decorates client. Order, outermost first: Retry, RateLimit,
// WithLogging, Recover, so each attempt is throttled and logged individually.
func New(client llmclient.LLMClient, opts ...Option) *ModelClient {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	chain := Wrap(client,
		Retry(o.Retry),
		RateLimit(o.RPS, o.Burst),
		WithLogging(o.Logger),
		Recover(),
	)
	return &ModelClient{chain: chain, sampling: o.Sampling.WithDefaults()}
}

// Name reports the underlying provider.
func (m *ModelClient) Name() string { return m.chain.Name() }

// Close releases the provider and any limiter goroutine.
func (m *ModelClient) Close() error { return m.chain.Close() }

// Sampling returns the parameters sent with every invocation.
func (m *ModelClient) Sampling() llmclient.Sampling { return m.sampling }

// Invoke sends prompt once per attempt and returns the generated text
// unmodified. Failures are always *llmclient.ModelError.
func (m *ModelClient) Invoke(ctx context.Context, prompt string) (string, error) {
	text, err := m.chain.Generate(ctx, llmclient.Invocation{Prompt: prompt, Sampling: m.sampling})
	if err != nil {
		return "", llmclient.Classify(err)
	}
	return text, nil
}

// Config is the provider plus policy settings loaded from configuration.
type Config struct {
	Provider    llmclient.ProviderConfig
	Sampling    llmclient.Sampling
	MaxAttempts int
	MaxBackoff  time.Duration
	RPS         float64
	Burst       int
}

// NewFromConfig builds the provider named in cfg and decorates it.
func NewFromConfig(ctx context.Context, cfg Config, logger *zap.Logger) (*ModelClient, error) {
	client, err := llmclient.New(ctx, cfg.Provider)
	if err != nil {
		return nil, err
	}
	return New(client,
		WithSampling(cfg.Sampling),
		WithRetryPolicy(RetryPolicy{MaxAttempts: cfg.MaxAttempts, Delay: JitterBackoff(cfg.MaxBackoff)}),
		WithRateLimit(cfg.RPS, cfg.Burst),
		WithLogger(logger),
	), nil
}
