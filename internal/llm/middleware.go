package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	llmclient "urbanplanner/internal/llm/client"
)

// Middleware decorates an LLMClient to inject cross-cutting concerns
// (rate limiting, retries, logging).
type Middleware func(llmclient.LLMClient) llmclient.LLMClient

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.LLMClient, mws ...Middleware) llmclient.LLMClient {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] == nil {
			continue
		}
		out = mws[i](out)
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit throttles Generate calls with a token bucket.
// If rps <= 0, the limiter is disabled and the client is returned as is.
func RateLimit(rps float64, burst int) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		rl := newRPSLimiter(rps, burst)
		if rl == nil {
			return next
		}
		return &rateLimited{next: next, rl: rl}
	}
}

type rateLimited struct {
	next llmclient.LLMClient
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}
func (c *rateLimited) Generate(ctx context.Context, inv llmclient.Invocation) (string, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		if errors.Is(err, errLimiterStopped) {
			return "", &llmclient.ModelError{Kind: llmclient.Unknown, Message: "model client is closed", Err: err}
		}
		return "", llmclient.Classify(err)
	}
	return c.next.Generate(ctx, inv)
}

// -------- Logging --------

// WithLogging logs prompt size, latency and failures of every attempt.
// A nil logger disables logging.
func WithLogging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &logging{next: next, log: logger.With(zap.String("model", next.Name()))}
	}
}

type logging struct {
	next llmclient.LLMClient
	log  *zap.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }
func (l *logging) Generate(ctx context.Context, inv llmclient.Invocation) (string, error) {
	start := time.Now()
	l.log.Debug("llm request", zap.Int("prompt_bytes", len(inv.Prompt)))
	text, err := l.next.Generate(ctx, inv)
	elapsed := time.Since(start)
	if err != nil {
		kind := llmclient.Classify(err).Kind
		l.log.Warn("llm error",
			zap.Stringer("kind", kind),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return text, err
	}
	l.log.Debug("llm response",
		zap.Int("response_bytes", len(text)),
		zap.Duration("elapsed", elapsed),
	)
	return text, nil
}

// -------- Panic recovery --------

// Recover converts a panic inside the chain into an Unknown ModelError.
func Recover() Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &recovering{next: next}
	}
}

type recovering struct{ next llmclient.LLMClient }

func (r *recovering) Name() string { return r.next.Name() }
func (r *recovering) Close() error { return r.next.Close() }
func (r *recovering) Generate(ctx context.Context, inv llmclient.Invocation) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text = ""
			err = &llmclient.ModelError{Kind: llmclient.Unknown, Message: fmt.Sprintf("provider panic: %v", p)}
		}
	}()
	return r.next.Generate(ctx, inv)
}
