package llm

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/retry"

	llmclient "urbanplanner/internal/llm/client"
)

// DefaultMaxAttempts matches the AWS "standard" retry mode used for Bedrock.
const DefaultMaxAttempts = 10

// RetryPolicy controls the Retry middleware. Zero fields take defaults.
type RetryPolicy struct {
	// MaxAttempts is the total number of calls, including the first.
	MaxAttempts int
	// Delay returns the wait before attempt+1, where attempt starts at 1.
	Delay func(attempt int, err error) time.Duration
	// Sleep waits for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy returns 10 attempts with exponential jitter backoff capped at 20s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{}.withDefaults()
}

// JitterBackoff returns the AWS exponential jitter backoff capped at maxBackoff.
func JitterBackoff(maxBackoff time.Duration) func(int, error) time.Duration {
	if maxBackoff <= 0 {
		maxBackoff = retry.DefaultMaxBackoff
	}
	b := retry.NewExponentialJitterBackoff(maxBackoff)
	return func(attempt int, err error) time.Duration {
		d, bErr := b.BackoffDelay(attempt, err)
		if bErr != nil {
			return maxBackoff
		}
		return d
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Delay == nil {
		p.Delay = JitterBackoff(retry.DefaultMaxBackoff)
	}
	if p.Sleep == nil {
		p.Sleep = sleepCtx
	}
	return p
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry re-invokes the wrapped client while it fails with a Transient
// ModelError, up to p.MaxAttempts calls in total. Other kinds return at once.
// Errors leaving the middleware are always *llmclient.ModelError.
func Retry(p RetryPolicy) Middleware {
	p = p.withDefaults()
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &retrying{next: next, policy: p}
	}
}

type retrying struct {
	next   llmclient.LLMClient
	policy RetryPolicy
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) Generate(ctx context.Context, inv llmclient.Invocation) (string, error) {
	var last *llmclient.ModelError
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", abortError(last, err)
		}
		text, err := r.next.Generate(ctx, inv)
		if err == nil {
			return text, nil
		}
		last = llmclient.Classify(err)
		if last.Kind != llmclient.Transient {
			return "", last
		}
		// A cancelled caller is not retried even though cancellation is transient.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", abortError(last, ctxErr)
		}
		if attempt == r.policy.MaxAttempts {
			break
		}
		if err := r.policy.Sleep(ctx, r.policy.Delay(attempt, err)); err != nil {
			return "", abortError(last, err)
		}
	}
	return "", last
}

func abortError(last *llmclient.ModelError, ctxErr error) *llmclient.ModelError {
	if last != nil {
		return &llmclient.ModelError{Kind: llmclient.Transient, Message: last.Message + " (aborted: " + ctxErr.Error() + ")", Err: ctxErr}
	}
	return llmclient.NewError(llmclient.Transient, ctxErr)
}
