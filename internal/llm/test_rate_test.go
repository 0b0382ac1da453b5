package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	llmclient "urbanplanner/internal/llm/client"
)

func TestRateLimit_ThrottlesAt2RPS_Burst1(t *testing.T) {
	cli := RateLimit(2, 1)(llmclient.NewFakeClient("{}"))
	defer cli.Close()

	ctx := context.Background()
	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := cli.Generate(ctx, llmclient.Invocation{Prompt: "p"})
		require.NoError(t, err)
	}
	// First call passes immediately; the second waits for a refill (~500ms).
	assert.GreaterOrEqual(t, time.Since(start), 450*time.Millisecond)
}

func TestRateLimit_DisabledReturnsInner(t *testing.T) {
	inner := llmclient.NewFakeClient("x")
	assert.Same(t, llmclient.LLMClient(inner), RateLimit(0, 5)(inner))
}

func TestRateLimit_CancelWhileWaiting(t *testing.T) {
	cli := RateLimit(0.1, 1)(llmclient.NewFakeClient("x"))
	defer cli.Close()

	_, err := cli.Generate(context.Background(), llmclient.Invocation{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = cli.Generate(ctx, llmclient.Invocation{})
	var mErr *llmclient.ModelError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, llmclient.Transient, mErr.Kind)
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := newRPSLimiter(100, 2)
	require.NotNil(t, l)
	l.Stop()
	l.Stop()
	assert.ErrorIs(t, l.Acquire(context.Background()), errLimiterStopped)
	assert.Nil(t, newRPSLimiter(0, 1))
}

func TestRateLimit_ClosedClientFailsWithoutRetry(t *testing.T) {
	fake := llmclient.NewFakeClient("x")
	policy := instantPolicy(5)
	var sleeps int
	policy.Sleep = func(context.Context, time.Duration) error {
		sleeps++
		return nil
	}
	mc := New(fake, WithRetryPolicy(policy), WithRateLimit(100, 1))
	require.NoError(t, mc.Close())

	_, err := mc.Invoke(context.Background(), "prompt")
	var mErr *llmclient.ModelError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, llmclient.Unknown, mErr.Kind)
	assert.ErrorIs(t, err, errLimiterStopped)
	assert.Equal(t, 0, fake.Calls())
	assert.Zero(t, sleeps, "a closed client is not retried")
}

func TestWithLogging_RecordsEachAttempt(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fake := llmclient.NewScriptedClient(
		llmclient.FakeStep{Err: transientErr},
		llmclient.FakeStep{Text: "done"},
	)
	mc := New(fake, WithRetryPolicy(instantPolicy(3)), WithLogger(zap.New(core)))

	_, err := mc.Invoke(context.Background(), "prompt")
	require.NoError(t, err)

	assert.Equal(t, 2, logs.FilterMessage("llm request").Len())
	warn := logs.FilterMessage("llm error").All()
	require.Len(t, warn, 1)
	assert.Equal(t, "transient", warn[0].ContextMap()["kind"])
	assert.Equal(t, "FakeClient", warn[0].ContextMap()["model"])
	assert.Equal(t, 1, logs.FilterMessage("llm response").Len())
}

func TestWrap_OrderLeftToRight(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(next llmclient.LLMClient) llmclient.LLMClient {
			return recorder(func(inv llmclient.Invocation) {
				order = append(order, name)
				_, _ = next.Generate(context.Background(), inv)
			})
		}
	}
	cli := Wrap(recorder(func(llmclient.Invocation) { order = append(order, "inner") }), tag("A"), nil, tag("B"))
	_, _ = cli.Generate(context.Background(), llmclient.Invocation{})
	assert.Equal(t, []string{"A", "B", "inner"}, order)
}
