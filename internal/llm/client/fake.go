package llmclient

import (
	"context"
	"sync"
)

// FakeStep is one scripted outcome of FakeClient.Generate.
type FakeStep struct {
	Text string
	Err  error
}

// FakeClient replays scripted steps in order. Once the script is exhausted
// the last step repeats. With no steps it returns an empty string.
type FakeClient struct {
	mu      sync.Mutex
	steps   []FakeStep
	calls   int
	prompts []string
}

// NewFakeClient scripts a sequence of successful responses.
func NewFakeClient(responses ...string) *FakeClient {
	steps := make([]FakeStep, len(responses))
	for i, r := range responses {
		steps[i] = FakeStep{Text: r}
	}
	return &FakeClient{steps: steps}
}

// NewScriptedClient scripts a sequence mixing responses and errors.
func NewScriptedClient(steps ...FakeStep) *FakeClient {
	return &FakeClient{steps: append([]FakeStep(nil), steps...)}
}

func (f *FakeClient) Name() string { return "FakeClient" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) Generate(ctx context.Context, inv Invocation) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	f.calls++
	f.prompts = append(f.prompts, inv.Prompt)
	if len(f.steps) == 0 {
		return "", nil
	}
	if idx >= len(f.steps) {
		idx = len(f.steps) - 1
	}
	step := f.steps[idx]
	return step.Text, step.Err
}

// Calls reports how many times Generate ran.
func (f *FakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// Prompts returns every prompt received, in order.
func (f *FakeClient) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}
