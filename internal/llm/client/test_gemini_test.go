package llmclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

func newTestGemini(t *testing.T, h http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cli, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	return cli
}

func TestGemini_GeneratesText(t *testing.T) {
	var req map[string]any
	var path string
	cli := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"green "},{"text":"city"}]}}]}`)
	})

	text, err := cli.Generate(context.Background(), Invocation{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "green city", text)
	assert.True(t, strings.HasSuffix(path, "/models/gemini-2.5-flash:generateContent"), "path: %q", path)
	gen, ok := req["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig in %v", req)
	assert.EqualValues(t, 1024, gen["maxOutputTokens"])
}

func TestGemini_StatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   ErrorKind
	}{
		{"unauthenticated", http.StatusUnauthorized,
			`{"error":{"code":401,"message":"API key not valid","status":"UNAUTHENTICATED"}}`, Auth},
		{"unavailable", http.StatusServiceUnavailable, "model overloaded", Transient},
		{"bad request", http.StatusBadRequest,
			`{"error":{"code":400,"message":"bad field","status":"INVALID_ARGUMENT"}}`, InvalidRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var hits atomic.Int32
			cli := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			})
			_, err := cli.Generate(context.Background(), Invocation{Prompt: "p"})
			var mErr *ModelError
			require.ErrorAs(t, err, &mErr)
			assert.Equal(t, tc.kind, mErr.Kind)
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestClassifyGemini_ValueAndPointer(t *testing.T) {
	var mErr *ModelError
	require.ErrorAs(t, classifyGemini(genai.APIError{Code: 401}), &mErr)
	assert.Equal(t, Auth, mErr.Kind)
	require.ErrorAs(t, classifyGemini(&genai.APIError{Code: 503}), &mErr)
	assert.Equal(t, Transient, mErr.Kind)
	require.ErrorAs(t, classifyGemini(context.DeadlineExceeded), &mErr)
	assert.Equal(t, Transient, mErr.Kind)
}
