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
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticAWS(region string) aws.Config {
	return aws.Config{
		Region: region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret"}, nil
		}),
	}
}

func newTestBedrock(t *testing.T, h http.HandlerFunc) *BedrockClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cli, err := NewBedrockClientWithAWS(staticAWS("us-west-2"), BedrockConfig{
		ModelID:  "meta.llama3-70b-instruct-v1:0",
		Endpoint: srv.URL,
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)
	return cli
}

func TestBedrock_SendsSignedLlamaBody(t *testing.T) {
	var got llamaRequest
	var authz, path string
	cli := newTestBedrock(t, func(w http.ResponseWriter, r *http.Request) {
		authz = r.Header.Get("Authorization")
		path = r.URL.EscapedPath()
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = io.WriteString(w, `{"generation":"  a plan  ","stop_reason":"stop"}`)
	})

	text, err := cli.Generate(context.Background(), Invocation{Prompt: "plan a city"})
	require.NoError(t, err)
	assert.Equal(t, "  a plan  ", text, "generation is returned unmodified")
	assert.True(t, strings.HasPrefix(authz, "AWS4-HMAC-SHA256"), "authorization header: %q", authz)
	assert.Contains(t, authz, "/us-west-2/bedrock/aws4_request")
	assert.True(t, strings.HasPrefix(path, "/model/meta.llama3-70b-instruct-v1"), "path: %q", path)
	assert.True(t, strings.HasSuffix(path, "/invoke"), "path: %q", path)
	assert.Equal(t, "plan a city", got.Prompt)
	assert.Equal(t, 1024, got.MaxGenLen)
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	assert.InDelta(t, 0.9, got.TopP, 1e-9)
}

func TestBedrock_ZeroTemperatureIsSent(t *testing.T) {
	var got map[string]any
	cli := newTestBedrock(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		_, _ = io.WriteString(w, `{"generation":"ok"}`)
	})
	_, err := cli.Generate(context.Background(), Invocation{
		Prompt:   "p",
		Sampling: Sampling{MaxTokens: 64, Temperature: 0, TopP: 0.9},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 0, got["temperature"])
	assert.EqualValues(t, 64, got["max_gen_len"])
}

func TestBedrock_StatusClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusTooManyRequests, Transient},
		{http.StatusServiceUnavailable, Transient},
		{http.StatusForbidden, Auth},
		{http.StatusBadRequest, InvalidRequest},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			cli := newTestBedrock(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, `{"message":"nope"}`)
			})
			_, err := cli.Generate(context.Background(), Invocation{Prompt: "p"})
			require.Error(t, err)
			var mErr *ModelError
			require.ErrorAs(t, err, &mErr)
			assert.Equal(t, tc.kind, mErr.Kind)
			assert.Contains(t, mErr.Message, "nope")
			var sErr *StatusError
			require.ErrorAs(t, err, &sErr)
			assert.Equal(t, tc.status, sErr.Code)
		})
	}
}

func TestBedrock_SingleAttemptPerGenerate(t *testing.T) {
	var hits atomic.Int32
	cli := newTestBedrock(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"message":"warming up"}`)
	})
	_, err := cli.Generate(context.Background(), Invocation{Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "sdk retries are disabled")
}

func TestBedrock_MissingGeneration(t *testing.T) {
	cli := newTestBedrock(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"stop_reason":"stop"}`)
	})
	_, err := cli.Generate(context.Background(), Invocation{Prompt: "p"})
	var mErr *ModelError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, Unknown, mErr.Kind)
}

func TestBedrock_RequiresModelAndRegion(t *testing.T) {
	_, err := NewBedrockClientWithAWS(staticAWS("us-east-1"), BedrockConfig{})
	assert.Error(t, err)
	_, err = NewBedrockClientWithAWS(staticAWS(""), BedrockConfig{ModelID: "m"})
	assert.Error(t, err)
}
