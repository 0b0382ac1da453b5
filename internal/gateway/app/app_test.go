package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanplanner/internal/config"
	"urbanplanner/internal/gateway/handler"
	"urbanplanner/internal/gateway/middleware"
	"urbanplanner/internal/gateway/server"
	"urbanplanner/internal/llm"
	llmclient "urbanplanner/internal/llm/client"
	"urbanplanner/internal/planner"
)

func fakeConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:    llmclient.ProviderFake,
			MaxAttempts: 1,
		},
		Server: config.ServerConfig{
			Port:            "127.0.0.1:0",
			RequestTimeout:  time.Second,
			ShutdownTimeout: time.Second,
		},
	}
}

func TestNew_WiresFakeProvider(t *testing.T) {
	a, err := New(context.Background(), fakeConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, "FakeClient", a.model.Name())
	assert.Equal(t, time.Second, a.ShutdownTimeout())
	require.NoError(t, a.Shutdown(context.Background()))
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := fakeConfig()
	cfg.LLM.Provider = "nope"
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestServer_ServesOverTCP(t *testing.T) {
	mc := llm.New(llmclient.NewFakeClient("green plan"))
	h := handler.New(planner.New(mc), time.Second, nil)
	srv := server.New("", server.NewMux(h, nil), nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	body := `{"land_area":10,"current_population":1000,"zoning":"Residential","existing_infrastructure":"none",
		"sustainability_goals":["green"],"budget":5}`
	resp, err := http.Post("http://"+ln.Addr().String()+"/generate_plan", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.EqualValues(t, 25, out["sustainability_score"])

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, <-errCh)
}
