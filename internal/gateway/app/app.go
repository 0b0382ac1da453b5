package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"urbanplanner/internal/config"
	"urbanplanner/internal/gateway/handler"
	"urbanplanner/internal/gateway/server"
	"urbanplanner/internal/llm"
	"urbanplanner/internal/planner"
)

type App struct {
	server *server.Server
	model  *llm.ModelClient
	cfg    *config.Config
}

// New builds the model client once and shares it across all requests.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	model, err := llm.NewFromConfig(ctx, cfg.ModelConfig(), logger.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}
	logger.Info("model client ready", zap.String("model", model.Name()))

	svc := planner.New(model,
		planner.WithLogger(logger.Named("planner")),
		planner.WithScoreCap(cfg.Analysis.ScoreCap),
	)
	h := handler.New(svc, cfg.Server.RequestTimeout, logger.Named("http"))
	srv := server.New(cfg.Server.Port, server.NewMux(h, logger.Named("http")), logger)

	return &App{server: srv, model: model, cfg: cfg}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

// Shutdown drains in-flight requests and then releases the model client.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.model.Close(); err == nil {
		err = cerr
	}
	return err
}

// ShutdownTimeout is the configured drain window.
func (a *App) ShutdownTimeout() time.Duration {
	return a.cfg.Server.ShutdownTimeout
}
