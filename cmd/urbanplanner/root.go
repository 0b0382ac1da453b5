package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"urbanplanner/internal/config"
	"urbanplanner/internal/llm"
	"urbanplanner/internal/logging"
	"urbanplanner/internal/planner"
)

var (
	configPath   string
	providerName string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "urbanplanner",
	Short: "Generate and analyse urban development plans with a language model",
	Long: `urbanplanner turns planning parameters (land area, population, zoning,
infrastructure, sustainability goals, budget) into model-generated development
plans and city layouts, then scores and analyses them with simple heuristics.

The calculators (growth, cost, model) run locally and never call the model.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (default ./urbanplanner.yaml)")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "model provider: bedrock, anthropic, gemini or fake")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(layoutCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(growthCmd)
	rootCmd.AddCommand(costCmd)
	rootCmd.AddCommand(modelCmd)
}

// session bundles what model-backed commands need. close releases the model client.
type session struct {
	svc   *planner.Service
	log   *zap.Logger
	cfg   *config.Config
	close func()
}

func openSession(ctx context.Context) (*session, error) {
	logger, err := logging.New(verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if providerName != "" {
		cfg.LLM.Provider = providerName
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	model, err := llm.NewFromConfig(ctx, cfg.ModelConfig(), logger.Named("llm"))
	if err != nil {
		return nil, fmt.Errorf("initializing model client: %w", err)
	}
	svc := planner.New(model,
		planner.WithLogger(logger.Named("planner")),
		planner.WithScoreCap(cfg.Analysis.ScoreCap),
	)
	return &session{
		svc: svc,
		log: logger,
		cfg: cfg,
		close: func() {
			_ = model.Close()
			_ = logger.Sync()
		},
	}, nil
}
