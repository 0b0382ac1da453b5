package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"urbanplanner/internal/config"
	"urbanplanner/internal/gateway/app"
	"urbanplanner/internal/logging"
)

var (
	configPath string
	port       string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Serve the urban planning HTTP API",
	Long: `gateway exposes plan generation, layout generation, suggestions and the
local calculators over HTTP. It stops gracefully on SIGINT or SIGTERM.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&port, "port", "", "listen address, overrides server.port")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig reads the config file and applies the --port override.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if p := strings.TrimSpace(port); p != "" {
		if !strings.Contains(p, ":") {
			p = ":" + p
		}
		cfg.Server.Port = p
	}
	return cfg, nil
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := logging.New(verbose)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return err
	}

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", zap.Error(err))
		return err
	}

	go func() {
		if err := a.Start(); err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout())
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	logger.Info("server exiting")
	return nil
}
