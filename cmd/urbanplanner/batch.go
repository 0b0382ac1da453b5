package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"urbanplanner/internal/planner"
	"urbanplanner/internal/planning"
)

const (
	actionPlan   = "plan"
	actionLayout = "layout"
)

// batchFile is the YAML document accepted by `urbanplanner batch`.
type batchFile struct {
	Concurrency int         `yaml:"concurrency"`
	Requests    []batchItem `yaml:"requests"`
}

type batchItem struct {
	ID      string                   `yaml:"id"`
	Action  string                   `yaml:"action"`
	Request planning.PlanningRequest `yaml:"request"`
}

// batchResult is one JSON line of output.
type batchResult struct {
	ID      string      `json:"id"`
	Action  string      `json:"action"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
	Outcome string      `json:"outcome,omitempty"`
}

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Run many independent planning requests concurrently, printing JSON lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		bf, err := loadBatch(f)
		if err != nil {
			return err
		}
		if batchConcurrency > 0 {
			bf.Concurrency = batchConcurrency
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()
		failed, err := runBatch(ctx, s.svc, bf, cmd.OutOrStdout(), s.log)
		if err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d requests failed", failed, len(bf.Requests))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "parallel requests (overrides the file)")
}

func loadBatch(r io.Reader) (*batchFile, error) {
	var bf batchFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&bf); err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	if len(bf.Requests) == 0 {
		return nil, fmt.Errorf("batch file has no requests")
	}
	for i := range bf.Requests {
		it := &bf.Requests[i]
		if it.ID == "" {
			it.ID = fmt.Sprintf("request-%d", i+1)
		}
		if it.Action == "" {
			it.Action = actionPlan
		}
		if it.Action != actionPlan && it.Action != actionLayout {
			return nil, fmt.Errorf("request %s: unknown action %q", it.ID, it.Action)
		}
	}
	if bf.Concurrency < 1 {
		bf.Concurrency = 4
	}
	return &bf, nil
}

// batchPlanner is the part of *planner.Service the batch runner drives.
type batchPlanner interface {
	GeneratePlan(ctx context.Context, req planning.PlanningRequest) (*planner.PlanReport, error)
	AnalyzeLayout(ctx context.Context, req planning.PlanningRequest) (*planner.LayoutReport, error)
}

// runBatch dispatches every request as its own session. A failed request is
// reported on its line and does not stop the others. Lines are written in
// completion order.
func runBatch(ctx context.Context, svc batchPlanner, bf *batchFile, w io.Writer, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		mu     sync.Mutex
		failed int
		enc    = json.NewEncoder(w)
	)
	enc.SetEscapeHTML(false)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bf.Concurrency)
	for _, it := range bf.Requests {
		g.Go(func() error {
			res := batchResult{ID: it.ID, Action: it.Action}
			var err error
			switch it.Action {
			case actionLayout:
				res.Result, err = svc.AnalyzeLayout(gctx, it.Request)
			default:
				res.Result, err = svc.GeneratePlan(gctx, it.Request)
			}
			if err != nil {
				res.Result = nil
				res.Error = err.Error()
				res.Outcome = outcomeOf(err).String()
				logger.Warn("batch request failed", zap.String("id", it.ID), zap.Error(err))
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
			}
			return enc.Encode(res)
		})
	}
	err := g.Wait()
	return failed, err
}
