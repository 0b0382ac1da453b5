// Package planner chains prompt construction, model invocation, layout
// parsing and heuristic analysis into the user-facing planning actions.
// Each action is a strictly sequential, one-shot request with no state
// carried between calls.
package planner

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"urbanplanner/internal/analysis"
	"urbanplanner/internal/layout"
	"urbanplanner/internal/planning"
	"urbanplanner/internal/prompt"
)

// ErrEmptyGeneration is returned when the model answers with blank text.
var ErrEmptyGeneration = errors.New("planner: model returned an empty generation")

// ModelInvoker sends one prompt and returns the raw generated text.
// *llm.ModelClient satisfies it.
type ModelInvoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// PlanReport is the result of GeneratePlan.
type PlanReport struct {
	Plan      string         `json:"plan"`
	Score     int            `json:"sustainability_score"`
	Breakdown map[string]int `json:"sustainability_breakdown"`
}

// LayoutReport is the result of AnalyzeLayout.
type LayoutReport struct {
	Layout       *layout.CityLayout           `json:"layout"`
	LandUse      analysis.LandUseDistribution `json:"land_use"`
	Improvements string                       `json:"improvements"`
}

// Service holds only immutable collaborators and may be shared across
// concurrent requests.
type Service struct {
	model    ModelInvoker
	parser   *layout.Parser
	log      *zap.Logger
	scoreCap int
}

type Option func(*Service)

// WithLogger sets the service logger. The layout parser logs through it too.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithScoreCap clamps sustainability scores to limit. limit <= 0 disables the cap.
func WithScoreCap(limit int) Option {
	return func(s *Service) { s.scoreCap = limit }
}

func New(model ModelInvoker, opts ...Option) *Service {
	s := &Service{model: model, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = layout.NewParser(s.log.Named("layout"))
	return s
}

// GeneratePlan asks for a comprehensive plan and scores it against the request's goals.
func (s *Service) GeneratePlan(ctx context.Context, req planning.PlanningRequest) (*PlanReport, error) {
	req, err := req.Normalized()
	if err != nil {
		return nil, err
	}
	text, err := s.invoke(ctx, "plan", prompt.Comprehensive(req))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyGeneration
	}
	a := analysis.Assess(text, req.Goals()).Capped(s.scoreCap)
	return &PlanReport{Plan: text, Score: a.Score, Breakdown: a.Breakdown}, nil
}

// GenerateLayout asks for a JSON layout and parses it strictly.
func (s *Service) GenerateLayout(ctx context.Context, req planning.PlanningRequest) (*layout.CityLayout, error) {
	req, err := req.Normalized()
	if err != nil {
		return nil, err
	}
	text, err := s.invoke(ctx, "layout", prompt.Layout(req))
	if err != nil {
		return nil, err
	}
	return s.parser.Parse(text)
}

// Suggest asks for improvements to l and returns the model's text unmodified.
func (s *Service) Suggest(ctx context.Context, l *layout.CityLayout, goals []string) (string, error) {
	p, err := prompt.ImprovementFor(l, goals)
	if err != nil {
		return "", err
	}
	return s.invoke(ctx, "suggest", p)
}

// AnalyzeLayout generates a layout, computes its land-use breakdown and then
// asks for improvements. The three steps run in order and the first failure stops the chain.
func (s *Service) AnalyzeLayout(ctx context.Context, req planning.PlanningRequest) (*LayoutReport, error) {
	l, err := s.GenerateLayout(ctx, req)
	if err != nil {
		return nil, err
	}
	dist, err := analysis.LandUseBreakdown(l)
	if err != nil {
		return nil, err
	}
	improvements, err := s.Suggest(ctx, l, req.Goals())
	if err != nil {
		return nil, err
	}
	return &LayoutReport{Layout: l, LandUse: dist, Improvements: improvements}, nil
}

func (s *Service) invoke(ctx context.Context, action, p string) (string, error) {
	start := time.Now()
	text, err := s.model.Invoke(ctx, p)
	if err != nil {
		s.log.Warn("model invocation failed",
			zap.String("action", action),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return "", err
	}
	s.log.Info("model invocation",
		zap.String("action", action),
		zap.Int("prompt_bytes", len(p)),
		zap.Int("response_bytes", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return text, nil
}
