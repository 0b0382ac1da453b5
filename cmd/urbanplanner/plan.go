package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"urbanplanner/internal/planning"
)

var planReq planning.PlanningRequest

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a development plan and score it against the sustainability goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(ctx context.Context, s *session) error {
			rep, err := s.svc.GeneratePlan(ctx, planReq)
			if err != nil {
				return explain(err)
			}
			printPlan(cmd.OutOrStdout(), rep)
			return nil
		})
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Generate a city layout, its land-use breakdown and improvement suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(ctx context.Context, s *session) error {
			rep, err := s.svc.AnalyzeLayout(ctx, planReq)
			if err != nil {
				return explain(err)
			}
			return printLayout(cmd.OutOrStdout(), rep)
		})
	},
}

func init() {
	planReq.Zoning = planning.ZoningMixedUse
	for _, c := range []*cobra.Command{planCmd, layoutCmd} {
		f := c.Flags()
		f.Float64Var(&planReq.LandArea, "land-area", 100, "land area in sq km")
		f.IntVar(&planReq.Population, "population", 50000, "current population")
		f.Var((*zoningFlag)(&planReq.Zoning), "zoning", "Residential, Commercial, Industrial or Mixed-Use")
		f.StringVar(&planReq.ExistingInfrastructure, "infrastructure", "Basic road network and utilities", "existing infrastructure")
		f.StringSliceVar(&planReq.SustainabilityGoals, "goal", []string{"Reduce carbon emissions", "Improve public transportation"}, "sustainability goal (repeatable)")
		f.Float64Var(&planReq.Budget, "budget", 500, "development budget in millions of dollars")
	}
}

// zoningFlag validates --zoning at parse time.
type zoningFlag planning.Zoning

func (z *zoningFlag) String() string { return string(*z) }
func (z *zoningFlag) Type() string   { return "zoning" }
func (z *zoningFlag) Set(s string) error {
	v, err := planning.ParseZoning(s)
	if err != nil {
		return err
	}
	*z = zoningFlag(v)
	return nil
}

func withSession(ctx context.Context, fn func(context.Context, *session) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Server.RequestTimeout)
	defer cancel()
	return fn(ctx, s)
}

// explain prefixes err with the user-facing outcome message.
func explain(err error) error {
	return fmt.Errorf("%s (%w)", outcomeOf(err).Message(), err)
}
