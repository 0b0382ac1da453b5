package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"urbanplanner/internal/analysis"
	"urbanplanner/internal/layout"
	"urbanplanner/internal/planner"
)

var (
	heading = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen)
	muted   = color.New(color.FgHiBlack)
)

func outcomeOf(err error) planner.Outcome { return planner.Classify(err) }

func printPlan(w io.Writer, rep *planner.PlanReport) {
	heading.Fprintln(w, "Development plan")
	fmt.Fprintln(w, rep.Plan)
	fmt.Fprintln(w)
	heading.Fprintf(w, "Sustainability score: %d\n", rep.Score)
	goals := make([]string, 0, len(rep.Breakdown))
	for g := range rep.Breakdown {
		goals = append(goals, g)
	}
	sort.Strings(goals)
	for _, g := range goals {
		pts := rep.Breakdown[g]
		mark := muted.Sprint("✗")
		if pts > 0 {
			mark = good.Sprint("✓")
		}
		fmt.Fprintf(w, "  %s %-40s %3d\n", mark, g, pts)
	}
}

func printLayout(w io.Writer, rep *planner.LayoutReport) error {
	heading.Fprintln(w, "City layout")
	raw, err := layout.EncodeIndent(rep.Layout)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(raw))
	fmt.Fprintln(w)
	heading.Fprintln(w, "Land use")
	for _, c := range analysis.Categories() {
		fmt.Fprintf(w, "  %-12s %6.1f%%\n", c, rep.LandUse[c])
	}
	fmt.Fprintln(w)
	heading.Fprintln(w, "Suggested improvements")
	fmt.Fprintln(w, rep.Improvements)
	return nil
}
