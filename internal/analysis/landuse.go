// Package analysis derives heuristic summaries from model output.
package analysis

import (
	"fmt"
	"math"
	"strings"

	"urbanplanner/internal/layout"
)

// Land-use categories reported by LandUseBreakdown.
const (
	CategoryResidential = "Residential"
	CategoryCommercial  = "Commercial"
	CategoryIndustrial  = "Industrial"
	CategoryGreenSpace  = "Green Space"
)

// Categories returns the land-use categories in display order.
func Categories() []string {
	return []string{CategoryResidential, CategoryCommercial, CategoryIndustrial, CategoryGreenSpace}
}

// LandUseDistribution maps a category to its share of the total parsed area, in percent.
type LandUseDistribution map[string]float64

// Total sums the shares; 100 up to rounding for any distribution returned by LandUseBreakdown.
func (d LandUseDistribution) Total() float64 {
	var t float64
	for _, v := range d {
		t += v
	}
	return t
}

type AnalysisErrorKind int

const (
	UnparsableSize AnalysisErrorKind = iota + 1
	EmptyLayout
	AreaOverflow
)

func (k AnalysisErrorKind) String() string {
	switch k {
	case UnparsableSize:
		return "unparsable_size"
	case EmptyLayout:
		return "empty_layout"
	case AreaOverflow:
		return "area_overflow"
	default:
		return "unknown"
	}
}

// AnalysisError reports why a layout could not be summarised.
type AnalysisError struct {
	Kind     AnalysisErrorKind
	Category string
	Entry    string
	Size     string
}

func (e *AnalysisError) Error() string {
	switch e.Kind {
	case UnparsableSize:
		return fmt.Sprintf("analysis: %s entry %q has no leading numeric size (%q)", strings.ToLower(e.Category), e.Entry, e.Size)
	case EmptyLayout:
		return "analysis: layout has zero total area"
	case AreaOverflow:
		if e.Category != "" {
			return fmt.Sprintf("analysis: %s area total is not a finite number", strings.ToLower(e.Category))
		}
		return "analysis: layout total area is not a finite number"
	default:
		return "analysis: " + e.Kind.String()
	}
}

// LandUseBreakdown sums the leading numeric token of every size per category
// and reports each category as a percentage of the total. Infrastructure items
// are not counted; their coverage is a length or descriptor, not an area.
func LandUseBreakdown(l *layout.CityLayout) (LandUseDistribution, error) {
	if l == nil {
		return nil, &AnalysisError{Kind: EmptyLayout}
	}
	groups := []struct {
		category string
		areas    []layout.Area
	}{
		{CategoryResidential, l.ResidentialAreas},
		{CategoryCommercial, l.CommercialAreas},
		{CategoryIndustrial, l.IndustrialAreas},
		{CategoryGreenSpace, l.GreenSpaces},
	}

	sums := make(map[string]float64, len(groups))
	var total float64
	for _, g := range groups {
		var sum float64
		for _, a := range g.areas {
			v, ok := layout.LeadingNumber(a.Size.String())
			if !ok {
				return nil, &AnalysisError{Kind: UnparsableSize, Category: g.category, Entry: a.Name.String(), Size: a.Size.String()}
			}
			sum += v
		}
		if math.IsInf(sum, 0) || math.IsNaN(sum) {
			return nil, &AnalysisError{Kind: AreaOverflow, Category: g.category}
		}
		sums[g.category] = sum
		total += sum
	}
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return nil, &AnalysisError{Kind: AreaOverflow}
	}
	if total == 0 {
		return nil, &AnalysisError{Kind: EmptyLayout}
	}

	out := make(LandUseDistribution, len(sums))
	for k, v := range sums {
		out[k] = v / total * 100
	}
	return out, nil
}
