// Package citymodel generates illustrative building and road geometry for a
// zoning district. Output depends only on the inputs and the seed; nothing
// here talks to the model service.
package citymodel

import (
	"fmt"
	"math"
	"math/rand/v2"

	"urbanplanner/internal/planning"
)

const (
	// BuildingsPerSqKm is the building density of the generated district.
	BuildingsPerSqKm = 15
	// MaxLandArea bounds the district so the building slice stays small.
	MaxLandArea = 10000.0
)

// Style is the rendering palette and height range for one zoning.
type Style struct {
	Color     string `json:"color"`
	MinHeight int    `json:"min_height_m"`
	MaxHeight int    `json:"max_height_m"` // exclusive
}

var styles = map[planning.Zoning]Style{
	planning.ZoningResidential: {Color: "lightblue", MinHeight: 10, MaxHeight: 50},
	planning.ZoningCommercial:  {Color: "orange", MinHeight: 20, MaxHeight: 100},
	planning.ZoningIndustrial:  {Color: "gray", MinHeight: 15, MaxHeight: 80},
	planning.ZoningMixedUse:    {Color: "purple", MinHeight: 15, MaxHeight: 120},
}

// StyleFor returns the style for z.
func StyleFor(z planning.Zoning) (Style, bool) {
	s, ok := styles[z]
	return s, ok
}

// Building is a footprint centre in km and a height in metres.
type Building struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Height int     `json:"height"`
}

// Road is a straight segment at ground level, in km.
type Road struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Model is a square district of side sqrt(land area).
type Model struct {
	Zoning    planning.Zoning `json:"zoning"`
	Side      float64         `json:"side_km"`
	Style     Style           `json:"style"`
	Buildings []Building      `json:"buildings"`
	Roads     []Road          `json:"roads"`
	Summary   string          `json:"summary"`
}

// Generate places int(landArea*15) buildings uniformly in the district and a
// grid of int(sqrt(landArea)*2) roads along each axis.
func Generate(landArea float64, zoning string, seed uint64) (*Model, error) {
	if !(landArea > 0) {
		return nil, &planning.ValidationError{Field: "land_area", Reason: "must be positive"}
	}
	if landArea > MaxLandArea {
		return nil, &planning.ValidationError{Field: "land_area", Reason: fmt.Sprintf("must not exceed %g sq km", MaxLandArea)}
	}
	z, err := planning.ParseZoning(zoning)
	if err != nil {
		return nil, err
	}
	style := styles[z]
	side := math.Sqrt(landArea)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	n := int(landArea * BuildingsPerSqKm)
	buildings := make([]Building, n)
	for i := range buildings {
		buildings[i] = Building{
			X:      rng.Float64() * side,
			Y:      rng.Float64() * side,
			Height: style.MinHeight + rng.IntN(style.MaxHeight-style.MinHeight),
		}
	}

	lines := gridLines(side, int(side*2))
	roads := make([]Road, 0, 2*len(lines))
	for _, p := range lines {
		roads = append(roads,
			Road{X1: p, Y1: 0, X2: p, Y2: side},
			Road{X1: 0, Y1: p, X2: side, Y2: p},
		)
	}

	return &Model{
		Zoning:    z,
		Side:      side,
		Style:     style,
		Buildings: buildings,
		Roads:     roads,
		Summary: fmt.Sprintf("%s zone of %g sq km with %d buildings between %d and %d m and a %d-line road grid",
			z, landArea, n, style.MinHeight, style.MaxHeight, len(lines)),
	}, nil
}

// gridLines returns n evenly spaced positions from 0 to side inclusive.
func gridLines(side float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{0}
	}
	out := make([]float64, n)
	step := side / float64(n-1)
	for i := range out {
		out[i] = float64(i) * step
	}
	out[n-1] = side
	return out
}

// Hours in a traffic projection.
const Hours = 24

// TrafficProjection returns illustrative hourly vehicle counts in [100, 1000).
func TrafficProjection(seed uint64) [Hours]int {
	rng := rand.New(rand.NewPCG(seed, ^seed))
	var out [Hours]int
	for i := range out {
		out[i] = 100 + rng.IntN(900)
	}
	return out
}

// PeakHour returns the hour with the highest volume, earliest on ties.
func PeakHour(volumes [Hours]int) int {
	peak := 0
	for h, v := range volumes {
		if v > volumes[peak] {
			peak = h
		}
	}
	return peak
}
