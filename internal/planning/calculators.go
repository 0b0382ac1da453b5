package planning

import (
	"fmt"
	"math"
)

// ProjectPopulation applies compound annual growth.
func ProjectPopulation(initial, rate float64, years int) float64 {
	return initial * math.Pow(1+rate, float64(years))
}

// PopulationSeries returns the projected population for year 0 through years inclusive.
func PopulationSeries(initial, rate float64, years int) []float64 {
	if years < 0 {
		return nil
	}
	out := make([]float64, years+1)
	for y := range out {
		out[y] = ProjectPopulation(initial, rate, y)
	}
	return out
}

// Unit costs in millions of dollars.
const (
	RoadCostPerKm          = 2.0
	UtilityCostPerSqKm     = 1.5
	PublicBuildingUnitCost = 5.0
)

// CostEstimate is a rough infrastructure budget in millions of dollars.
type CostEstimate struct {
	RoadNetwork     float64 `json:"road_network"`
	UtilityNetwork  float64 `json:"utility_network"`
	PublicBuildings float64 `json:"public_buildings"`
	Total           float64 `json:"total"`
}

func EstimateInfrastructureCost(roadKm, utilitySqKm float64, publicBuildings int) (CostEstimate, error) {
	if roadKm < 0 || utilitySqKm < 0 || publicBuildings < 0 {
		return CostEstimate{}, &ValidationError{Field: "infrastructure", Reason: "quantities must not be negative"}
	}
	est := CostEstimate{
		RoadNetwork:     roadKm * RoadCostPerKm,
		UtilityNetwork:  utilitySqKm * UtilityCostPerSqKm,
		PublicBuildings: float64(publicBuildings) * PublicBuildingUnitCost,
	}
	est.Total = est.RoadNetwork + est.UtilityNetwork + est.PublicBuildings
	return est, nil
}

// LandUseMix is a manually entered percentage split.
type LandUseMix struct {
	Residential    int `json:"residential"`
	Commercial     int `json:"commercial"`
	Industrial     int `json:"industrial"`
	GreenSpace     int `json:"green_space"`
	Infrastructure int `json:"infrastructure"`
}

func (m LandUseMix) Total() int {
	return m.Residential + m.Commercial + m.Industrial + m.GreenSpace + m.Infrastructure
}

// Validate requires each share in [0,100] and a total of exactly 100.
func (m LandUseMix) Validate() error {
	for _, v := range []int{m.Residential, m.Commercial, m.Industrial, m.GreenSpace, m.Infrastructure} {
		if v < 0 || v > 100 {
			return &ValidationError{Field: "land_use_mix", Reason: "each share must be between 0 and 100"}
		}
	}
	if t := m.Total(); t != 100 {
		return &ValidationError{Field: "land_use_mix", Reason: fmt.Sprintf("total distribution should equal 100%%, got %d%%", t)}
	}
	return nil
}
