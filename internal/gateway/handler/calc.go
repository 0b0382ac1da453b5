package handler

import (
	"fmt"
	"net/http"

	"urbanplanner/internal/citymodel"
	"urbanplanner/internal/planning"
)

type populationGrowthRequest struct {
	InitialPopulation float64 `json:"initial_population"`
	GrowthRate        float64 `json:"growth_rate"`
	Years             int     `json:"years"`
}

type populationGrowthResponse struct {
	FinalPopulation float64   `json:"final_population"`
	Series          []float64 `json:"series"`
}

// PopulationGrowth projects compound growth; growth_rate is a fraction (0.02 = 2%).
func (h *Handler) PopulationGrowth(w http.ResponseWriter, r *http.Request) {
	var in populationGrowthRequest
	if err := decodeBody(w, r, &in); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	switch {
	case in.InitialPopulation <= 0:
		h.writeBadRequest(w, &planning.ValidationError{Field: "initial_population", Reason: "must be positive"})
		return
	case in.Years < 0 || in.Years > 200:
		h.writeBadRequest(w, &planning.ValidationError{Field: "years", Reason: "must be between 0 and 200"})
		return
	case in.GrowthRate <= -1:
		h.writeBadRequest(w, &planning.ValidationError{Field: "growth_rate", Reason: "must be greater than -1"})
		return
	}
	writeJSON(w, http.StatusOK, populationGrowthResponse{
		FinalPopulation: planning.ProjectPopulation(in.InitialPopulation, in.GrowthRate, in.Years),
		Series:          planning.PopulationSeries(in.InitialPopulation, in.GrowthRate, in.Years),
	})
}

type infrastructureCostRequest struct {
	RoadKm          float64 `json:"road_km"`
	UtilitySqKm     float64 `json:"utility_sq_km"`
	PublicBuildings int     `json:"public_buildings"`
}

// InfrastructureCost returns a cost estimate in millions of dollars.
func (h *Handler) InfrastructureCost(w http.ResponseWriter, r *http.Request) {
	var in infrastructureCostRequest
	if err := decodeBody(w, r, &in); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	est, err := planning.EstimateInfrastructureCost(in.RoadKm, in.UtilitySqKm, in.PublicBuildings)
	if err != nil {
		h.writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// LandUseMix validates a manual percentage split.
func (h *Handler) LandUseMix(w http.ResponseWriter, r *http.Request) {
	var in planning.LandUseMix
	if err := decodeBody(w, r, &in); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	if err := in.Validate(); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mix": in, "total": in.Total()})
}

type cityModelRequest struct {
	LandArea float64 `json:"land_area"`
	Zoning   string  `json:"zoning"`
	Seed     *uint64 `json:"seed"`
}

type cityModelResponse struct {
	Seed     uint64               `json:"seed"`
	Model    *citymodel.Model     `json:"model"`
	Traffic  [citymodel.Hours]int `json:"traffic"`
	PeakHour int                  `json:"peak_hour"`
}

// CityModel generates illustrative geometry. Without a seed one is chosen and
// echoed so the result can be reproduced.
func (h *Handler) CityModel(w http.ResponseWriter, r *http.Request) {
	var in cityModelRequest
	if err := decodeBody(w, r, &in); err != nil {
		h.writeBadRequest(w, err)
		return
	}
	if in.Zoning == "" {
		h.writeBadRequest(w, fmt.Errorf("zoning: %w", errMissingField))
		return
	}
	seed := uint64(h.now().UnixNano())
	if in.Seed != nil {
		seed = *in.Seed
	}
	m, err := citymodel.Generate(in.LandArea, in.Zoning, seed)
	if err != nil {
		h.writeBadRequest(w, err)
		return
	}
	traffic := citymodel.TrafficProjection(seed)
	writeJSON(w, http.StatusOK, cityModelResponse{
		Seed:     seed,
		Model:    m,
		Traffic:  traffic,
		PeakHour: citymodel.PeakHour(traffic),
	})
}
