package planning

import (
	"fmt"
	"strings"
)

// Zoning is the dominant land-use designation of the planning area.
type Zoning string

const (
	ZoningResidential Zoning = "Residential"
	ZoningCommercial  Zoning = "Commercial"
	ZoningIndustrial  Zoning = "Industrial"
	ZoningMixedUse    Zoning = "Mixed-Use"
)

// Zonings lists the accepted designations in display order.
func Zonings() []Zoning {
	return []Zoning{ZoningResidential, ZoningCommercial, ZoningIndustrial, ZoningMixedUse}
}

// ParseZoning accepts any casing and returns the canonical spelling.
func ParseZoning(s string) (Zoning, error) {
	s = strings.TrimSpace(s)
	for _, z := range Zonings() {
		if strings.EqualFold(s, string(z)) {
			return z, nil
		}
	}
	return "", &ValidationError{Field: "zoning", Reason: fmt.Sprintf("unknown zoning %q", s)}
}

// PlanningRequest carries the user-supplied parameters for one plan generation.
// It is built once per request and not mutated afterwards.
type PlanningRequest struct {
	LandArea               float64  `json:"land_area" yaml:"land_area"`
	Population             int      `json:"current_population" yaml:"current_population"`
	Zoning                 Zoning   `json:"zoning" yaml:"zoning"`
	ExistingInfrastructure string   `json:"existing_infrastructure" yaml:"existing_infrastructure"`
	SustainabilityGoals    []string `json:"sustainability_goals" yaml:"sustainability_goals"`
	Budget                 float64  `json:"budget" yaml:"budget"`
}

// Goals returns a copy of the sustainability goals.
func (r PlanningRequest) Goals() []string {
	out := make([]string, len(r.SustainabilityGoals))
	copy(out, r.SustainabilityGoals)
	return out
}

// Validate checks every field and normalises nothing; the first violation wins.
func (r PlanningRequest) Validate() error {
	if !(r.LandArea > 0) {
		return &ValidationError{Field: "land_area", Reason: "must be positive"}
	}
	if r.Population <= 0 {
		return &ValidationError{Field: "current_population", Reason: "must be positive"}
	}
	if _, err := ParseZoning(string(r.Zoning)); err != nil {
		return err
	}
	if len(r.SustainabilityGoals) == 0 {
		return &ValidationError{Field: "sustainability_goals", Reason: "at least one goal is required"}
	}
	for i, g := range r.SustainabilityGoals {
		if strings.TrimSpace(g) == "" {
			return &ValidationError{Field: "sustainability_goals", Reason: fmt.Sprintf("goal %d is blank", i)}
		}
	}
	if !(r.Budget > 0) {
		return &ValidationError{Field: "budget", Reason: "must be positive"}
	}
	return nil
}

// Normalized returns a copy with the zoning in canonical form.
func (r PlanningRequest) Normalized() (PlanningRequest, error) {
	if err := r.Validate(); err != nil {
		return PlanningRequest{}, err
	}
	z, _ := ParseZoning(string(r.Zoning))
	out := r
	out.Zoning = z
	out.SustainabilityGoals = r.Goals()
	return out, nil
}

// ValidationError reports a rejected request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("planning: invalid %s: %s", e.Field, e.Reason)
}
