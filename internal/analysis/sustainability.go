package analysis

import "strings"

// PointsPerGoal is awarded for every goal mentioned in the plan text.
const PointsPerGoal = 25

// SustainabilityScore awards PointsPerGoal for each goal found in planText by
// case-insensitive substring match. The sum is not capped, so more than four
// matching goals score above 100. Duplicate goals score twice but share one
// breakdown entry.
func SustainabilityScore(planText string, goals []string) (int, map[string]int) {
	text := strings.ToLower(planText)
	score := 0
	breakdown := make(map[string]int, len(goals))
	for _, g := range goals {
		if strings.Contains(text, strings.ToLower(g)) {
			score += PointsPerGoal
			breakdown[g] = PointsPerGoal
		} else {
			breakdown[g] = 0
		}
	}
	return score, breakdown
}

// SustainabilityAssessment bundles a score with its per-goal breakdown.
type SustainabilityAssessment struct {
	Score     int            `json:"sustainability_score"`
	Breakdown map[string]int `json:"sustainability_breakdown"`
}

func Assess(planText string, goals []string) SustainabilityAssessment {
	score, breakdown := SustainabilityScore(planText, goals)
	return SustainabilityAssessment{Score: score, Breakdown: breakdown}
}

// Capped clamps the aggregate score to limit. A limit <= 0 leaves it unchanged.
// Per-goal contributions are never altered.
func (a SustainabilityAssessment) Capped(limit int) SustainabilityAssessment {
	if limit > 0 && a.Score > limit {
		a.Score = limit
	}
	return a
}
