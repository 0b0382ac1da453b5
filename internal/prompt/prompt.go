// Package prompt renders planning requests into model prompts.
// Every builder is pure: identical input yields identical output.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"urbanplanner/internal/layout"
	"urbanplanner/internal/planning"
)

// GoalDelimiter joins sustainability goals inside prompts.
const GoalDelimiter = ", "

// JoinGoals renders goals in order with GoalDelimiter.
func JoinGoals(goals []string) string {
	return strings.Join(goals, GoalDelimiter)
}

// FormatNumber renders a float in its shortest exact decimal form (100, 2.5).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var recommendationTopics = []string{
	"Land use optimization",
	"Infrastructure development",
	"Sustainability implementation",
	"Community engagement strategies",
	"Economic development opportunities",
	"Smart city technologies integration",
	"Climate resilience measures",
	"Public space design",
	"Transportation network improvements",
	"Affordable housing initiatives",
}

// Comprehensive builds the narrative development-plan prompt.
func Comprehensive(req planning.PlanningRequest) string {
	var b strings.Builder
	b.WriteString("As an advanced urban planning AI, create a comprehensive development plan with the following characteristics:\n")
	writeParameters(&b, req, "Current Population", "Development Budget")
	b.WriteString("\nProvide detailed recommendations on:\n")
	for i, topic := range recommendationTopics {
		fmt.Fprintf(&b, "%d. %s\n", i+1, topic)
	}
	return b.String()
}

const layoutSchema = `{
    "residential_areas": [
        {"name": "Area name", "size": "Size in sq km", "population": "Estimated population"}
    ],
    "commercial_areas": [
        {"name": "Area name", "size": "Size in sq km", "type": "Type of commercial activity"}
    ],
    "industrial_areas": [
        {"name": "Area name", "size": "Size in sq km", "type": "Type of industry"}
    ],
    "green_spaces": [
        {"name": "Area name", "size": "Size in sq km", "type": "Type of green space"}
    ],
    "infrastructure": [
        {"name": "Infrastructure name", "type": "Type of infrastructure", "coverage": "Coverage area or length"}
    ]
}`

// Layout builds the structured-layout prompt. The model is asked for a single
// JSON object matching the embedded schema and nothing else.
func Layout(req planning.PlanningRequest) string {
	var b strings.Builder
	b.WriteString("As an AI urban planner, generate a detailed city layout based on the following parameters:\n")
	writeParameters(&b, req, "Population", "Budget")
	b.WriteString("\nProvide a JSON output with the following structure:\n")
	b.WriteString(layoutSchema)
	b.WriteString("\n\nEvery \"size\" value must start with a number followed by its unit, for example \"12.5 sq km\".\n")
	b.WriteString("Respond with the JSON object only, without commentary or code fences.\n")
	return b.String()
}

// Improvement builds the suggestion prompt from an already serialised layout.
func Improvement(layoutJSON string, goals []string) string {
	var b strings.Builder
	b.WriteString("Analyze the following city layout and suggest improvements based on the sustainability goals:\n\n")
	b.WriteString("City Layout: ")
	b.WriteString(layoutJSON)
	b.WriteString("\n\nSustainability Goals: ")
	b.WriteString(JoinGoals(goals))
	b.WriteString("\n\nProvide suggestions for improving the layout to better meet the sustainability goals.\n")
	b.WriteString("Focus on practical and innovative solutions.\n")
	return b.String()
}

// ImprovementFor serialises l with two-space indentation and builds the suggestion prompt.
func ImprovementFor(l *layout.CityLayout, goals []string) (string, error) {
	if l == nil {
		return "", fmt.Errorf("prompt: nil layout")
	}
	raw, err := layout.EncodeIndent(l)
	if err != nil {
		return "", fmt.Errorf("prompt: encode layout: %w", err)
	}
	return Improvement(string(raw), goals), nil
}

func writeParameters(b *strings.Builder, req planning.PlanningRequest, populationLabel, budgetLabel string) {
	fmt.Fprintf(b, "- Land Area: %s sq km\n", FormatNumber(req.LandArea))
	fmt.Fprintf(b, "- %s: %d\n", populationLabel, req.Population)
	fmt.Fprintf(b, "- Zoning: %s\n", req.Zoning)
	fmt.Fprintf(b, "- Existing Infrastructure: %s\n", req.ExistingInfrastructure)
	fmt.Fprintf(b, "- Sustainability Goals: %s\n", JoinGoals(req.SustainabilityGoals))
	fmt.Fprintf(b, "- %s: $%s million\n", budgetLabel, FormatNumber(req.Budget))
}
