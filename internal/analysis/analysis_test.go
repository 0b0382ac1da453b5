package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbanplanner/internal/layout"
)

func TestLandUseBreakdown_EvenSplit(t *testing.T) {
	l := &layout.CityLayout{
		ResidentialAreas: []layout.Area{{Name: "A", Size: "10 sq km"}},
		CommercialAreas:  []layout.Area{{Name: "B", Size: "10 sq km"}},
		IndustrialAreas:  []layout.Area{{Name: "C", Size: "0 sq km"}},
		GreenSpaces:      []layout.Area{{Name: "D", Size: "0 sq km"}},
	}
	got, err := LandUseBreakdown(l)
	require.NoError(t, err)
	assert.Equal(t, LandUseDistribution{
		CategoryResidential: 50.0,
		CategoryCommercial:  50.0,
		CategoryIndustrial:  0.0,
		CategoryGreenSpace:  0.0,
	}, got)
}

func TestLandUseBreakdown_SumsToHundred(t *testing.T) {
	l := &layout.CityLayout{
		ResidentialAreas: []layout.Area{{Name: "A", Size: "3.3 sq km"}, {Name: "A2", Size: "1.1 sq km"}},
		CommercialAreas:  []layout.Area{{Name: "B", Size: "2.2 sq km"}},
		IndustrialAreas:  []layout.Area{{Name: "C", Size: "0.7 sq km"}},
		GreenSpaces:      []layout.Area{{Name: "D", Size: "1.9"}},
		InfrastructureItems: []layout.Infrastructure{
			{Name: "Ring", Coverage: "not an area"},
		},
	}
	got, err := LandUseBreakdown(l)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got.Total(), 1e-9)
	assert.Len(t, got, 4)
}

func TestLandUseBreakdown_EmptyLayout(t *testing.T) {
	l := &layout.CityLayout{
		ResidentialAreas: []layout.Area{{Name: "A", Size: "0 sq km"}},
		GreenSpaces:      []layout.Area{{Name: "D", Size: "0"}},
	}
	_, err := LandUseBreakdown(l)
	var aErr *AnalysisError
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, EmptyLayout, aErr.Kind)

	_, err = LandUseBreakdown(&layout.CityLayout{})
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, EmptyLayout, aErr.Kind)
}

func TestLandUseBreakdown_UnparsableSize(t *testing.T) {
	l := &layout.CityLayout{
		ResidentialAreas: []layout.Area{{Name: "A", Size: "10 sq km"}},
		GreenSpaces:      []layout.Area{{Name: "Wetlands", Size: "about half the district"}},
	}
	_, err := LandUseBreakdown(l)
	var aErr *AnalysisError
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, UnparsableSize, aErr.Kind)
	assert.Equal(t, CategoryGreenSpace, aErr.Category)
	assert.Equal(t, "Wetlands", aErr.Entry)
}

func TestLandUseBreakdown_OverflowingTotal(t *testing.T) {
	huge := "1" + strings.Repeat("0", 308) + " sq km"
	l := &layout.CityLayout{
		ResidentialAreas: []layout.Area{{Name: "A", Size: layout.FlexString(huge)}, {Name: "A2", Size: layout.FlexString(huge)}},
		CommercialAreas:  []layout.Area{{Name: "B", Size: "10 sq km"}},
	}
	got, err := LandUseBreakdown(l)
	assert.Nil(t, got)
	var aErr *AnalysisError
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, AreaOverflow, aErr.Kind)
	assert.Equal(t, CategoryResidential, aErr.Category)

	// Each category stays finite but the grand total does not.
	l = &layout.CityLayout{
		ResidentialAreas: []layout.Area{{Name: "A", Size: layout.FlexString(huge)}},
		CommercialAreas:  []layout.Area{{Name: "B", Size: layout.FlexString(huge)}},
	}
	_, err = LandUseBreakdown(l)
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, AreaOverflow, aErr.Kind)
	assert.Empty(t, aErr.Category)
}

func TestLandUseBreakdown_ThousandsSeparator(t *testing.T) {
	l := &layout.CityLayout{
		ResidentialAreas: []layout.Area{{Name: "A", Size: "1,200 sq km"}},
		CommercialAreas:  []layout.Area{{Name: "B", Size: "1e3 sq km"}},
		IndustrialAreas:  []layout.Area{{Name: "C", Size: "12,5 sq km"}},
	}
	_, err := LandUseBreakdown(l)
	var aErr *AnalysisError
	require.ErrorAs(t, err, &aErr)
	assert.Equal(t, UnparsableSize, aErr.Kind)
	assert.Equal(t, CategoryIndustrial, aErr.Category)

	l.IndustrialAreas = []layout.Area{{Name: "C", Size: "800 sq km"}}
	got, err := LandUseBreakdown(l)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, got[CategoryResidential], 1e-9)
	assert.InDelta(t, 100.0/3, got[CategoryCommercial], 1e-9)
}

func TestSustainabilityScore_PartialMatch(t *testing.T) {
	plan := "We will reduce carbon emissions and improve public transport"
	goals := []string{"reduce carbon emissions", "improve public transport", "increase green spaces"}

	score, breakdown := SustainabilityScore(plan, goals)
	assert.Equal(t, 50, score)
	assert.Equal(t, map[string]int{
		"reduce carbon emissions":  25,
		"improve public transport": 25,
		"increase green spaces":    0,
	}, breakdown)
}

func TestSustainabilityScore_CaseInsensitive(t *testing.T) {
	score, breakdown := SustainabilityScore("REDUCE CARBON EMISSIONS now", []string{"Reduce carbon emissions"})
	assert.Equal(t, 25, score)
	assert.Equal(t, 25, breakdown["Reduce carbon emissions"])
}

func TestSustainabilityScore_NoCap(t *testing.T) {
	plan := "solar wind transit parks recycling"
	goals := []string{"solar", "wind", "transit", "parks", "recycling"}
	score, _ := SustainabilityScore(plan, goals)
	assert.Equal(t, 125, score)
}

func TestAssessCapped(t *testing.T) {
	a := Assess("solar wind transit parks recycling", []string{"solar", "wind", "transit", "parks", "recycling"})
	assert.Equal(t, 125, a.Score)
	assert.Equal(t, 100, a.Capped(100).Score)
	assert.Equal(t, 125, a.Capped(0).Score)
	assert.Equal(t, 25, a.Capped(100).Breakdown["solar"])
}
