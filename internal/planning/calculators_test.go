package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectPopulation(t *testing.T) {
	assert.InDelta(t, 121000.0, ProjectPopulation(100000, 0.1, 2), 1e-6)
	assert.InDelta(t, 100000.0, ProjectPopulation(100000, 0.02, 0), 1e-9)
}

func TestPopulationSeries(t *testing.T) {
	s := PopulationSeries(1000, 0.5, 2)
	require.Len(t, s, 3)
	assert.InDelta(t, 1000.0, s[0], 1e-9)
	assert.InDelta(t, 1500.0, s[1], 1e-9)
	assert.InDelta(t, 2250.0, s[2], 1e-9)
	assert.Nil(t, PopulationSeries(1000, 0.5, -1))
}

func TestEstimateInfrastructureCost(t *testing.T) {
	est, err := EstimateInfrastructureCost(100, 50, 10)
	require.NoError(t, err)
	assert.InDelta(t, 200.0, est.RoadNetwork, 1e-9)
	assert.InDelta(t, 75.0, est.UtilityNetwork, 1e-9)
	assert.InDelta(t, 50.0, est.PublicBuildings, 1e-9)
	assert.InDelta(t, 325.0, est.Total, 1e-9)

	_, err = EstimateInfrastructureCost(-1, 0, 0)
	assert.Error(t, err)
}

func TestLandUseMix(t *testing.T) {
	ok := LandUseMix{Residential: 30, Commercial: 20, Industrial: 15, GreenSpace: 15, Infrastructure: 20}
	assert.NoError(t, ok.Validate())

	short := ok
	short.Residential = 10
	err := short.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 80%")
}
