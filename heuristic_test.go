package walkroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHeuristicConsistency(t *testing.T) {
	report, err := CheckHeuristicConsistency(squareGraph(t, true), DefaultConsistencyTolerance)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Checked)
	assert.Equal(t, 0, report.Violations)

	report, err = CheckHeuristicConsistency(squareGraph(t, false), DefaultConsistencyTolerance)
	assert.ErrorIs(t, err, ErrInadmissibleHeuristic)
	assert.Equal(t, 4, report.Checked)
	assert.Equal(t, 4, report.Violations)
	// Unit edges along the equator and the meridian fall short the most
	assert.Equal(t, 1.0, report.Worst.Weight)
	assert.InDelta(t, GreatCircleDistance(GeoPoint{0, 0}, GeoPoint{0, 1})-1, report.WorstShortfall, 1e-6)
}

func TestCheckHeuristicConsistencyTolerance(t *testing.T) {
	g := NewGraph(false)
	require.NoError(t, g.AddNode(Node{ID: 1, Point: GeoPoint{Lat: 55.75, Lon: 37.61}}))
	require.NoError(t, g.AddNode(Node{ID: 2, Point: GeoPoint{Lat: 55.751, Lon: 37.61}}))
	length := GreatCircleDistance(GeoPoint{Lat: 55.75, Lon: 37.61}, GeoPoint{Lat: 55.751, Lon: 37.61})
	// Rounded down to decimeters like lengths stored by osmnx
	require.NoError(t, g.AddEdge(1, 2, length-0.09))

	_, err := CheckHeuristicConsistency(g, DefaultConsistencyTolerance)
	assert.NoError(t, err)
	_, err = CheckHeuristicConsistency(g, 0)
	assert.ErrorIs(t, err, ErrInadmissibleHeuristic)
}

func TestHeuristics(t *testing.T) {
	p := GeoPoint{Lat: 55.75, Lon: 37.61}
	q := GeoPoint{Lat: 55.76, Lon: 37.62}
	assert.Equal(t, GreatCircleDistance(p, q), GreatCircleHeuristic(p, q))
	assert.Equal(t, 0.0, ZeroHeuristic(p, q))
}
