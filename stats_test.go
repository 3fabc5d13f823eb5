package walkroute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphStats(t *testing.T) {
	g := squareGraph(t, false)
	require.NoError(t, g.AddNode(Node{ID: 5, Point: GeoPoint{Lat: 5, Lon: 5}}))
	require.NoError(t, g.AddNode(Node{ID: 6, Point: GeoPoint{Lat: 6, Lon: 6}}))
	require.NoError(t, g.AddNode(Node{ID: 7, Point: GeoPoint{Lat: 7, Lon: 7}}))
	require.NoError(t, g.AddEdge(6, 7, 2.5))

	stats := g.Stats()
	assert.Equal(t, GraphStats{
		Nodes:            7,
		Edges:            5,
		Directed:         false,
		Components:       3,
		LargestComponent: 4,
		IsolatedNodes:    1,
		MaxDegree:        2,
		MeanDegree:       10.0 / 7.0,
		TotalWeight:      10.5,
	}, stats)
}

func TestGraphStatsEmpty(t *testing.T) {
	assert.Equal(t, GraphStats{Directed: true}, NewGraph(true).Stats())
}
