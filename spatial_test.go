package walkroute

import (
	"math"
	"testing"

	"github.com/brianvoe/gofakeit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeNodes(t testing.TB) *Graph {
	g := NewGraph(false)
	require.NoError(t, g.AddNode(Node{ID: 1, Point: GeoPoint{Lat: 55.7500, Lon: 37.6100}}))
	require.NoError(t, g.AddNode(Node{ID: 2, Point: GeoPoint{Lat: 55.7600, Lon: 37.6200}}))
	require.NoError(t, g.AddNode(Node{ID: 3, Point: GeoPoint{Lat: 55.7700, Lon: 37.6300}}))
	return g
}

func spatialIndexes(g *Graph) map[string]SpatialIndex {
	return map[string]SpatialIndex{
		"linear": NewLinearIndex(g),
		"kdtree": NewKDTreeIndex(g),
	}
}

func TestNearestNode(t *testing.T) {
	g := threeNodes(t)
	id, err := NearestNode(g, GeoPoint{Lat: 55.7590, Lon: 37.6210})
	require.NoError(t, err)
	assert.Equal(t, NodeID(2), id)

	for name, index := range spatialIndexes(g) {
		id, dist, err := index.Nearest(GeoPoint{Lat: 55.7500, Lon: 37.6100})
		require.NoError(t, err, name)
		assert.Equal(t, NodeID(1), id, name)
		assert.Equal(t, 0.0, dist, name)

		id, dist, err = index.Nearest(GeoPoint{Lat: 55.7710, Lon: 37.6290})
		require.NoError(t, err, name)
		assert.Equal(t, NodeID(3), id, name)
		assert.InDelta(t, GreatCircleDistance(GeoPoint{Lat: 55.7710, Lon: 37.6290}, GeoPoint{Lat: 55.7700, Lon: 37.6300}), dist, 1e-9, name)
	}
}

func TestNearestNodeEmptyGraph(t *testing.T) {
	g := NewGraph(false)
	_, err := NearestNode(g, GeoPoint{Lat: 1, Lon: 1})
	assert.ErrorIs(t, err, ErrEmptyGraph)
	for name, index := range spatialIndexes(g) {
		_, _, err := index.Nearest(GeoPoint{Lat: 1, Lon: 1})
		assert.ErrorIs(t, err, ErrEmptyGraph, name)
	}
}

func TestNearestNodeInvalidCoordinate(t *testing.T) {
	g := threeNodes(t)
	for name, index := range spatialIndexes(g) {
		_, _, err := index.Nearest(GeoPoint{Lat: math.NaN(), Lon: 1})
		assert.ErrorIs(t, err, ErrInvalidCoordinate, name)
		_, _, err = index.Nearest(GeoPoint{Lat: 1, Lon: math.Inf(1)})
		assert.ErrorIs(t, err, ErrInvalidCoordinate, name)
	}
}

func TestNearestNodeTieBreak(t *testing.T) {
	g := NewGraph(false)
	// Two nodes at the same position and one mirrored around the query point
	require.NoError(t, g.AddNode(Node{ID: 30, Point: GeoPoint{Lat: 0, Lon: 0.001}}))
	require.NoError(t, g.AddNode(Node{ID: 20, Point: GeoPoint{Lat: 0, Lon: -0.001}}))
	require.NoError(t, g.AddNode(Node{ID: 10, Point: GeoPoint{Lat: 0, Lon: -0.001}}))
	for name, index := range spatialIndexes(g) {
		id, _, err := index.Nearest(GeoPoint{Lat: 0, Lon: 0})
		require.NoError(t, err, name)
		assert.Equal(t, NodeID(30), id, name)

		id, dist, err := index.Nearest(GeoPoint{Lat: 0, Lon: -0.001})
		require.NoError(t, err, name)
		assert.Equal(t, NodeID(20), id, name)
		assert.Equal(t, 0.0, dist, name)
	}
}

func TestKDTreeMatchesLinear(t *testing.T) {
	g := randomGraph(t, 11, 500, 500, false)
	// Duplicated positions make ties likely
	for i, node := range g.Nodes()[:50] {
		require.NoError(t, g.AddNode(Node{ID: NodeID(10000 + i), Point: node.Point}))
	}
	linear := NewLinearIndex(g)
	tree := NewKDTreeIndex(g)
	gofakeit.Seed(12)
	queries := []GeoPoint{}
	for i := 0; i < 300; i++ {
		queries = append(queries, GeoPoint{
			Lat: 55.73 + float64(gofakeit.Number(0, 40000))/1e6,
			Lon: 37.60 + float64(gofakeit.Number(0, 50000))/1e6,
		})
	}
	for _, node := range g.Nodes()[:100] {
		queries = append(queries, node.Point)
	}
	// Far away queries
	queries = append(queries, GeoPoint{Lat: -33.8688, Lon: 151.2093}, GeoPoint{Lat: 90, Lon: 0}, GeoPoint{Lat: -55.74, Lon: -142.39})
	for _, q := range queries {
		expectedID, expectedDist, err := linear.Nearest(q)
		require.NoError(t, err)
		id, dist, err := tree.Nearest(q)
		require.NoError(t, err)
		assert.Equal(t, expectedID, id, "query %s", q)
		assert.Equal(t, expectedDist, dist, "query %s", q)
	}
}

func TestKDTreeMatchesLinearGlobalGrid(t *testing.T) {
	// poles repeat for every longitude and lon=180 repeats lon=-180, so exact ties are everywhere
	g := NewGraph(false)
	id := NodeID(1)
	for lat := -90.0; lat <= 90; lat += 15 {
		for lon := -180.0; lon <= 180; lon += 30 {
			require.NoError(t, g.AddNode(Node{ID: id, Point: GeoPoint{Lat: lat, Lon: lon}}))
			id++
		}
	}
	linear := NewLinearIndex(g)
	tree := NewKDTreeIndex(g)

	queries := []GeoPoint{
		{Lat: 90, Lon: 0}, {Lat: -90, Lon: 77}, {Lat: 0, Lon: 180}, {Lat: 0, Lon: -180},
		{Lat: 45, Lon: 179.999999}, {Lat: -45, Lon: -179.999999},
	}
	// midpoints between neighbouring grid nodes are equidistant to both
	for lat := -82.5; lat <= 82.5; lat += 15 {
		for lon := -165.0; lon <= 165; lon += 30 {
			queries = append(queries, GeoPoint{Lat: lat, Lon: lon}, GeoPoint{Lat: lat + 7.5, Lon: lon}, GeoPoint{Lat: lat, Lon: lon + 15})
		}
	}
	gofakeit.Seed(21)
	for i := 0; i < 3000; i++ {
		queries = append(queries, GeoPoint{
			Lat: float64(gofakeit.Number(-90000000, 90000000)) / 1e6,
			Lon: float64(gofakeit.Number(-180000000, 180000000)) / 1e6,
		})
	}
	for _, q := range queries {
		expectedID, expectedDist, err := linear.Nearest(q)
		require.NoError(t, err)
		id, dist, err := tree.Nearest(q)
		require.NoError(t, err)
		assert.Equal(t, expectedID, id, "query %s", q)
		assert.Equal(t, expectedDist, dist, "query %s", q)
	}
}
