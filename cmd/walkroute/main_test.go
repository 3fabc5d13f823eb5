package main

import (
	"bytes"
	"testing"

	"github.com/LdDl/walkroute"
	"github.com/LdDl/walkroute/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLatLon(t *testing.T) {
	pt, err := parseLatLon("55.7512, 37.6184")
	require.NoError(t, err)
	assert.Equal(t, walkroute.GeoPoint{Lat: 55.7512, Lon: 37.6184}, pt)

	for _, bad := range []string{"", "55.75", "a,b", "55,b", "1,2,3", "91,0", "0,181", "NaN,0"} {
		_, err := parseLatLon(bad)
		assert.Error(t, err, bad)
	}
	_, err = parseLatLon("95,0")
	assert.ErrorIs(t, err, walkroute.ErrInvalidCoordinate)
}

func TestResolveEndpointWithoutPlaces(t *testing.T) {
	_, err := resolveEndpoint(server.DefaultConfig(), "Library")
	assert.Error(t, err)
}

func TestDegreeHistogram(t *testing.T) {
	g := walkroute.NewGraph(false)
	for i, lat := range []float64{0, 0.001, 0.002, 0.003} {
		require.NoError(t, g.AddNode(walkroute.Node{ID: walkroute.NodeID(i + 1), Point: walkroute.GeoPoint{Lat: lat, Lon: 0}}))
	}
	require.NoError(t, g.AddEdge(1, 2, 200))
	require.NoError(t, g.AddEdge(2, 3, 200))

	histogram := degreeHistogram(g)
	assert.Equal(t, map[int]int{0: 1, 1: 2, 2: 1}, histogram)

	buf := bytes.Buffer{}
	printDegrees(&buf, histogram)
	assert.Equal(t, "degree histogram:\n    0: 1\n    1: 2\n    2: 1\n", buf.String())
}

func TestRootCommand(t *testing.T) {
	root := newRootCommand()
	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "route", "verify", "inspect", "export"}, names)
}
