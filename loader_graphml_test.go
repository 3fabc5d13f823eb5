package walkroute

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const osmnxGraphML = `<?xml version='1.0' encoding='utf-8'?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="http://graphml.graphdrawing.org/xmlns http://graphml.graphdrawing.org/xmlns/1.0/graphml.xsd">
  <key id="d4" for="node" attr.name="y" attr.type="string" />
  <key id="d5" for="node" attr.name="x" attr.type="string" />
  <key id="d6" for="node" attr.name="name" attr.type="string" />
  <key id="d9" for="edge" attr.name="length" attr.type="string" />
  <key id="d10" for="edge" attr.name="highway" attr.type="string" />
  <graph edgedefault="directed">
    <node id="101">
      <data key="d4">55.7500</data>
      <data key="d5">37.6100</data>
      <data key="d6">Library</data>
    </node>
    <node id="102">
      <data key="d4">55.7505</data>
      <data key="d5">37.6100</data>
    </node>
    <node id="103">
      <data key="d4">55.7505</data>
      <data key="d5">37.6110</data>
    </node>
    <edge source="101" target="102">
      <data key="d9">55.7</data>
      <data key="d10">footway</data>
    </edge>
    <edge source="102" target="101">
      <data key="d9">55.7</data>
    </edge>
    <edge source="102" target="103" directed="false">
      <data key="d9">62.9</data>
    </edge>
  </graph>
</graphml>`

func TestGraphMLOsmnx(t *testing.T) {
	g, err := NewLoader("campus.graphml", WithWeightAttribute("length")).readGraphMLFrom(strings.NewReader(osmnxGraphML))
	require.NoError(t, err)
	assert.True(t, g.Directed())
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, []Edge{
		{Source: 101, Target: 102, Weight: 55.7},
		{Source: 102, Target: 101, Weight: 55.7},
		{Source: 102, Target: 103, Weight: 62.9},
		{Source: 103, Target: 102, Weight: 62.9},
	}, g.Edges())
	node, ok := g.Node(101)
	require.True(t, ok)
	assert.Equal(t, GeoPoint{Lat: 55.75, Lon: 37.61}, node.Point)
	assert.Equal(t, "Library", node.Label)

	router, err := NewRouter(g)
	require.NoError(t, err)
	assert.Equal(t, HeuristicGeodesic, router.ActiveHeuristic())
}

func TestGraphMLDefaultWeight(t *testing.T) {
	g, err := NewLoader("campus.graphml").readGraphMLFrom(strings.NewReader(osmnxGraphML))
	require.NoError(t, err)
	for _, e := range g.Edges() {
		assert.Equal(t, DefaultEdgeWeight, e.Weight)
	}
	g, err = NewLoader("campus.graphml", WithDefaultWeight(3)).readGraphMLFrom(strings.NewReader(osmnxGraphML))
	require.NoError(t, err)
	assert.Equal(t, 3.0, g.Edges()[0].Weight)
}

func TestGraphMLStringIDs(t *testing.T) {
	data := `<graphml>
  <key id="lat" for="node" attr.name="lat" />
  <key id="lon" for="node" attr.name="lon" />
  <key id="w" for="edge" attr.name="weight"><default>2.5</default></key>
  <graph edgedefault="undirected">
    <node id="gate"><data key="lat">0</data><data key="lon">0</data></node>
    <node id="hall"><data key="lat">0</data><data key="lon">1</data></node>
    <node id="lab"><data key="lat">1</data><data key="lon">1</data></node>
    <edge source="gate" target="hall"><data key="w">1</data></edge>
    <edge source="hall" target="lab" />
  </graph>
</graphml>`
	g, err := NewLoader("names.graphml").readGraphMLFrom(strings.NewReader(data))
	require.NoError(t, err)
	assert.False(t, g.Directed())
	labels := []string{}
	for _, node := range g.Nodes() {
		labels = append(labels, node.Label)
	}
	assert.Equal(t, []string{"gate", "hall", "lab"}, labels)
	assert.Equal(t, []Edge{
		{Source: 1, Target: 2, Weight: 1},
		{Source: 2, Target: 3, Weight: 2.5},
	}, g.Edges())
	lab, ok := g.Node(3)
	require.True(t, ok)
	assert.Equal(t, GeoPoint{Lat: 1, Lon: 1}, lab.Point)
}

func TestGraphMLErrors(t *testing.T) {
	header := `<graphml><key id="x" for="node" attr.name="x"/><key id="y" for="node" attr.name="y"/><key id="w" for="edge" attr.name="weight"/>`
	cases := []struct {
		name string
		data string
		err  error
	}{
		{
			name: "missing coordinate",
			data: header + `<graph><node id="1"><data key="x">1</data></node></graph></graphml>`,
			err:  ErrInvalidCoordinate,
		},
		{
			name: "broken coordinate",
			data: header + `<graph><node id="1"><data key="x">1</data><data key="y">north</data></node></graph></graphml>`,
			err:  ErrInvalidCoordinate,
		},
		{
			name: "negative weight",
			data: header + `<graph><node id="1"><data key="x">1</data><data key="y">1</data></node><node id="2"><data key="x">2</data><data key="y">1</data></node><edge source="1" target="2"><data key="w">-4</data></edge></graph></graphml>`,
			err:  ErrInvalidWeight,
		},
		{
			name: "unparsable weight",
			data: header + `<graph><node id="1"><data key="x">1</data><data key="y">1</data></node><node id="2"><data key="x">2</data><data key="y">1</data></node><edge source="1" target="2"><data key="w">far</data></edge></graph></graphml>`,
			err:  ErrInvalidWeight,
		},
		{
			name: "unknown endpoint",
			data: header + `<graph><node id="1"><data key="x">1</data><data key="y">1</data></node><edge source="1" target="7"/></graph></graphml>`,
			err:  ErrNodeNotFound,
		},
		{
			name: "duplicate node",
			data: header + `<graph><node id="1"><data key="x">1</data><data key="y">1</data></node><node id="1"><data key="x">1</data><data key="y">1</data></node></graph></graphml>`,
			err:  ErrDuplicateNode,
		},
	}
	for _, c := range cases {
		_, err := NewLoader("broken.graphml").readGraphMLFrom(strings.NewReader(c.data))
		assert.ErrorIs(t, err, c.err, c.name)
	}
	_, err := NewLoader("broken.graphml").readGraphMLFrom(strings.NewReader(`<gexf></gexf>`))
	assert.Error(t, err)
}

func TestLoadGraph(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "campus.graphml")
	require.NoError(t, os.WriteFile(fileName, []byte(osmnxGraphML), 0o644))
	g, err := LoadGraph(context.Background(), fileName, WithWeightAttribute("length"))
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes())

	_, err = LoadGraph(context.Background(), filepath.Join(dir, "campus.shp"))
	assert.Error(t, err)
	_, err = LoadGraph(context.Background(), filepath.Join(dir, "missing.graphml"))
	assert.Error(t, err)
}
