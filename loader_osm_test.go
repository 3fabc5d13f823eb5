package walkroute

import (
	"context"
	"strings"
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const campusOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="55.7500" lon="37.6100"><tag k="name" v="Main gate"/></node>
  <node id="2" lat="55.7505" lon="37.6100"/>
  <node id="3" lat="55.7510" lon="37.6100"/>
  <node id="4" lat="55.7510" lon="37.6110"/>
  <node id="5" lat="55.7500" lon="37.6110"/>
  <node id="6" lat="55.7600" lon="37.6200"/>
  <node id="7" lat="55.7605" lon="37.6200"/>
  <way id="10">
    <nd ref="1"/><nd ref="2"/><nd ref="3"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="11">
    <nd ref="3"/><nd ref="4"/>
    <tag k="highway" v="residential"/>
    <tag k="oneway" v="yes"/>
  </way>
  <way id="12">
    <nd ref="5"/><nd ref="6"/>
    <tag k="highway" v="motorway"/>
  </way>
  <way id="13">
    <nd ref="4"/><nd ref="5"/>
    <tag k="highway" v="service"/>
    <tag k="service" v="private"/>
    <tag k="foot" v="yes"/>
  </way>
  <way id="14">
    <nd ref="6"/><nd ref="7"/>
    <tag k="highway" v="path"/>
    <tag k="access" v="private"/>
  </way>
  <way id="15">
    <nd ref="1"/><nd ref="5"/>
    <tag k="building" v="yes"/>
  </way>
  <way id="16">
    <nd ref="3"/><nd ref="99"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="17">
    <nd ref="1"/><nd ref="2"/>
    <tag k="highway" v="footway"/>
  </way>
</osm>`

func TestReadOSMWalkable(t *testing.T) {
	g, err := NewLoader("campus.osm").readOSMFrom(context.Background(), strings.NewReader(campusOSM))
	require.NoError(t, err)
	assert.False(t, g.Directed())

	ids := []NodeID{}
	for _, node := range g.Nodes() {
		ids = append(ids, node.ID)
	}
	assert.Equal(t, []NodeID{1, 2, 3, 4, 5}, ids)
	gate, ok := g.Node(1)
	require.True(t, ok)
	assert.Equal(t, "Main gate", gate.Label)

	pairs := [][2]NodeID{}
	for _, e := range g.Edges() {
		pairs = append(pairs, [2]NodeID{e.Source, e.Target})
		source, _ := g.Node(e.Source)
		target, _ := g.Node(e.Target)
		assert.Equal(t, GreatCircleDistance(source.Point, target.Point), e.Weight)
	}
	assert.Equal(t, [][2]NodeID{{1, 2}, {2, 3}, {3, 4}, {4, 5}}, pairs)

	_, err = CheckHeuristicConsistency(g, 0)
	assert.NoError(t, err)
}

func TestReadOSMHighwayFilter(t *testing.T) {
	g, err := NewLoader("campus.osm", WithHighwayTags([]string{"footway"})).readOSMFrom(context.Background(), strings.NewReader(campusOSM))
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())
}

func TestReadOSMOnewayFoot(t *testing.T) {
	data := `<osm version="0.6">
  <node id="1" lat="0" lon="0"/>
  <node id="2" lat="0" lon="0.001"/>
  <node id="3" lat="0" lon="0.002"/>
  <way id="1"><nd ref="1"/><nd ref="2"/><tag k="highway" v="steps"/><tag k="oneway:foot" v="yes"/></way>
  <way id="2"><nd ref="3"/><nd ref="2"/><tag k="highway" v="pedestrian"/><tag k="oneway:foot" v="-1"/></way>
  <way id="3"><nd ref="1"/><nd ref="3"/><tag k="highway" v="footway"/></way>
</osm>`
	g, err := NewLoader("steps.osm").readOSMFrom(context.Background(), strings.NewReader(data))
	require.NoError(t, err)
	assert.True(t, g.Directed())
	pairs := [][2]NodeID{}
	for _, e := range g.Edges() {
		pairs = append(pairs, [2]NodeID{e.Source, e.Target})
	}
	assert.Equal(t, [][2]NodeID{{1, 2}, {2, 3}, {1, 3}, {3, 1}}, pairs)

	_, err = FindPath(context.Background(), g, 1, 3)
	require.NoError(t, err)
	path, err := FindPath(context.Background(), g, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []NodeID{3, 1, 2}, path.Nodes)
}

func TestWalkWayAccess(t *testing.T) {
	cases := []struct {
		tags     osm.Tags
		walkable bool
	}{
		{osm.Tags{{Key: "highway", Value: "footway"}}, true},
		{osm.Tags{{Key: "highway", Value: "primary"}}, true},
		{osm.Tags{{Key: "highway", Value: "motorway"}}, false},
		{osm.Tags{{Key: "highway", Value: "cycleway"}}, false},
		{osm.Tags{{Key: "highway", Value: "cycleway"}, {Key: "foot", Value: "designated"}}, true},
		{osm.Tags{{Key: "highway", Value: "path"}, {Key: "foot", Value: "no"}}, false},
		{osm.Tags{{Key: "highway", Value: "service"}, {Key: "access", Value: "private"}}, false},
		{osm.Tags{{Key: "highway", Value: "service"}, {Key: "access", Value: "private"}, {Key: "foot", Value: "permissive"}}, true},
		{osm.Tags{{Key: "highway", Value: "pedestrian"}, {Key: "area", Value: "yes"}}, false},
		{osm.Tags{{Key: "highway", Value: "pedestrian"}, {Key: "area", Value: "yes"}, {Key: "foot", Value: "yes"}}, false},
		{osm.Tags{{Key: "highway", Value: "construction"}}, false},
		{osm.Tags{{Key: "building", Value: "yes"}}, false},
	}
	for _, c := range cases {
		way := newWalkWay(&osm.Way{
			ID:    1,
			Nodes: osm.WayNodes{{ID: 1}, {ID: 2}},
			Tags:  c.tags,
		})
		assert.Equal(t, c.walkable, way.isWalkable(), "%v", c.tags)
	}
}
