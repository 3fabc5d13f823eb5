package walkroute

import (
	"github.com/paulmach/osm"
)

// walkWay is an OSM way reduced to the tags pedestrian routing cares about
type walkWay struct {
	ID       osm.WayID
	Nodes    []osm.NodeID
	name     string
	highway  string
	access   string
	service  string
	foot     string
	area     string
	onewayFt string
}

func newWalkWay(way *osm.Way) *walkWay {
	prepared := &walkWay{
		ID:       way.ID,
		Nodes:    make([]osm.NodeID, 0, len(way.Nodes)),
		name:     way.Tags.Find("name"),
		highway:  way.Tags.Find("highway"),
		access:   way.Tags.Find("access"),
		service:  way.Tags.Find("service"),
		foot:     way.Tags.Find("foot"),
		area:     way.Tags.Find("area"),
		onewayFt: way.Tags.Find("oneway:foot"),
	}
	for _, node := range way.Nodes {
		prepared.Nodes = append(prepared.Nodes, node.ID)
	}
	return prepared
}

func (way *walkWay) isHighway() bool {
	return way.highway != ""
}

func (way *walkWay) isHighwayNegligible() bool {
	_, ok := negligibleHighwayTags[way.highway]
	return ok
}

func (way *walkWay) tagValue(accessType AccessType) string {
	switch accessType {
	case ACCESS_HIGHWAY:
		return way.highway
	case ACCESS_OSM_ACCESS:
		return way.access
	case ACCESS_SERVICE:
		return way.service
	case ACCESS_FOOT:
		return way.foot
	case ACCESS_AREA:
		return way.area
	default:
		return ""
	}
}

// isIncluded checks if way is explicitly opened for pedestrians
func (way *walkWay) isIncluded() bool {
	for accessType, values := range walkAccessInclude {
		if _, ok := values[way.tagValue(accessType)]; ok {
			return true
		}
	}
	return false
}

// isExcluded checks if any tag closes way for pedestrians
func (way *walkWay) isExcluded() bool {
	for accessType, values := range walkAccessExclude {
		if _, ok := values[way.tagValue(accessType)]; ok {
			return true
		}
	}
	return false
}

// isWalkable checks if pedestrians may use the way
func (way *walkWay) isWalkable() bool {
	if !way.isHighway() || way.isHighwayNegligible() || len(way.Nodes) < 2 {
		return false
	}
	if way.isIncluded() {
		// Explicit foot access does not turn an area outline into a walking line
		return way.area != "yes"
	}
	return !way.isExcluded()
}

// direction returns 0 for two-way ways, 1 for forward-only and -1 for reversed-only ways
func (way *walkWay) direction() int {
	if _, ok := onewayFootForward[way.onewayFt]; ok {
		return 1
	}
	if _, ok := onewayFootReversed[way.onewayFt]; ok {
		return -1
	}
	return 0
}
