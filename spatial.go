package walkroute

import (
	"math"

	"github.com/pkg/errors"
)

// SpatialIndex snaps arbitrary coordinates to graph nodes.
//
// Implementations must return the node with the minimum great-circle distance to target (meters) and,
// among equally distant nodes, the one added to the graph first.
type SpatialIndex interface {
	Nearest(target GeoPoint) (NodeID, float64, error)
}

// LinearIndex scans every node on every query. O(N) per call
type LinearIndex struct {
	g *Graph
}

// NewLinearIndex returns brute-force index over graph nodes
func NewLinearIndex(g *Graph) *LinearIndex {
	return &LinearIndex{g: g}
}

// Nearest implements SpatialIndex
func (idx *LinearIndex) Nearest(target GeoPoint) (NodeID, float64, error) {
	if err := checkQuery(idx.g, target); err != nil {
		return 0, 0, err
	}
	best := -1
	bestDist := math.Inf(1)
	for i := range idx.g.nodes {
		d := GreatCircleDistance(target, idx.g.nodes[i].Point)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return idx.g.nodes[best].ID, bestDist, nil
}

// NearestNode returns identifier of node geodesically nearest to target
func NearestNode(g *Graph, target GeoPoint) (NodeID, error) {
	id, _, err := NewLinearIndex(g).Nearest(target)
	return id, err
}

func checkQuery(g *Graph, target GeoPoint) error {
	if len(g.nodes) == 0 {
		return ErrEmptyGraph
	}
	if !target.IsFinite() {
		return errors.Wrapf(ErrInvalidCoordinate, "lat=%f lon=%f", target.Lat, target.Lon)
	}
	return nil
}
