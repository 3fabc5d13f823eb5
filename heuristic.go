package walkroute

import (
	"github.com/pkg/errors"
)

// DefaultConsistencyTolerance is slack (meters) allowed by CheckHeuristicConsistency for rounding of
// stored edge lengths
const DefaultConsistencyTolerance = 0.5

// Heuristic estimates remaining cost between two points.
//
// A* returns optimal paths only if the estimate never exceeds the true remaining cost. For
// GreatCircleHeuristic that means edge weights must be lengths in meters (or anything not shorter
// than the straight line between edge endpoints).
type Heuristic func(from, to GeoPoint) float64

// GreatCircleHeuristic estimates remaining cost as great-circle distance in meters
func GreatCircleHeuristic(from, to GeoPoint) float64 {
	return GreatCircleDistance(from, to)
}

// ZeroHeuristic turns A* into Dijkstra's algorithm. It is admissible for any non-negative weights
func ZeroHeuristic(from, to GeoPoint) float64 {
	return 0
}

// ConsistencyReport describes how edge weights relate to straight-line distances
type ConsistencyReport struct {
	Checked    int
	Violations int
	// Worst is the edge with the largest shortfall against the straight line between its endpoints
	Worst Edge
	// WorstShortfall is how much shorter (meters) than the straight line the worst edge is
	WorstShortfall float64
}

// CheckHeuristicConsistency verifies that every edge weight is at least the great-circle distance
// between its endpoints (minus tolerance). When it holds, GreatCircleHeuristic is consistent for any
// goal, hence admissible. Otherwise ErrInadmissibleHeuristic is returned together with the report.
func CheckHeuristicConsistency(g *Graph, tolerance float64) (ConsistencyReport, error) {
	report := ConsistencyReport{}
	for _, e := range g.edges {
		report.Checked++
		source := g.nodes[g.index[e.Source]].Point
		target := g.nodes[g.index[e.Target]].Point
		shortfall := GreatCircleDistance(source, target) - e.Weight
		if shortfall <= tolerance {
			continue
		}
		report.Violations++
		if shortfall > report.WorstShortfall {
			report.WorstShortfall = shortfall
			report.Worst = e
		}
	}
	if report.Violations > 0 {
		return report, errors.Wrapf(
			ErrInadmissibleHeuristic,
			"%d of %d edges are shorter than straight line, worst %d->%d weight=%f short by %f m",
			report.Violations, report.Checked, report.Worst.Source, report.Worst.Target, report.Worst.Weight, report.WorstShortfall,
		)
	}
	return report, nil
}
