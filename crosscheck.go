package walkroute

import (
	"context"
	"math"
	"math/rand"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// ContractionReference is an independent shortest path oracle built on contraction hierarchies.
// It is used to verify A* results, not to serve requests
type ContractionReference struct {
	graph *ch.Graph
}

// NewContractionReference copies graph into contraction hierarchies graph and contracts it
func NewContractionReference(g *Graph) (*ContractionReference, error) {
	graph := ch.Graph{}
	for _, node := range g.nodes {
		err := graph.CreateVertex(int64(node.ID))
		if err != nil {
			return nil, errors.Wrapf(err, "Can not create vertex %d", node.ID)
		}
	}
	// Parallel edges collapse into the cheapest one
	type pair struct {
		source int64
		target int64
	}
	order := []pair{}
	weights := make(map[pair]float64)
	addArc := func(source, target NodeID, weight float64) {
		key := pair{int64(source), int64(target)}
		if current, ok := weights[key]; ok {
			weights[key] = math.Min(current, weight)
			return
		}
		weights[key] = weight
		order = append(order, key)
	}
	for _, e := range g.edges {
		if e.Source == e.Target {
			// Loops never shorten a path
			continue
		}
		addArc(e.Source, e.Target, e.Weight)
		if !g.directed {
			addArc(e.Target, e.Source, e.Weight)
		}
	}
	for _, key := range order {
		err := graph.AddEdge(key.source, key.target, weights[key])
		if err != nil {
			return nil, errors.Wrapf(err, "Can not wrap vertices %d and %d as Edge", key.source, key.target)
		}
	}
	graph.PrepareContractionHierarchies()
	return &ContractionReference{graph: &graph}, nil
}

// ShortestCost returns cost of shortest path. False means target is unreachable
func (ref *ContractionReference) ShortestCost(source, target NodeID) (float64, bool) {
	if source == target {
		return 0, true
	}
	cost, _ := ref.graph.ShortestPath(int64(source), int64(target))
	if cost < 0 {
		return 0, false
	}
	return cost, true
}

// Mismatch is a pair of nodes on which A* and reference disagree
type Mismatch struct {
	Source    NodeID
	Target    NodeID
	AStar     float64
	Reference float64
	Err       error
}

// CrossCheckReport aggregates results of CrossCheck
type CrossCheckReport struct {
	Pairs       int
	Agreed      int
	Unreachable int
	Mismatches  []Mismatch
}

// CrossCheck runs router search on each pair and compares costs with reference.
// Costs are equal when they differ by less than 1e-6 relative (or 1e-6 absolute for short paths)
func CrossCheck(ctx context.Context, router *Router, ref *ContractionReference, pairs [][2]NodeID) (CrossCheckReport, error) {
	report := CrossCheckReport{}
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, "cross-check interrupted")
		}
		report.Pairs++
		refCost, reachable := ref.ShortestCost(pair[0], pair[1])
		path, _, err := router.FindPath(ctx, pair[0], pair[1])
		switch {
		case err != nil && errors.Is(err, ErrNoPathFound) && !reachable:
			report.Agreed++
			report.Unreachable++
		case err != nil:
			report.Mismatches = append(report.Mismatches, Mismatch{Source: pair[0], Target: pair[1], Reference: refCost, Err: err})
		case !reachable:
			report.Mismatches = append(report.Mismatches, Mismatch{Source: pair[0], Target: pair[1], AStar: path.Cost, Reference: math.Inf(1)})
		case costsEqual(path.Cost, refCost):
			report.Agreed++
		default:
			report.Mismatches = append(report.Mismatches, Mismatch{Source: pair[0], Target: pair[1], AStar: path.Cost, Reference: refCost})
		}
	}
	return report, nil
}

func costsEqual(a, b float64) bool {
	diff := math.Abs(a - b)
	return diff <= 1e-6 || diff <= 1e-6*math.Max(math.Abs(a), math.Abs(b))
}

// SamplePairs picks n random (source, target) pairs of graph nodes
func SamplePairs(g *Graph, n int, seed int64) [][2]NodeID {
	if len(g.nodes) == 0 {
		return nil
	}
	rnd := rand.New(rand.NewSource(seed))
	pairs := make([][2]NodeID, n)
	for i := range pairs {
		pairs[i] = [2]NodeID{
			g.nodes[rnd.Intn(len(g.nodes))].ID,
			g.nodes[rnd.Intn(len(g.nodes))].ID,
		}
	}
	return pairs
}
