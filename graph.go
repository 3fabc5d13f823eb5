package walkroute

import (
	"math"

	"github.com/pkg/errors"
)

// DefaultEdgeWeight is used by loaders when source data carries no weight for an edge
const DefaultEdgeWeight = 1.0

// NodeID is an identifier of node. It is opaque and stable within a single Graph
type NodeID int64

// Node is a vertex of walkable network
type Node struct {
	ID    NodeID
	Point GeoPoint
	Label string
}

// Edge connects two nodes. For undirected graphs it is walkable both ways
type Edge struct {
	Source NodeID
	Target NodeID
	Weight float64
}

// arc is an outgoing half of an edge in terms of internal node indices
type arc struct {
	to     int
	weight float64
}

// Graph is a weighted graph of pedestrian network.
//
// Graph is built by a single goroutine (AddNode / AddEdge) and must not be mutated after it has been
// handed to a Router or a search: concurrent searches read it without locks.
// Nodes are iterated in insertion order.
type Graph struct {
	directed bool
	nodes    []Node
	index    map[NodeID]int
	arcs     [][]arc
	edges    []Edge
	// shortEdges counts edges shorter than straight line between endpoints (beyond DefaultConsistencyTolerance)
	shortEdges int
}

// NewGraph returns empty graph
func NewGraph(directed bool) *Graph {
	return &Graph{
		directed: directed,
		index:    make(map[NodeID]int),
	}
}

// Directed reports whether edges are one-way
func (g *Graph) Directed() bool {
	return g.directed
}

// AddNode inserts node. Position must be finite and identifier must be new
func (g *Graph) AddNode(node Node) error {
	if !node.Point.IsFinite() {
		return errors.Wrapf(ErrInvalidCoordinate, "node %d", node.ID)
	}
	if _, ok := g.index[node.ID]; ok {
		return errors.Wrapf(ErrDuplicateNode, "node %d", node.ID)
	}
	g.index[node.ID] = len(g.nodes)
	g.nodes = append(g.nodes, node)
	g.arcs = append(g.arcs, nil)
	return nil
}

// AddEdge inserts edge between two existing nodes.
// Weight must be finite and non-negative, otherwise ErrInvalidWeight is returned and graph is not changed.
// Parallel edges are kept as is.
func (g *Graph) AddEdge(source, target NodeID, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return errors.Wrapf(ErrInvalidWeight, "edge %d->%d weight=%f", source, target, weight)
	}
	sourceIdx, ok := g.index[source]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "source of edge %d->%d", source, target)
	}
	targetIdx, ok := g.index[target]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "target of edge %d->%d", source, target)
	}
	g.arcs[sourceIdx] = append(g.arcs[sourceIdx], arc{to: targetIdx, weight: weight})
	if !g.directed && sourceIdx != targetIdx {
		g.arcs[targetIdx] = append(g.arcs[targetIdx], arc{to: sourceIdx, weight: weight})
	}
	g.edges = append(g.edges, Edge{Source: source, Target: target, Weight: weight})
	if GreatCircleDistance(g.nodes[sourceIdx].Point, g.nodes[targetIdx].Point)-weight > DefaultConsistencyTolerance {
		g.shortEdges++
	}
	return nil
}

// Metric reports whether every edge weight is at least the great-circle distance between its endpoints
// (within DefaultConsistencyTolerance), i.e. GreatCircleHeuristic is admissible on this graph
func (g *Graph) Metric() bool {
	return g.shortEdges == 0
}

// NumNodes returns number of nodes
func (g *Graph) NumNodes() int {
	return len(g.nodes)
}

// NumEdges returns number of edges as they were added (undirected edge is counted once)
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Node returns node by its identifier
func (g *Graph) Node(id NodeID) (Node, bool) {
	idx, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[idx], true
}

// Nodes returns copy of nodes in insertion order
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Edges returns copy of edges in insertion order
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// Neighbors returns edges leaving given node. For undirected graph Source of every returned edge is id.
func (g *Graph) Neighbors(id NodeID) ([]Edge, error) {
	idx, ok := g.index[id]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "node %d", id)
	}
	out := make([]Edge, 0, len(g.arcs[idx]))
	for _, a := range g.arcs[idx] {
		out = append(out, Edge{Source: id, Target: g.nodes[a.to].ID, Weight: a.weight})
	}
	return out, nil
}

// Points maps sequence of node identifiers to their positions
func (g *Graph) Points(ids []NodeID) ([]GeoPoint, error) {
	pts := make([]GeoPoint, len(ids))
	for i, id := range ids {
		idx, ok := g.index[id]
		if !ok {
			return nil, errors.Wrapf(ErrNodeNotFound, "node %d", id)
		}
		pts[i] = g.nodes[idx].Point
	}
	return pts, nil
}
