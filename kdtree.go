package walkroute

import (
	"math"
	"sort"
)

// kdEpsilon absorbs rounding difference (meters) between the pruning bound and haversine distances
const kdEpsilon = 1e-6

type kdNode struct {
	node  int // index of node in graph
	vec   [3]float64
	axis  int
	left  int
	right int
}

// KDTreeIndex is a k-d tree over positions of nodes mapped onto the unit sphere.
//
// Splitting planes live in 3-D space, so a query can prune a subtree using the chord between the query
// and the plane, which translates into an exact lower bound of the great-circle distance. Answers are
// identical to LinearIndex, including the tie-break.
type KDTreeIndex struct {
	g     *Graph
	nodes []kdNode
	root  int
}

// NewKDTreeIndex builds tree over all nodes of graph
func NewKDTreeIndex(g *Graph) *KDTreeIndex {
	tree := &KDTreeIndex{
		g:     g,
		nodes: make([]kdNode, 0, len(g.nodes)),
		root:  -1,
	}
	items := make([]kdNode, len(g.nodes))
	for i := range g.nodes {
		items[i] = kdNode{node: i, vec: unitVector(g.nodes[i].Point), left: -1, right: -1}
	}
	tree.root = tree.create(items)
	return tree
}

// create builds subtree for given items and returns its position in tree.nodes
func (t *KDTreeIndex) create(items []kdNode) int {
	if len(items) == 0 {
		return -1
	}
	axis := widestAxis(items)
	sort.Slice(items, func(i, j int) bool {
		if items[i].vec[axis] != items[j].vec[axis] {
			return items[i].vec[axis] < items[j].vec[axis]
		}
		return items[i].node < items[j].node
	})
	middle := len(items) / 2
	median := items[middle]
	median.axis = axis
	pos := len(t.nodes)
	t.nodes = append(t.nodes, median)
	left := t.create(items[:middle])
	right := t.create(items[middle+1:])
	t.nodes[pos].left = left
	t.nodes[pos].right = right
	return pos
}

// widestAxis picks axis with the largest spread. Points of a campus are clustered on a small patch
// of the sphere, so cycling axes would waste levels on a nearly constant coordinate
func widestAxis(items []kdNode) int {
	lo := items[0].vec
	hi := items[0].vec
	for _, item := range items[1:] {
		for a := 0; a < 3; a++ {
			lo[a] = math.Min(lo[a], item.vec[a])
			hi[a] = math.Max(hi[a], item.vec[a])
		}
	}
	axis := 0
	for a := 1; a < 3; a++ {
		if hi[a]-lo[a] > hi[axis]-lo[axis] {
			axis = a
		}
	}
	return axis
}

type kdCandidate struct {
	node int
	dist float64
}

// Nearest implements SpatialIndex
func (t *KDTreeIndex) Nearest(target GeoPoint) (NodeID, float64, error) {
	if err := checkQuery(t.g, target); err != nil {
		return 0, 0, err
	}
	best := kdCandidate{node: -1, dist: math.Inf(1)}
	t.search(t.root, unitVector(target), target, &best)
	return t.g.nodes[best.node].ID, best.dist, nil
}

func (t *KDTreeIndex) search(pos int, q [3]float64, target GeoPoint, best *kdCandidate) {
	if pos == -1 {
		return
	}
	current := t.nodes[pos]
	d := GreatCircleDistance(target, t.g.nodes[current.node].Point)
	if d < best.dist || (d == best.dist && current.node < best.node) {
		best.node = current.node
		best.dist = d
	}
	diff := q[current.axis] - current.vec[current.axis]
	near, far := current.left, current.right
	if diff > 0 {
		near, far = current.right, current.left
	}
	t.search(near, q, target, best)
	// Every point behind the plane is at least |diff| away along the chord
	if chordToMeters(math.Abs(diff))-kdEpsilon <= best.dist {
		t.search(far, q, target, best)
	}
}
