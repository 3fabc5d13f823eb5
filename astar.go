package walkroute

import (
	"container/heap"
	"context"
	"math"

	"github.com/pkg/errors"
)

// contextCheckInterval is how many expansions happen between context checks
const contextCheckInterval = 256

// SearchOptions tunes single FindPath call
type SearchOptions struct {
	// Heuristic estimates remaining cost. When nil, GreatCircleHeuristic is used on metric graphs and
	// ZeroHeuristic otherwise. An explicit heuristic is used as is
	Heuristic Heuristic
	// MaxExpansions bounds number of expanded nodes. Zero means no limit
	MaxExpansions int
}

// WithHeuristic sets heuristic for search
func WithHeuristic(h Heuristic) func(*SearchOptions) {
	return func(opts *SearchOptions) {
		opts.Heuristic = h
	}
}

// WithMaxExpansions bounds number of expanded nodes. Exceeding it gives ErrSearchAborted
func WithMaxExpansions(n int) func(*SearchOptions) {
	return func(opts *SearchOptions) {
		opts.MaxExpansions = n
	}
}

// Path is the result of search
type Path struct {
	// Nodes from start to end, both inclusive
	Nodes []NodeID
	// Cost is sum of weights of traversed edges
	Cost float64
	// Expanded is number of nodes taken out of open set and relaxed
	Expanded int
}

// clone returns copy of path which does not share Nodes with the original
func (path *Path) clone() *Path {
	cp := *path
	cp.Nodes = append([]NodeID(nil), path.Nodes...)
	return &cp
}

// FindPath computes minimum-weight path between start and end with A* search.
//
// Open set is a binary heap ordered by f = g + h; equal f-scores are popped in insertion order, so
// the node sequence is reproducible for the same graph and endpoints. Improved nodes are pushed again
// and outdated heap entries are skipped on pop.
//
// Without WithHeuristic the geodesic heuristic is used only when Graph.Metric holds, so the default
// search never returns a suboptimal path on graphs with arbitrary costs.
//
// Errors: ErrNodeNotFound for unknown endpoints, ErrNoPathFound when end is unreachable,
// ErrSearchAborted when MaxExpansions is exceeded or ctx is done.
func FindPath(ctx context.Context, g *Graph, start, end NodeID, options ...func(*SearchOptions)) (*Path, error) {
	opts := SearchOptions{}
	for _, option := range options {
		option(&opts)
	}
	if opts.Heuristic == nil {
		opts.Heuristic = GreatCircleHeuristic
		if !g.Metric() {
			opts.Heuristic = ZeroHeuristic
		}
	}

	startIdx, ok := g.index[start]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "start %d", start)
	}
	endIdx, ok := g.index[end]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "end %d", end)
	}
	if startIdx == endIdx {
		return &Path{Nodes: []NodeID{start}}, nil
	}

	s := newSearch(g, endIdx, opts)
	found, err := s.run(ctx, startIdx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrNoPathFound, "from %d to %d", start, end)
	}
	return s.path(), nil
}

// search holds the mutable state of a single FindPath call
type search struct {
	g         *Graph
	goal      int
	heuristic Heuristic
	limit     int

	gScore []float64 // best known cost from start
	hScore []float64 // cached heuristic, NaN until computed
	prev   []int     // predecessor on best known path, -1 if none
	open   openSet
	seq    uint64

	expanded int
}

func newSearch(g *Graph, goal int, opts SearchOptions) *search {
	n := len(g.nodes)
	s := &search{
		g:         g,
		goal:      goal,
		heuristic: opts.Heuristic,
		limit:     opts.MaxExpansions,
		gScore:    make([]float64, n),
		hScore:    make([]float64, n),
		prev:      make([]int, n),
		open:      make(openSet, 0, 64),
	}
	for i := 0; i < n; i++ {
		s.gScore[i] = math.Inf(1)
		s.hScore[i] = math.NaN()
		s.prev[i] = -1
	}
	return s
}

// estimate returns cached heuristic value of node towards goal
func (s *search) estimate(node int) float64 {
	if math.IsNaN(s.hScore[node]) {
		h := s.heuristic(s.g.nodes[node].Point, s.g.nodes[s.goal].Point)
		if h < 0 || math.IsNaN(h) {
			h = 0
		}
		s.hScore[node] = h
	}
	return s.hScore[node]
}

func (s *search) push(node int, g float64) {
	heap.Push(&s.open, openItem{
		node: node,
		f:    g + s.estimate(node),
		g:    g,
		seq:  s.seq,
	})
	s.seq++
}

// run executes main loop. It returns true when goal has been popped from open set
func (s *search) run(ctx context.Context, start int) (bool, error) {
	s.gScore[start] = 0
	s.push(start, 0)
	for s.open.Len() > 0 {
		item := heap.Pop(&s.open).(openItem)
		if item.g > s.gScore[item.node] {
			// Stale entry: node has been pushed again with better g
			continue
		}
		if item.node == s.goal {
			return true, nil
		}
		if s.expanded%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return false, errors.Wrapf(ErrSearchAborted, "%s after %d expansions", err, s.expanded)
			}
		}
		if s.limit > 0 && s.expanded >= s.limit {
			return false, errors.Wrapf(ErrSearchAborted, "expansion limit %d reached", s.limit)
		}
		s.expanded++
		s.relax(item.node)
	}
	return false, nil
}

// relax tries to improve every neighbor of u through u
func (s *search) relax(u int) {
	gu := s.gScore[u]
	for _, a := range s.g.arcs[u] {
		tentative := gu + a.weight
		if tentative >= s.gScore[a.to] {
			continue
		}
		s.gScore[a.to] = tentative
		s.prev[a.to] = u
		s.push(a.to, tentative)
	}
}

// path follows predecessor links from goal back to start
func (s *search) path() *Path {
	nodes := []NodeID{}
	for cur := s.goal; cur != -1; cur = s.prev[cur] {
		nodes = append(nodes, s.g.nodes[cur].ID)
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return &Path{
		Nodes:    nodes,
		Cost:     s.gScore[s.goal],
		Expanded: s.expanded,
	}
}
