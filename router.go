package walkroute

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// HeuristicMode selects heuristic used by Router
type HeuristicMode uint16

const (
	// HeuristicAuto uses great-circle heuristic when edge weights are metric and falls back to zero heuristic otherwise
	HeuristicAuto = HeuristicMode(iota + 1)
	// HeuristicGeodesic always uses great-circle heuristic
	HeuristicGeodesic
	// HeuristicZero always uses zero heuristic (Dijkstra)
	HeuristicZero
)

func (iotaIdx HeuristicMode) String() string {
	return [...]string{"auto", "geodesic", "zero"}[iotaIdx-1]
}

// ParseHeuristicMode converts textual representation into HeuristicMode. Empty string means auto
func ParseHeuristicMode(str string) (HeuristicMode, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "", "auto":
		return HeuristicAuto, nil
	case "geodesic", "great_circle", "haversine":
		return HeuristicGeodesic, nil
	case "zero", "none", "dijkstra":
		return HeuristicZero, nil
	default:
		return 0, errors.Errorf("unknown heuristic '%s'", str)
	}
}

// PathCache keeps search results between snapped endpoints. Implementations must be safe for concurrent use
type PathCache interface {
	Get(start, end NodeID) (*Path, bool)
	Set(start, end NodeID, path *Path)
}

// Router answers coordinate-to-coordinate route requests over one immutable graph
type Router struct {
	graph         *Graph
	index         SpatialIndex
	cache         PathCache
	mode          HeuristicMode
	heuristic     Heuristic
	active        HeuristicMode
	maxExpansions int
	consistency   ConsistencyReport
	consistErr    error
}

// WithSpatialIndex replaces default k-d tree index
func WithSpatialIndex(index SpatialIndex) func(*Router) {
	return func(router *Router) {
		router.index = index
	}
}

// WithHeuristicMode sets heuristic selection mode
func WithHeuristicMode(mode HeuristicMode) func(*Router) {
	return func(router *Router) {
		router.mode = mode
	}
}

// WithExpansionLimit bounds number of node expansions per search
func WithExpansionLimit(n int) func(*Router) {
	return func(router *Router) {
		router.maxExpansions = n
	}
}

// WithPathCache enables caching of search results
func WithPathCache(cache PathCache) func(*Router) {
	return func(router *Router) {
		router.cache = cache
	}
}

// NewRouter prepares router for given graph. Graph must not be modified afterwards
func NewRouter(g *Graph, options ...func(*Router)) (*Router, error) {
	if g == nil || g.NumNodes() == 0 {
		return nil, ErrEmptyGraph
	}
	router := &Router{
		graph: g,
		mode:  HeuristicAuto,
	}
	for _, option := range options {
		option(router)
	}
	if router.index == nil {
		router.index = NewKDTreeIndex(g)
	}
	router.consistency, router.consistErr = CheckHeuristicConsistency(g, DefaultConsistencyTolerance)
	switch router.mode {
	case HeuristicGeodesic:
		router.active = HeuristicGeodesic
	case HeuristicZero:
		router.active = HeuristicZero
	case HeuristicAuto:
		router.active = HeuristicGeodesic
		if router.consistErr != nil {
			router.active = HeuristicZero
		}
	default:
		return nil, errors.Errorf("unknown heuristic mode %d", router.mode)
	}
	router.heuristic = GreatCircleHeuristic
	if router.active == HeuristicZero {
		router.heuristic = ZeroHeuristic
	}
	return router, nil
}

// Graph returns underlying graph
func (router *Router) Graph() *Graph {
	return router.graph
}

// ActiveHeuristic returns heuristic which is actually used (never HeuristicAuto)
func (router *Router) ActiveHeuristic() HeuristicMode {
	return router.active
}

// Consistency returns result of edge weights check done in NewRouter
func (router *Router) Consistency() (ConsistencyReport, error) {
	return router.consistency, router.consistErr
}

// Snap returns node nearest to given point and distance to it (meters)
func (router *Router) Snap(pt GeoPoint) (NodeID, float64, error) {
	return router.index.Nearest(pt)
}

// FindPath runs search between two nodes with router settings.
// Cache holds its own copies of paths, so returned path may be modified by caller
func (router *Router) FindPath(ctx context.Context, start, end NodeID) (*Path, bool, error) {
	if router.cache != nil {
		if path, ok := router.cache.Get(start, end); ok {
			return path.clone(), true, nil
		}
	}
	path, err := FindPath(ctx, router.graph, start, end, WithHeuristic(router.heuristic), WithMaxExpansions(router.maxExpansions))
	if err != nil {
		return nil, false, err
	}
	if router.cache != nil {
		router.cache.Set(start, end, path.clone())
	}
	return path, false, nil
}

// Route snaps both coordinates to the network, searches the path between snapped nodes and maps it back to coordinates
func (router *Router) Route(ctx context.Context, from, to GeoPoint) (*Route, error) {
	start, startSnap, err := router.Snap(from)
	if err != nil {
		return nil, errors.Wrap(err, "can't snap start point")
	}
	end, endSnap, err := router.Snap(to)
	if err != nil {
		return nil, errors.Wrap(err, "can't snap end point")
	}
	path, cached, err := router.FindPath(ctx, start, end)
	if err != nil {
		return nil, err
	}
	waypoints, err := router.graph.Points(path.Nodes)
	if err != nil {
		return nil, errors.Wrap(err, "can't map path to coordinates")
	}
	return &Route{
		Nodes:           path.Nodes,
		Waypoints:       waypoints,
		Cost:            path.Cost,
		LengthMeters:    getSphericalLength(waypoints),
		StartSnapMeters: startSnap,
		EndSnapMeters:   endSnap,
		Expanded:        path.Expanded,
		Cached:          cached,
	}, nil
}
