package walkroute

import (
	"github.com/pkg/errors"
)

var (
	// ErrEmptyGraph is returned when a nearest-node lookup (or a router) is given a graph without nodes
	ErrEmptyGraph = errors.New("graph has no nodes")
	// ErrNoPathFound is returned when the open set is exhausted before the goal is reached
	ErrNoPathFound = errors.New("no path found")
	// ErrInvalidWeight is returned for negative, NaN or infinite edge weights
	ErrInvalidWeight = errors.New("invalid edge weight")
	// ErrSearchAborted is returned when the expansion cap or the context deadline is exceeded
	ErrSearchAborted = errors.New("search aborted")
	// ErrNodeNotFound is returned when an identifier is not part of the graph
	ErrNodeNotFound = errors.New("node not found")
	// ErrDuplicateNode is returned when a node identifier is added twice
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrInvalidCoordinate is returned for non-finite latitude or longitude
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInadmissibleHeuristic is returned when some edge is shorter than the great-circle distance
	// between its endpoints, so the geodesic heuristic may overestimate
	ErrInadmissibleHeuristic = errors.New("edge weights are not metric, geodesic heuristic is inadmissible")
	// ErrPlaceNotFound is returned when a place name is not in the catalogue
	ErrPlaceNotFound = errors.New("place not found")
)
