package server

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/LdDl/walkroute"
	"github.com/gin-gonic/gin"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/safing/portbase/log"
)

// RouteRequest is body of POST /find_route. Each endpoint is either [lat, lon] or a place name
type RouteRequest struct {
	Start      []float64 `json:"start"`
	End        []float64 `json:"end"`
	StartPlace string    `json:"start_place"`
	EndPlace   string    `json:"end_place"`
	// Format adds geometry in "geojson" or "wkt" to response
	Format string `json:"format"`
}

// RouteResponse is body of successful POST /find_route
type RouteResponse struct {
	Route      [][2]float64       `json:"route"`
	DistanceM  float64            `json:"distance_m"`
	Cost       float64            `json:"cost"`
	RouteID    string             `json:"route_id"`
	Nodes      []walkroute.NodeID `json:"nodes"`
	StartSnapM float64            `json:"start_snap_m"`
	EndSnapM   float64            `json:"end_snap_m"`
	Expanded   int                `json:"expanded"`
	Cached     bool               `json:"cached"`
	Heuristic  string             `json:"heuristic"`
	GraphVer   uint64             `json:"graph_version"`
	GeoJSON    json.RawMessage    `json:"geojson,omitempty"`
	WKT        string             `json:"wkt,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (srv *Server) index(c *gin.Context) {
	c.String(http.StatusOK, "A* Route Finder Backend")
}

func (srv *Server) options(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (srv *Server) findRoute(c *gin.Context) {
	snapshot := srv.store.Current()
	if snapshot == nil {
		srv.fail(c, http.StatusServiceUnavailable, "unavailable", "Graph is not loaded yet")
		return
	}
	req := RouteRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		srv.fail(c, http.StatusBadRequest, "bad_request", "Invalid input: "+err.Error())
		return
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != "" && format != "geojson" && format != "wkt" {
		srv.fail(c, http.StatusBadRequest, "bad_request", fmt.Sprintf("Invalid input: unknown format '%s'", req.Format))
		return
	}
	from, err := resolveEndpoint(snapshot, req.Start, req.StartPlace, "start")
	if err != nil {
		srv.fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	to, err := resolveEndpoint(snapshot, req.End, req.EndPlace, "end")
	if err != nil {
		srv.fail(c, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	ctx := c.Request.Context()
	if timeout := srv.cfg.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	st := time.Now()
	route, err := snapshot.Router.Route(ctx, from, to)
	if err != nil {
		switch {
		case errors.Is(err, walkroute.ErrInvalidCoordinate):
			srv.fail(c, http.StatusBadRequest, "bad_request", "Invalid input: "+err.Error())
		case errors.Is(err, walkroute.ErrNoPathFound):
			srv.fail(c, http.StatusNotFound, "no_path", "No path found between the points")
		case errors.Is(err, walkroute.ErrSearchAborted):
			srv.fail(c, http.StatusGatewayTimeout, "aborted", "Route search aborted: "+err.Error())
		default:
			log.Errorf("server: route %s -> %s failed: %s", from, to, err)
			srv.fail(c, http.StatusInternalServerError, "error", "An error occurred during route calculation: "+err.Error())
		}
		return
	}
	srv.metrics.observeSearch(st, route.Expanded, route.Cached)

	resp := RouteResponse{
		Route:      route.LatLons(),
		DistanceM:  route.LengthMeters,
		Cost:       route.Cost,
		RouteID:    routeID(snapshot.Version, route.Nodes[0], route.Nodes[len(route.Nodes)-1]),
		Nodes:      route.Nodes,
		StartSnapM: route.StartSnapMeters,
		EndSnapM:   route.EndSnapMeters,
		Expanded:   route.Expanded,
		Cached:     route.Cached,
		Heuristic:  snapshot.Router.ActiveHeuristic().String(),
		GraphVer:   snapshot.Version,
	}
	switch format {
	case "geojson":
		b, err := route.GeoJSON()
		if err != nil {
			srv.fail(c, http.StatusInternalServerError, "error", err.Error())
			return
		}
		resp.GeoJSON = b
	case "wkt":
		resp.WKT = route.WKT()
	}
	srv.metrics.observeRequest("ok")
	c.JSON(http.StatusOK, resp)
}

// resolveEndpoint turns either coordinates or place name into point
func resolveEndpoint(snapshot *Snapshot, coords []float64, placeName string, role string) (walkroute.GeoPoint, error) {
	if placeName != "" {
		place, err := snapshot.Places.Find(placeName)
		if err != nil {
			return walkroute.GeoPoint{}, errors.Wrapf(err, "Invalid input: %s place", role)
		}
		return place.Point(), nil
	}
	if coords == nil {
		return walkroute.GeoPoint{}, errors.New("Invalid input: missing start or end coordinates")
	}
	if len(coords) != 2 {
		return walkroute.GeoPoint{}, errors.Errorf("Invalid input: %s must be [lat, lon]", role)
	}
	pt := walkroute.GeoPoint{Lat: coords[0], Lon: coords[1]}
	if pt.Lat < -90 || pt.Lat > 90 || pt.Lon < -180 || pt.Lon > 180 {
		return walkroute.GeoPoint{}, errors.Errorf("Invalid input: %s coordinates out of range", role)
	}
	return pt, nil
}

// routeID identifies route by graph generation and snapped endpoints
func routeID(version uint64, start, end walkroute.NodeID) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%d:%d", version, start, end)))
	return base58.Encode(sum[:])
}

func (srv *Server) fail(c *gin.Context, status int, outcome string, message string) {
	srv.metrics.observeRequest(outcome)
	c.JSON(status, errorResponse{Error: message})
}

func (srv *Server) places(c *gin.Context) {
	snapshot := srv.store.Current()
	list := []walkroute.Place{}
	if snapshot != nil {
		list = snapshot.Places.List()
	}
	c.JSON(http.StatusOK, gin.H{"places": list})
}

func (srv *Server) health(c *gin.Context) {
	snapshot := srv.store.Current()
	if snapshot == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	_, consistErr := snapshot.Router.Consistency()
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"graph_version":  snapshot.Version,
		"loaded_at":      snapshot.LoadedAt.UTC().Format(time.RFC3339),
		"nodes":          snapshot.Stats.Nodes,
		"edges":          snapshot.Stats.Edges,
		"components":     snapshot.Stats.Components,
		"heuristic":      snapshot.Router.ActiveHeuristic().String(),
		"metric_weights": consistErr == nil,
		"places":         snapshot.Places.Len(),
	})
}

func (srv *Server) writeMetrics(c *gin.Context) {
	c.Header("Content-Type", "text/plain; version=0.0.4")
	c.Status(http.StatusOK)
	srv.metrics.writePrometheus(c.Writer)
}

func (srv *Server) reload(c *gin.Context) {
	snapshot, changelog, err := srv.store.Reload(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrReloadInProgress) {
			c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		log.Errorf("server: reload failed: %s", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	srv.metrics.reloads.Inc()
	changes := make([]string, 0, len(changelog))
	for _, change := range changelog {
		changes = append(changes, fmt.Sprintf("%s %s: %v -> %v", change.Type, strings.Join(change.Path, "."), change.From, change.To))
	}
	c.JSON(http.StatusOK, gin.H{
		"graph_version": snapshot.Version,
		"changes":       changes,
	})
}
