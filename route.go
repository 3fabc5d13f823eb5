package walkroute

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// Route is a path between two arbitrary coordinates
type Route struct {
	Nodes     []NodeID
	Waypoints []GeoPoint
	// Cost is sum of edge weights
	Cost float64
	// LengthMeters is great-circle length of waypoints polyline
	LengthMeters float64
	// StartSnapMeters and EndSnapMeters are distances from requested points to snapped nodes
	StartSnapMeters float64
	EndSnapMeters   float64
	Expanded        int
	Cached          bool
}

// LatLons returns waypoints as [lat, lon] pairs
func (route *Route) LatLons() [][2]float64 {
	out := make([][2]float64, len(route.Waypoints))
	for i, pt := range route.Waypoints {
		out[i] = [2]float64{pt.Lat, pt.Lon}
	}
	return out
}

// LineString returns waypoints as orb geometry (X is longitude)
func (route *Route) LineString() orb.LineString {
	line := make(orb.LineString, len(route.Waypoints))
	for i, pt := range route.Waypoints {
		line[i] = orb.Point{pt.Lon, pt.Lat}
	}
	return line
}

// WKT returns route geometry in WKT format. Single-node route is a POINT
func (route *Route) WKT() string {
	if len(route.Waypoints) == 1 {
		return wkt.MarshalString(route.LineString()[0])
	}
	return wkt.MarshalString(route.LineString())
}

// GeoJSON returns feature collection: route line with its properties plus start and end points
func (route *Route) GeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	coords := make([][]float64, len(route.Waypoints))
	for i, pt := range route.Waypoints {
		coords[i] = []float64{pt.Lon, pt.Lat}
	}
	line := geojson.NewLineStringFeature(coords)
	line.SetProperty("cost", route.Cost)
	line.SetProperty("length_m", route.LengthMeters)
	line.SetProperty("nodes", route.Nodes)
	fc.AddFeature(line)
	if len(route.Waypoints) > 0 {
		first := route.Waypoints[0]
		last := route.Waypoints[len(route.Waypoints)-1]
		start := geojson.NewPointFeature([]float64{first.Lon, first.Lat})
		start.SetProperty("role", "start")
		start.SetProperty("snap_m", route.StartSnapMeters)
		end := geojson.NewPointFeature([]float64{last.Lon, last.Lat})
		end.SetProperty("role", "end")
		end.SetProperty("snap_m", route.EndSnapMeters)
		fc.AddFeature(start)
		fc.AddFeature(end)
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can not convert route to geojson format")
	}
	return b, nil
}
