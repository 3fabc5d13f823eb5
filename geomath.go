package walkroute

import (
	"fmt"
	"math"
)

const (
	// earthRadius is the mean Earth radius in meters. It is slightly below the radius networkx/osmnx use
	// for edge lengths, so great-circle estimates never exceed lengths computed that way.
	earthRadius = 6370986.884258304
	pi180       = math.Pi / 180.0
)

// GeoPoint representation of point on Earth
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String returns pretty printed value for for GeoPoint
func (gp GeoPoint) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", gp.Lon, gp.Lat)
}

// IsFinite reports whether both coordinates are finite numbers
func (gp GeoPoint) IsFinite() bool {
	return !math.IsNaN(gp.Lat) && !math.IsInf(gp.Lat, 0) && !math.IsNaN(gp.Lon) && !math.IsInf(gp.Lon, 0)
}

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// GreatCircleDistance returns distance between two geo-points (meters)
//
// Haversine formula. The intermediate term is clamped to [0, 1] so rounding on nearly antipodal
// or identical points can not produce NaN.
func GreatCircleDistance(p, q GeoPoint) float64 {
	lat1 := degreesToRadians(p.Lat)
	lon1 := degreesToRadians(p.Lon)
	lat2 := degreesToRadians(q.Lat)
	lon2 := degreesToRadians(q.Lon)
	sinLat := math.Sin((lat2 - lat1) / 2)
	sinLon := math.Sin((lon2 - lon1) / 2)
	a := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return c * earthRadius
}

// getSphericalLength returns length for given line (meters)
func getSphericalLength(line []GeoPoint) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += GreatCircleDistance(line[i-1], line[i])
	}
	return totalLength
}

// unitVector maps a point onto the unit sphere (x towards lon=0, z towards north pole)
func unitVector(gp GeoPoint) [3]float64 {
	lat := degreesToRadians(gp.Lat)
	lon := degreesToRadians(gp.Lon)
	cosLat := math.Cos(lat)
	return [3]float64{cosLat * math.Cos(lon), cosLat * math.Sin(lon), math.Sin(lat)}
}

// chordToMeters converts a straight-line distance between two unit vectors into the great-circle
// distance (meters) of the arc it subtends
func chordToMeters(chord float64) float64 {
	half := chord / 2
	if half >= 1 {
		return math.Pi * earthRadius
	}
	return 2 * math.Asin(half) * earthRadius
}
