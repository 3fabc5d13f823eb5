package walkroute

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// GeometryFormat is textual representation of geometry for exported files
type GeometryFormat uint16

const (
	GEOM_WKT = GeometryFormat(iota + 1)
	GEOM_GEOJSON
)

func (iotaIdx GeometryFormat) String() string {
	return [...]string{"wkt", "geojson"}[iotaIdx-1]
}

// ParseGeometryFormat converts string into GeometryFormat
func ParseGeometryFormat(str string) (GeometryFormat, error) {
	switch strings.ToLower(str) {
	case "", "wkt":
		return GEOM_WKT, nil
	case "geojson":
		return GEOM_GEOJSON, nil
	default:
		return 0, errors.Errorf("unknown geometry format '%s'. Expected values: wkt / geojson", str)
	}
}

// FormatLineString returns representation of LineString in given format
func FormatLineString(pts []GeoPoint, format GeometryFormat) (string, error) {
	switch format {
	case GEOM_GEOJSON:
		pts2d := make([][]float64, len(pts))
		for i := range pts {
			pts2d[i] = []float64{pts[i].Lon, pts[i].Lat}
		}
		b, err := geojson.NewLineStringGeometry(pts2d).MarshalJSON()
		if err != nil {
			return "", errors.Wrap(err, "Can not convert geometry to geojson format")
		}
		return string(b), nil
	default:
		line := make(orb.LineString, len(pts))
		for i := range pts {
			line[i] = orb.Point{pts[i].Lon, pts[i].Lat}
		}
		return wkt.MarshalString(line), nil
	}
}

// FormatPoint returns representation of Point in given format
func FormatPoint(pt GeoPoint, format GeometryFormat) (string, error) {
	switch format {
	case GEOM_GEOJSON:
		b, err := geojson.NewPointGeometry([]float64{pt.Lon, pt.Lat}).MarshalJSON()
		if err != nil {
			return "", errors.Wrap(err, "Can not convert geometry to geojson format")
		}
		return string(b), nil
	default:
		return wkt.MarshalString(orb.Point{pt.Lon, pt.Lat}), nil
	}
}
