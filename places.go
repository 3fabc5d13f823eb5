package walkroute

import (
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// Place is a named point of interest.
// Position is either Lat/Lon or Coordinates as [lat, lon]; NewPlaces fills both
type Place struct {
	Name        string    `json:"name"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	Category    string    `json:"category,omitempty"`
}

// placesDocument is the wrapped form of places file: {"places": [...]}
type placesDocument struct {
	Places []Place `json:"places"`
}

// Point returns position of the place
func (place Place) Point() GeoPoint {
	return GeoPoint{Lat: place.Lat, Lon: place.Lon}
}

// Places is an ordered catalogue of points of interest. Lookup by name is case-insensitive
type Places struct {
	list   []Place
	byName map[string]int
}

// NewPlaces validates places and builds catalogue
func NewPlaces(list []Place) (*Places, error) {
	places := &Places{
		list:   make([]Place, 0, len(list)),
		byName: make(map[string]int, len(list)),
	}
	for _, place := range list {
		name := strings.TrimSpace(place.Name)
		if name == "" {
			return nil, errors.New("place without name")
		}
		switch len(place.Coordinates) {
		case 0:
		case 2:
			place.Lat, place.Lon = place.Coordinates[0], place.Coordinates[1]
		default:
			return nil, errors.Errorf("place '%s': coordinates must be [lat, lon]", name)
		}
		place.Coordinates = []float64{place.Lat, place.Lon}
		if !place.Point().IsFinite() {
			return nil, errors.Wrapf(ErrInvalidCoordinate, "place '%s'", name)
		}
		key := strings.ToLower(name)
		if _, ok := places.byName[key]; ok {
			return nil, errors.Errorf("duplicate place '%s'", name)
		}
		place.Name = name
		places.byName[key] = len(places.list)
		places.list = append(places.list, place)
	}
	return places, nil
}

// ReadPlaces loads catalogue from JSON (or YAML) file. See ParsePlaces
func ReadPlaces(fileName string) (*Places, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read places file '%s'", fileName)
	}
	return ParsePlaces(data)
}

// ParsePlaces decodes JSON (or YAML) places: either a bare array or an object with "places" array
func ParsePlaces(data []byte) (*Places, error) {
	list := []Place{}
	if err := yaml.Unmarshal(data, &list); err != nil {
		doc := placesDocument{}
		if errDoc := yaml.Unmarshal(data, &doc); errDoc != nil || doc.Places == nil {
			return nil, errors.Wrap(err, "Can't decode places")
		}
		list = doc.Places
	}
	return NewPlaces(list)
}

// Find returns place by name
func (places *Places) Find(name string) (Place, error) {
	if places != nil {
		if idx, ok := places.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
			return places.list[idx], nil
		}
	}
	return Place{}, errors.Wrapf(ErrPlaceNotFound, "'%s'", name)
}

// List returns copy of places in file order
func (places *Places) List() []Place {
	if places == nil {
		return []Place{}
	}
	list := make([]Place, len(places.list))
	copy(list, places.list)
	return list
}

// Len returns number of places
func (places *Places) Len() int {
	if places == nil {
		return 0
	}
	return len(places.list)
}
