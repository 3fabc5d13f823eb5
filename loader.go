package walkroute

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Loader reads walkable network from file on disk.
//
// Supported formats are chosen by file extension: GraphML (.graphml, as written by networkx/osmnx)
// and OpenStreetMap extracts (.osm, .xml, .pbf, .osm.pbf).
type Loader struct {
	filename        string
	weightAttribute string
	defaultWeight   float64
	latAttribute    string
	lonAttribute    string
	highwayTags     []string
}

func (loader *Loader) String() string {
	return fmt.Sprintf(`
Graph loader parameters:
	filename: '%s'
	weight_attribute: '%s'
	default_weight: %f
	lat_attribute: '%s'
	lon_attribute: '%s'
	highway_tags: '%s'
	`,
		loader.filename,
		loader.weightAttribute,
		loader.defaultWeight,
		loader.latAttribute,
		loader.lonAttribute,
		strings.Join(loader.highwayTags, ","),
	)
}

// NewLoader returns loader for given file
func NewLoader(fileName string, options ...func(*Loader)) *Loader {
	loader := &Loader{
		filename:        fileName,
		weightAttribute: "weight",
		defaultWeight:   DefaultEdgeWeight,
		latAttribute:    "y",
		lonAttribute:    "x",
	}
	for _, option := range options {
		option(loader)
	}
	return loader
}

// WithWeightAttribute sets name of GraphML edge attribute holding weight
func WithWeightAttribute(weightAttribute string) func(*Loader) {
	return func(loader *Loader) {
		loader.weightAttribute = weightAttribute
	}
}

// WithDefaultWeight sets weight of edges which have no weight attribute
func WithDefaultWeight(defaultWeight float64) func(*Loader) {
	return func(loader *Loader) {
		loader.defaultWeight = defaultWeight
	}
}

// WithCoordinateAttributes sets names of GraphML node attributes holding latitude and longitude
func WithCoordinateAttributes(latAttribute, lonAttribute string) func(*Loader) {
	return func(loader *Loader) {
		loader.latAttribute = latAttribute
		loader.lonAttribute = lonAttribute
	}
}

// WithHighwayTags restricts OSM import to ways with given 'highway' values. Empty means every walkable way
func WithHighwayTags(highwayTags []string) func(*Loader) {
	return func(loader *Loader) {
		loader.highwayTags = highwayTags
	}
}

// Load reads the file
func (loader *Loader) Load(ctx context.Context) (*Graph, error) {
	var g *Graph
	var err error
	switch ext := strings.ToLower(filepath.Ext(loader.filename)); ext {
	case ".graphml":
		g, err = loader.readGraphML()
	case ".osm", ".xml", ".pbf":
		g, err = loader.readOSM(ctx)
	default:
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, loader.filename)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Can't load graph from '%s'", loader.filename)
	}
	return g, nil
}

// checkHighway checks if 'highway' value is allowed by configuration
func (loader *Loader) checkHighway(tag string) bool {
	if len(loader.highwayTags) == 0 {
		return true
	}
	for i := range loader.highwayTags {
		if loader.highwayTags[i] == tag {
			return true
		}
	}
	return false
}

// LoadGraph reads graph from file, picking format by file extension
func LoadGraph(ctx context.Context, filename string, options ...func(*Loader)) (*Graph, error) {
	return NewLoader(filename, options...).Load(ctx)
}
