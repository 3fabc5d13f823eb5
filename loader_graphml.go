package walkroute

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// graphmlKey is a declared GraphML attribute
type graphmlKey struct {
	name         string
	defaultValue string
	hasDefault   bool
}

type graphmlKeys map[string]graphmlKey

// values collects element's <data> children by attribute name, falling back to key defaults
func (keys graphmlKeys) values(element *etree.Element) map[string]string {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		if key.hasDefault {
			values[key.name] = key.defaultValue
		}
	}
	for _, data := range element.SelectElements("data") {
		key, ok := keys[data.SelectAttrValue("key", "")]
		if !ok {
			continue
		}
		values[key.name] = strings.TrimSpace(data.Text())
	}
	return values
}

func (loader *Loader) readGraphML() (*Graph, error) {
	file, err := os.Open(loader.filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return loader.readGraphMLFrom(file)
}

func (loader *Loader) readGraphMLFrom(r io.Reader) (*Graph, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "Can't parse GraphML")
	}
	root := doc.SelectElement("graphml")
	if root == nil {
		return nil, errors.New("No <graphml> root element")
	}
	graphElement := root.SelectElement("graph")
	if graphElement == nil {
		return nil, errors.New("No <graph> element")
	}

	nodeKeys := graphmlKeys{}
	edgeKeys := graphmlKeys{}
	for _, keyElement := range root.SelectElements("key") {
		key := graphmlKey{
			name: keyElement.SelectAttrValue("attr.name", keyElement.SelectAttrValue("id", "")),
		}
		if defaultElement := keyElement.SelectElement("default"); defaultElement != nil {
			key.defaultValue = strings.TrimSpace(defaultElement.Text())
			key.hasDefault = true
		}
		id := keyElement.SelectAttrValue("id", "")
		switch keyElement.SelectAttrValue("for", "all") {
		case "node":
			nodeKeys[id] = key
		case "edge":
			edgeKeys[id] = key
		case "all":
			nodeKeys[id] = key
			edgeKeys[id] = key
		}
	}

	directed := graphElement.SelectAttrValue("edgedefault", "directed") == "directed"
	g := NewGraph(directed)

	nodeElements := graphElement.SelectElements("node")
	// Numeric ids (OSM ids in osmnx exports) are kept; anything else is renumbered in document order
	numericIDs := true
	for _, element := range nodeElements {
		if _, err := strconv.ParseInt(element.SelectAttrValue("id", ""), 10, 64); err != nil {
			numericIDs = false
			break
		}
	}
	ids := make(map[string]NodeID, len(nodeElements))
	for i, element := range nodeElements {
		rawID := element.SelectAttrValue("id", "")
		values := nodeKeys.values(element)
		point, err := loader.graphmlPoint(values)
		if err != nil {
			return nil, errors.Wrapf(err, "Node '%s'", rawID)
		}
		node := Node{Point: point, Label: values["name"]}
		if numericIDs {
			parsed, _ := strconv.ParseInt(rawID, 10, 64)
			node.ID = NodeID(parsed)
		} else {
			node.ID = NodeID(i + 1)
			if node.Label == "" {
				node.Label = rawID
			}
		}
		if err := g.AddNode(node); err != nil {
			return nil, errors.Wrapf(err, "Node '%s'", rawID)
		}
		ids[rawID] = node.ID
	}

	for _, element := range graphElement.SelectElements("edge") {
		rawSource := element.SelectAttrValue("source", "")
		rawTarget := element.SelectAttrValue("target", "")
		source, ok := ids[rawSource]
		if !ok {
			return nil, errors.Wrapf(ErrNodeNotFound, "Edge source '%s'", rawSource)
		}
		target, ok := ids[rawTarget]
		if !ok {
			return nil, errors.Wrapf(ErrNodeNotFound, "Edge target '%s'", rawTarget)
		}
		weight := loader.defaultWeight
		if text, ok := edgeKeys.values(element)[loader.weightAttribute]; ok && text != "" {
			parsed, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidWeight, "Edge '%s'->'%s': can't parse '%s'", rawSource, rawTarget, text)
			}
			weight = parsed
		}
		if err := g.AddEdge(source, target, weight); err != nil {
			return nil, errors.Wrapf(err, "Edge '%s'->'%s'", rawSource, rawTarget)
		}
		// Undirected edge inside directed graph
		if directed && element.SelectAttrValue("directed", "true") == "false" && source != target {
			if err := g.AddEdge(target, source, weight); err != nil {
				return nil, errors.Wrapf(err, "Edge '%s'->'%s'", rawTarget, rawSource)
			}
		}
	}
	return g, nil
}

func (loader *Loader) graphmlPoint(values map[string]string) (GeoPoint, error) {
	latText, ok := values[loader.latAttribute]
	if !ok {
		latText, ok = values["lat"]
	}
	if !ok {
		return GeoPoint{}, errors.Wrapf(ErrInvalidCoordinate, "no '%s' attribute", loader.latAttribute)
	}
	lonText, ok := values[loader.lonAttribute]
	if !ok {
		lonText, ok = values["lon"]
	}
	if !ok {
		return GeoPoint{}, errors.Wrapf(ErrInvalidCoordinate, "no '%s' attribute", loader.lonAttribute)
	}
	lat, err := strconv.ParseFloat(latText, 64)
	if err != nil {
		return GeoPoint{}, errors.Wrapf(ErrInvalidCoordinate, "latitude '%s'", latText)
	}
	lon, err := strconv.ParseFloat(lonText, 64)
	if err != nil {
		return GeoPoint{}, errors.Wrapf(ErrInvalidCoordinate, "longitude '%s'", lonText)
	}
	return GeoPoint{Lat: lat, Lon: lon}, nil
}
