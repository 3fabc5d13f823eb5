package walkroute

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ExportToCSV writes edges into fname and nodes into <fname>_nodes.csv. Separator is ';'
func (g *Graph) ExportToCSV(fname string, format GeometryFormat) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameEdges := fnameParts[0] + ".csv"
	fnameNodes := fnameParts[0] + "_nodes.csv"

	err := writeFile(fnameEdges, func(w io.Writer) error {
		return g.WriteEdgesCSV(w, format)
	})
	if err != nil {
		return errors.Wrap(err, "Can't export edges")
	}
	err = writeFile(fnameNodes, func(w io.Writer) error {
		return g.WriteNodesCSV(w, format)
	})
	if err != nil {
		return errors.Wrap(err, "Can't export nodes")
	}
	return nil
}

func writeFile(fname string, write func(io.Writer) error) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	if err := write(file); err != nil {
		return err
	}
	return file.Close()
}

// WriteEdgesCSV writes header and one row per edge: source, target, weight, straight-line length, geometry
func (g *Graph) WriteEdgesCSV(w io.Writer, format GeometryFormat) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	err := writer.Write([]string{"source_node", "target_node", "weight", "length_meters", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, e := range g.edges {
		pts := []GeoPoint{g.nodes[g.index[e.Source]].Point, g.nodes[g.index[e.Target]].Point}
		geom, err := FormatLineString(pts, format)
		if err != nil {
			return errors.Wrapf(err, "Can't prepare geometry for edge %d -> %d", e.Source, e.Target)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", e.Source),
			fmt.Sprintf("%d", e.Target),
			fmt.Sprintf("%f", e.Weight),
			fmt.Sprintf("%f", GreatCircleDistance(pts[0], pts[1])),
			geom,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write edge")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush edges")
}

// WriteNodesCSV writes header and one row per node in insertion order
func (g *Graph) WriteNodesCSV(w io.Writer, format GeometryFormat) error {
	writer := csv.NewWriter(w)
	writer.Comma = ';'

	err := writer.Write([]string{"id", "label", "longitude", "latitude", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, node := range g.nodes {
		geom, err := FormatPoint(node.Point, format)
		if err != nil {
			return errors.Wrapf(err, "Can't prepare geometry for node %d", node.ID)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", node.ID),
			node.Label,
			fmt.Sprintf("%f", node.Point.Lon),
			fmt.Sprintf("%f", node.Point.Lat),
			geom,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "Can't flush nodes")
}
