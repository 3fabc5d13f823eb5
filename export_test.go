package walkroute

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, data []byte) [][]string {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ';'
	records, err := reader.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteEdgesCSV(t *testing.T) {
	g := squareGraph(t, false)
	buf := bytes.Buffer{}
	require.NoError(t, g.WriteEdgesCSV(&buf, GEOM_WKT))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 5)
	assert.Equal(t, []string{"source_node", "target_node", "weight", "length_meters", "geom"}, records[0])
	length := GreatCircleDistance(GeoPoint{Lat: 0, Lon: 0}, GeoPoint{Lat: 0, Lon: 1})
	assert.Equal(t, []string{"1", "2", "1.000000", fmt.Sprintf("%f", length), "LINESTRING(0 0,1 0)"}, records[1])
	length = GreatCircleDistance(GeoPoint{Lat: 1, Lon: 0}, GeoPoint{Lat: 1, Lon: 1})
	assert.Equal(t, []string{"4", "3", "5.000000", fmt.Sprintf("%f", length), "LINESTRING(0 1,1 1)"}, records[4])
}

func TestWriteEdgesCSVGeoJSON(t *testing.T) {
	g := squareGraph(t, false)
	buf := bytes.Buffer{}
	require.NoError(t, g.WriteEdgesCSV(&buf, GEOM_GEOJSON))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 5)
	assert.JSONEq(t, `{"type":"LineString","coordinates":[[0,0],[1,0]]}`, records[1][4])
}

func TestWriteNodesCSV(t *testing.T) {
	g := squareGraph(t, false)
	buf := bytes.Buffer{}
	require.NoError(t, g.WriteNodesCSV(&buf, GEOM_WKT))

	records := readCSV(t, buf.Bytes())
	require.Len(t, records, 5)
	assert.Equal(t, []string{"id", "label", "longitude", "latitude", "geom"}, records[0])
	assert.Equal(t, []string{"3", "C", "1.000000", "1.000000", "POINT(1 1)"}, records[3])
}

func TestExportToCSV(t *testing.T) {
	g := squareGraph(t, false)
	dir := t.TempDir()
	require.NoError(t, g.ExportToCSV(filepath.Join(dir, "square.csv"), GEOM_WKT))

	edges, err := os.ReadFile(filepath.Join(dir, "square.csv"))
	require.NoError(t, err)
	assert.Len(t, readCSV(t, edges), 5)
	nodes, err := os.ReadFile(filepath.Join(dir, "square_nodes.csv"))
	require.NoError(t, err)
	assert.Len(t, readCSV(t, nodes), 5)
}

func TestExportToCSVBadPath(t *testing.T) {
	g := squareGraph(t, false)
	err := g.ExportToCSV(filepath.Join(t.TempDir(), "missing", "square.csv"), GEOM_WKT)
	assert.Error(t, err)
}
