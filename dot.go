package walkroute

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

const (
	dotGraphName    = "walkroute"
	dotRouteColor   = `"#d62728"`
	dotDefaultColor = `"#7f7f7f"`
)

// DOT renders graph in Graphviz format. Nodes are pinned to (lon, lat) so "neato -n" keeps geography.
// Edges and nodes of highlight path (if any) are drawn in red
func (g *Graph) DOT(highlight []NodeID) (string, error) {
	onPath := make(map[NodeID]struct{}, len(highlight))
	pathEdges := make(map[[2]NodeID]struct{}, len(highlight))
	for i, id := range highlight {
		onPath[id] = struct{}{}
		if i > 0 {
			pathEdges[[2]NodeID{highlight[i-1], id}] = struct{}{}
			if !g.directed {
				pathEdges[[2]NodeID{id, highlight[i-1]}] = struct{}{}
			}
		}
	}

	graph := gographviz.NewGraph()
	if err := graph.SetName(dotGraphName); err != nil {
		return "", errors.Wrap(err, "Can't set graph name")
	}
	if err := graph.SetDir(g.directed); err != nil {
		return "", errors.Wrap(err, "Can't set graph direction")
	}
	if err := graph.AddAttr(dotGraphName, "center", "true"); err != nil {
		return "", errors.Wrap(err, "Can't set graph attribute")
	}

	for _, node := range g.nodes {
		attrs := map[string]string{
			"shape":    "point",
			"pos":      fmt.Sprintf(`"%f,%f!"`, node.Point.Lon*1e4, node.Point.Lat*1e4),
			"tooltip":  strconv.Quote(node.Label),
			"color":    dotDefaultColor,
			"penwidth": "1",
		}
		if _, ok := onPath[node.ID]; ok {
			attrs["color"] = dotRouteColor
			attrs["penwidth"] = "3"
		}
		if err := graph.AddNode(dotGraphName, dotNodeName(node.ID), attrs); err != nil {
			return "", errors.Wrapf(err, "Can't add node %d", node.ID)
		}
	}
	for _, e := range g.edges {
		attrs := map[string]string{
			"label": strconv.Quote(fmt.Sprintf("%.1f", e.Weight)),
			"color": dotDefaultColor,
		}
		if _, ok := pathEdges[[2]NodeID{e.Source, e.Target}]; ok {
			attrs["color"] = dotRouteColor
			attrs["penwidth"] = "3"
		}
		if err := graph.AddEdge(dotNodeName(e.Source), dotNodeName(e.Target), g.directed, attrs); err != nil {
			return "", errors.Wrapf(err, "Can't add edge %d -> %d", e.Source, e.Target)
		}
	}
	return graph.String(), nil
}

func dotNodeName(id NodeID) string {
	return strconv.Quote(strconv.FormatInt(int64(id), 10))
}
