package walkroute

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
	"github.com/safing/portbase/log"
)

// OSMScanner is common interface of XML and PBF scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

func newOSMScanner(ctx context.Context, file io.Reader, filename string) OSMScanner {
	if filepath.Ext(filename) == ".pbf" {
		return osmpbf.New(ctx, file, runtime.GOMAXPROCS(-1))
	}
	return osmxml.New(ctx, file)
}

type osmNode struct {
	point GeoPoint
	name  string
}

func (loader *Loader) readOSM(ctx context.Context) (*Graph, error) {
	file, err := os.Open(loader.filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return loader.readOSMFrom(ctx, file)
}

// readOSMFrom makes two passes over the extract: walkable ways first, then positions of their nodes
func (loader *Loader) readOSMFrom(ctx context.Context, file io.ReadSeeker) (*Graph, error) {
	st := time.Now()
	ways := []*walkWay{}
	nodesSeen := make(map[osm.NodeID]struct{})
	directed := false
	skippedWays := 0
	{
		scannerWays := newOSMScanner(ctx, file, loader.filename)
		for scannerWays.Scan() {
			obj := scannerWays.Object()
			if obj.ObjectID().Type() != osm.TypeWay {
				continue
			}
			way := newWalkWay(obj.(*osm.Way))
			if !way.isHighway() {
				continue
			}
			if !way.isWalkable() || !loader.checkHighway(way.highway) {
				skippedWays++
				continue
			}
			if way.direction() != 0 {
				directed = true
			}
			for _, nodeID := range way.Nodes {
				nodesSeen[nodeID] = struct{}{}
			}
			ways = append(ways, way)
		}
		err := scannerWays.Err()
		scannerWays.Close()
		if err != nil {
			return nil, errors.Wrap(err, "Can't scan ways")
		}
	}
	log.Debugf("walkroute: scanned %d walkable ways (%d skipped) in %v", len(ways), skippedWays, time.Since(st))

	_, err := file.Seek(0, io.SeekStart)
	if err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	st = time.Now()
	nodes := make(map[osm.NodeID]osmNode, len(nodesSeen))
	{
		scannerNodes := newOSMScanner(ctx, file, loader.filename)
		for scannerNodes.Scan() {
			obj := scannerNodes.Object()
			if obj.ObjectID().Type() != osm.TypeNode {
				continue
			}
			node := obj.(*osm.Node)
			if _, ok := nodesSeen[node.ID]; !ok {
				continue
			}
			delete(nodesSeen, node.ID)
			nodes[node.ID] = osmNode{
				point: GeoPoint{Lat: node.Lat, Lon: node.Lon},
				name:  node.Tags.Find("name"),
			}
		}
		err := scannerNodes.Err()
		scannerNodes.Close()
		if err != nil {
			return nil, errors.Wrap(err, "Can't scan nodes")
		}
	}
	log.Debugf("walkroute: scanned %d nodes in %v (%d referenced nodes are missing)", len(nodes), time.Since(st), len(nodesSeen))

	return buildWalkGraph(ways, nodes, directed)
}

// buildWalkGraph turns every pair of consecutive way nodes into an edge weighted by its geodesic length.
// Pairs referencing nodes absent from the extract are dropped.
func buildWalkGraph(ways []*walkWay, nodes map[osm.NodeID]osmNode, directed bool) (*Graph, error) {
	g := NewGraph(directed)
	type pair struct {
		source NodeID
		target NodeID
	}
	seen := make(map[pair]struct{})
	ensureNode := func(id osm.NodeID) error {
		if _, ok := g.Node(NodeID(id)); ok {
			return nil
		}
		node := nodes[id]
		return g.AddNode(Node{ID: NodeID(id), Point: node.point, Label: node.name})
	}
	addEdge := func(source, target osm.NodeID) error {
		key := pair{NodeID(source), NodeID(target)}
		if !directed && key.target < key.source {
			key.source, key.target = key.target, key.source
		}
		if _, ok := seen[key]; ok {
			return nil
		}
		seen[key] = struct{}{}
		weight := GreatCircleDistance(nodes[source].point, nodes[target].point)
		return g.AddEdge(NodeID(source), NodeID(target), weight)
	}
	for _, way := range ways {
		for i := 1; i < len(way.Nodes); i++ {
			source, target := way.Nodes[i-1], way.Nodes[i]
			if source == target {
				continue
			}
			if _, ok := nodes[source]; !ok {
				continue
			}
			if _, ok := nodes[target]; !ok {
				continue
			}
			if err := ensureNode(source); err != nil {
				return nil, errors.Wrapf(err, "Way %d", way.ID)
			}
			if err := ensureNode(target); err != nil {
				return nil, errors.Wrapf(err, "Way %d", way.ID)
			}
			direction := way.direction()
			if direction == -1 {
				source, target = target, source
			}
			if err := addEdge(source, target); err != nil {
				return nil, errors.Wrapf(err, "Way %d", way.ID)
			}
			if directed && direction == 0 {
				if err := addEdge(target, source); err != nil {
					return nil, errors.Wrapf(err, "Way %d", way.ID)
				}
			}
		}
	}
	return g, nil
}
