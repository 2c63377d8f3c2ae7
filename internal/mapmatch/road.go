package mapmatch

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lvlath/graph"
	"github.com/matsaks/hysoc/internal/geo"
)

// ErrUnknownNode is returned when an edge references a node absent from
// the graph's node set.
var ErrUnknownNode = errors.New("mapmatch: edge references unknown node")

// RoadNode is a road-network intersection or endpoint.
type RoadNode struct {
	ID       string
	Lat, Lon float64
}

// RoadEdge is one directed edge of the road network. RoadID may be empty,
// in which case MissingEdgeMetadata recovery synthesises "<From>-<To>".
// Polyline may be nil, in which case the edge's geometry is taken to be
// the straight line between its endpoints.
type RoadEdge struct {
	From, To string
	RoadID   string
	Polyline []geo.LatLon
}

// resolvedRoadID returns e.RoadID, or the synthetic "<From>-<To>" fallback
// if it is empty (spec.md §4.2 "MissingEdgeMetadata").
func (e *RoadEdge) resolvedRoadID() string {
	if e.RoadID != "" {
		return e.RoadID
	}
	return fmt.Sprintf("%s-%s", e.From, e.To)
}

// RoadGraph is the immutable, read-only-after-construction road network
// consumed by Matcher. Multiple matchers may safely share one RoadGraph.
type RoadGraph struct {
	nodes map[string]RoadNode
	edges []*RoadEdge
	g     *graph.Graph
	proj  geo.Projector
}

// NewRoadGraph builds a RoadGraph from nodes and edges, validating that
// every edge's endpoints are known nodes.
func NewRoadGraph(nodes []RoadNode, edges []RoadEdge) (*RoadGraph, error) {
	nodeIndex := make(map[string]RoadNode, len(nodes))
	var sumLat, sumLon float64
	for _, n := range nodes {
		nodeIndex[n.ID] = n
		sumLat += n.Lat
		sumLon += n.Lon
	}

	var proj geo.Projector
	if len(nodes) > 0 {
		proj = geo.NewProjector(sumLat/float64(len(nodes)), sumLon/float64(len(nodes)))
	}

	g := graph.NewGraph(true, true)
	for _, n := range nodes {
		g.AddVertex(&graph.Vertex{ID: n.ID})
	}

	rg := &RoadGraph{nodes: nodeIndex, g: g, proj: proj}

	for i := range edges {
		e := &edges[i]
		fromNode, ok := nodeIndex[e.From]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, e.From)
		}
		toNode, ok := nodeIndex[e.To]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, e.To)
		}

		weight := int64(math.Round(polylineLengthMeters(rg.polylineOf(e, fromNode, toNode))))
		g.AddEdge(e.From, e.To, weight)
		rg.edges = append(rg.edges, e)
	}

	return rg, nil
}

// polylineOf returns e's geometry, deriving a straight line between
// endpoints when e.Polyline is unset.
func (rg *RoadGraph) polylineOf(e *RoadEdge, from, to RoadNode) []geo.LatLon {
	if len(e.Polyline) >= 2 {
		return e.Polyline
	}
	return []geo.LatLon{{Lat: from.Lat, Lon: from.Lon}, {Lat: to.Lat, Lon: to.Lon}}
}

func polylineLengthMeters(points []geo.LatLon) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += geo.Haversine(points[i-1], points[i])
	}
	return total
}

// routeDistanceMeters returns the shortest-path distance in metres from
// node fromID to node toID, or (0, false) if unreachable.
func (rg *RoadGraph) routeDistanceMeters(fromID, toID string) (float64, bool) {
	if fromID == toID {
		return 0, true
	}
	dist, _, err := rg.g.Dijkstra(fromID)
	if err != nil {
		return 0, false
	}
	d, ok := dist[toID]
	if !ok || d == math.MaxInt64 {
		return 0, false
	}
	return float64(d), true
}
