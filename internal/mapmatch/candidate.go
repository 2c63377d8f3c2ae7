package mapmatch

import (
	"math"

	"github.com/matsaks/hysoc/internal/fixstream"
	"github.com/matsaks/hysoc/internal/geo"
)

// candidate is one HMM hidden state: a road edge within range of a fix,
// along with where on that edge the fix projects.
type candidate struct {
	edge       *RoadEdge
	projLat    float64
	projLon    float64
	distMeters float64
}

// candidatesFor returns every edge within maxDist of fix, with its
// orthogonal projection onto the edge's geometry.
func (rg *RoadGraph) candidatesFor(fix fixstream.Fix, maxDist float64) []candidate {
	var out []candidate
	for _, e := range rg.edges {
		from, to := rg.nodes[e.From], rg.nodes[e.To]
		polyline := rg.polylineOf(e, from, to)
		lat, lon, dist := rg.projectOntoPolyline(fix.Lat, fix.Lon, polyline)
		if dist <= maxDist {
			out = append(out, candidate{edge: e, projLat: lat, projLon: lon, distMeters: dist})
		}
	}
	return out
}

// projectOntoPolyline finds the closest point on polyline to (lat, lon),
// returning its coordinates and the perpendicular distance in metres. The
// closest point on each segment is found in the graph's local ENU frame;
// its lat/lon is recovered by linear interpolation of the segment's
// endpoints at the same fractional position, matching the flat-earth
// local-extent assumption used throughout this module.
func (rg *RoadGraph) projectOntoPolyline(lat, lon float64, polyline []geo.LatLon) (projLat, projLon, distMeters float64) {
	px, py := rg.proj.ToENU(lat, lon)

	best := math.Inf(1)
	for i := 1; i < len(polyline); i++ {
		a, b := polyline[i-1], polyline[i]
		ax, ay := rg.proj.ToENU(a.Lat, a.Lon)
		bx, by := rg.proj.ToENU(b.Lat, b.Lon)

		cx, cy, t := closestPointOnSegment(px, py, ax, ay, bx, by)
		d := math.Hypot(px-cx, py-cy)
		if d < best {
			best = d
			projLat = a.Lat + (b.Lat-a.Lat)*t
			projLon = a.Lon + (b.Lon-a.Lon)*t
		}
	}
	return projLat, projLon, best
}

func closestPointOnSegment(px, py, ax, ay, bx, by float64) (cx, cy, t float64) {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return ax, ay, 0
	}
	t = ((px-ax)*dx + (py-ay)*dy) / lenSq
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return ax + t*dx, ay + t*dy, t
}
