package stc

import "github.com/matsaks/hysoc/internal/fixstream"

// Reducer reduces map-matched fix sequences to their road-transition
// anchors. It holds no state and is safe for concurrent use.
type Reducer struct{}

// NewReducer returns a ready-to-use Reducer.
func NewReducer() *Reducer {
	return &Reducer{}
}

// Reduce returns the semantic compression of points: the first fix, every
// fix whose road_id differs from the previous fix's, and the last fix
// (appended only if it is not already the last emitted fix). Input with
// zero or one fix is returned unchanged.
func (r *Reducer) Reduce(points []fixstream.Fix) []fixstream.Fix {
	if len(points) <= 1 {
		return points
	}

	compressed := make([]fixstream.Fix, 0, len(points))
	currentRoad := points[0].RoadIDOrEmpty()
	hasCurrentRoad := points[0].HasRoadID()
	compressed = append(compressed, points[0])

	for i := 1; i < len(points)-1; i++ {
		p := points[i]
		if p.RoadIDOrEmpty() != currentRoad || p.HasRoadID() != hasCurrentRoad {
			compressed = append(compressed, p)
			currentRoad = p.RoadIDOrEmpty()
			hasCurrentRoad = p.HasRoadID()
		}
	}

	last := points[len(points)-1]
	if !sameFix(compressed[len(compressed)-1], last) {
		compressed = append(compressed, last)
	}
	return compressed
}

// sameFix compares fixes by value rather than by Go's == operator, which
// would compare RoadID's pointer rather than its pointed-to string.
func sameFix(a, b fixstream.Fix) bool {
	return a.Lat == b.Lat &&
		a.Lon == b.Lon &&
		a.Timestamp.Equal(b.Timestamp) &&
		a.ObjID == b.ObjID &&
		a.SameRoad(b)
}
