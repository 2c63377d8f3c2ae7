package geo

import (
	"math"

	"github.com/matsaks/hysoc/internal/fixstream"
)

// SED computes the Synchronised Euclidean Distance error: the planar
// distance in metres between p and the time-linear interpolation of (a, b)
// at p's timestamp. If a and b share a timestamp, the error is the planar
// distance from p to a (spec.md §4.1).
func SED(p, a, b fixstream.Fix) float64 {
	tA := a.Timestamp.UnixNano()
	tB := b.Timestamp.UnixNano()

	if tA == tB {
		return planarDistanceDegrees(p, a)
	}

	ratio := float64(p.Timestamp.UnixNano()-tA) / float64(tB-tA)
	predLat := a.Lat + (b.Lat-a.Lat)*ratio
	predLon := a.Lon + (b.Lon-a.Lon)*ratio

	avgLat := (a.Lat + b.Lat) / 2.0
	dyM, dxM := DegreesToMeters(p.Lat-predLat, p.Lon-predLon, avgLat)
	return math.Hypot(dyM, dxM)
}

// planarDistanceDegrees is the degenerate a==b SED case: the metric
// distance between p and a, using the average of the two points' latitudes
// as the local scaling factor.
func planarDistanceDegrees(p, a fixstream.Fix) float64 {
	avgLat := (p.Lat + a.Lat) / 2.0
	dyM, dxM := DegreesToMeters(p.Lat-a.Lat, p.Lon-a.Lon, avgLat)
	return math.Hypot(dyM, dxM)
}
