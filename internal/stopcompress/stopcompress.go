package stopcompress

import (
	"errors"

	"github.com/matsaks/hysoc/internal/fixstream"
)

// ErrInvalidInput is returned by Compress when given an empty point
// sequence.
var ErrInvalidInput = errors.New("stopcompress: cannot compress empty list of points")

// Compressor collapses Stop segments into CompressedStop values. It holds
// no state and is safe for concurrent use.
type Compressor struct{}

// NewCompressor returns a ready-to-use Compressor.
func NewCompressor() *Compressor {
	return &Compressor{}
}

// Compress reduces points to their centroid and time window. Fails with
// ErrInvalidInput on an empty sequence.
func (c *Compressor) Compress(points []fixstream.Fix) (fixstream.CompressedStop, error) {
	if len(points) == 0 {
		return fixstream.CompressedStop{}, ErrInvalidInput
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(points))
	startTime := points[0].Timestamp
	endTime := points[len(points)-1].Timestamp

	centroid := fixstream.Fix{
		Lat:       sumLat / n,
		Lon:       sumLon / n,
		Timestamp: startTime,
		ObjID:     points[0].ObjID,
	}

	return fixstream.CompressedStop{
		Centroid:  centroid,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}

// FromSegment compresses an already-built Stop segment, reusing its
// precomputed centroid and the segment's own start/end timestamps.
func (c *Compressor) FromSegment(stop fixstream.Segment) (fixstream.CompressedStop, error) {
	if stop.Kind != fixstream.Stop || stop.Centroid == nil {
		return c.Compress(stop.Points)
	}
	return fixstream.CompressedStop{
		Centroid:  *stop.Centroid,
		StartTime: stop.StartTime(),
		EndTime:   stop.EndTime(),
	}, nil
}
