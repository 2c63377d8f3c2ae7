package fixstream

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind tags a Segment as a Stop or a Move. Go has no sum types, so Segment
// is a small tagged struct instead of the source's Stop/Move subclasses;
// consumers switch on Kind.
type Kind int

const (
	// Move is the inter-stop travel portion of a trajectory.
	Move Kind = iota
	// Stop is a place where the object dwelt for at least min_duration_seconds.
	Stop
)

func (k Kind) String() string {
	switch k {
	case Stop:
		return "stop"
	case Move:
		return "move"
	default:
		return "unknown"
	}
}

// ErrEmptySegment is returned when constructing a Segment from zero points.
var ErrEmptySegment = errors.New("fixstream: segment must have at least one point")

// ErrMixedObjID is returned when a segment's points do not share one obj_id.
var ErrMixedObjID = errors.New("fixstream: segment points must share one obj_id")

// ErrNonMonotonic is returned when a segment's points are not time-ordered.
var ErrNonMonotonic = errors.New("fixstream: segment points must be non-decreasing in time")

// Segment is a maximal run of fixes classified as either a Stop or a Move.
// SegmentID is a random identifier minted at construction time purely for
// log correlation; it plays no role in any invariant or comparison.
type Segment struct {
	SegmentID string
	Kind      Kind
	Points    []Fix

	// Centroid is populated only for Stop segments: the arithmetic mean of
	// member lat/lon, carrying the first member's timestamp and obj_id.
	Centroid *Fix
}

// NewMove builds a Move segment from points, validating the shared
// invariants (non-empty, monotonic, single obj_id).
func NewMove(points []Fix) (Segment, error) {
	if err := validatePoints(points); err != nil {
		return Segment{}, err
	}
	return Segment{
		SegmentID: uuid.NewString(),
		Kind:      Move,
		Points:    points,
	}, nil
}

// NewStop builds a Stop segment from points, computing its centroid fix as
// the arithmetic mean of member lat/lon with the first member's timestamp
// and obj_id.
func NewStop(points []Fix) (Segment, error) {
	if err := validatePoints(points); err != nil {
		return Segment{}, err
	}
	centroid := centroidOf(points)
	return Segment{
		SegmentID: uuid.NewString(),
		Kind:      Stop,
		Points:    points,
		Centroid:  &centroid,
	}, nil
}

func centroidOf(points []Fix) Fix {
	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	n := float64(len(points))
	return Fix{
		Lat:       sumLat / n,
		Lon:       sumLon / n,
		Timestamp: points[0].Timestamp,
		ObjID:     points[0].ObjID,
	}
}

func validatePoints(points []Fix) error {
	if len(points) == 0 {
		return ErrEmptySegment
	}
	objID := points[0].ObjID
	for i, p := range points {
		if p.ObjID != objID {
			return fmt.Errorf("%w: point %d has obj_id %q, want %q", ErrMixedObjID, i, p.ObjID, objID)
		}
		if i > 0 && p.Timestamp.Before(points[i-1].Timestamp) {
			return fmt.Errorf("%w: point %d precedes point %d", ErrNonMonotonic, i, i-1)
		}
	}
	return nil
}

// StartTime returns the timestamp of the first point. Segments are never
// empty (validated at construction), so this never needs a zero-value case.
func (s Segment) StartTime() time.Time {
	return s.Points[0].Timestamp
}

// EndTime returns the timestamp of the last point.
func (s Segment) EndTime() time.Time {
	return s.Points[len(s.Points)-1].Timestamp
}
