package step

import (
	"errors"
	"fmt"

	"github.com/matsaks/hysoc/internal/fixstream"
	"github.com/matsaks/hysoc/internal/geo"
	"github.com/matsaks/hysoc/internal/monitoring"
)

// ErrOutOfOrderTimestamp is returned by ProcessFix when a fix's timestamp
// precedes the previously processed fix's timestamp. The grid-index
// short-circuit in the classification pass assumes a monotonic cache, so
// out-of-order fixes are rejected rather than silently reordered.
var ErrOutOfOrderTimestamp = errors.New("step: fix timestamp precedes previous fix")

type cacheEntry struct {
	fix    fixstream.Fix
	gx, gy int
}

// Segmenter is a streaming STEP stay-point detector. Feed it fixes in
// non-decreasing timestamp order via ProcessFix; call Flush once the stream
// ends to drain whatever remains buffered. A Segmenter is not safe for
// concurrent use.
type Segmenter struct {
	cfg         Config
	gridSize    float64
	thresholdSq float64

	proj    geo.Projector
	hasProj bool

	cache       []cacheEntry
	cacheOffset int

	spStart *int
	spEnd   *int

	lastTimestampSet bool
	lastTimestamp    int64
}

// NewSegmenter validates cfg and returns a ready-to-use Segmenter.
func NewSegmenter(cfg Config) (*Segmenter, error) {
	gridSize, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	ratio := cfg.MaxEpsMeters / gridSize
	return &Segmenter{
		cfg:         cfg,
		gridSize:    gridSize,
		thresholdSq: ratio * ratio,
	}, nil
}

// ProcessFix ingests a single fix, returning zero or more segments emitted
// as a result (Algorithm 2's case table resolves to 0, 1 or 2 segments per
// call).
func (s *Segmenter) ProcessFix(fix fixstream.Fix) ([]fixstream.Segment, error) {
	ts := fix.Timestamp.UnixNano()
	if s.lastTimestampSet && ts < s.lastTimestamp {
		return nil, fmt.Errorf("%w: %s", ErrOutOfOrderTimestamp, fix.Timestamp)
	}
	s.lastTimestampSet = true
	s.lastTimestamp = ts

	if !s.hasProj {
		s.proj = geo.NewProjector(fix.Lat, fix.Lon)
		s.hasProj = true
	}

	east, north := s.proj.ToENU(fix.Lat, fix.Lon)
	gxC := int(floorDiv(east, s.gridSize))
	gyC := int(floorDiv(north, s.gridSize))

	s.cache = append(s.cache, cacheEntry{fix: fix, gx: gxC, gy: gyC})
	c := s.cacheOffset + len(s.cache) - 1

	is, hasIs := s.classify(c, gxC, gyC, fix)

	var segments []fixstream.Segment
	if hasIs {
		segments = s.handleStayPoint(is, c)
	} else {
		segments = s.handleNoStayPoint(fix)
	}
	return segments, nil
}

// classify runs Algorithm 1: the grid short-circuit that finds the
// earliest cached index still within MaxEpsMeters of the new fix, then
// confirms it as a stay-point start if the resulting span meets
// MinDurationSeconds.
func (s *Segmenter) classify(c, gxC, gyC int, fixC fixstream.Fix) (is int, ok bool) {
	i := c - 1
	for i >= s.cacheOffset {
		entry := s.cache[i-s.cacheOffset]
		dx := absInt(entry.gx - gxC)
		dy := absInt(entry.gy - gyC)

		confirmedBound := float64((dx+1)*(dx+1) + (dy+1)*(dy+1))
		prunedBound := float64(maxInt(0, dx-1)*maxInt(0, dx-1) + maxInt(0, dy-1)*maxInt(0, dy-1))

		switch {
		case confirmedBound <= s.thresholdSq:
			i--
		case prunedBound > s.thresholdSq:
			i++
			goto resolved
		default:
			dist := geo.FlatEarth(geo.LatLon{Lat: entry.fix.Lat, Lon: entry.fix.Lon}, geo.LatLon{Lat: fixC.Lat, Lon: fixC.Lon})
			if dist <= s.cfg.MaxEpsMeters {
				i--
			} else {
				i++
				goto resolved
			}
		}
	}
resolved:
	if i < s.cacheOffset {
		i = s.cacheOffset
	}
	if i > c {
		return 0, false
	}

	candidate := s.pointAt(i)
	duration := fixC.Timestamp.Sub(candidate.Timestamp).Seconds()
	if duration >= s.cfg.MinDurationSeconds {
		return i, true
	}
	return 0, false
}

// handleStayPoint implements Algorithm 2's Case 1: a stay point was formed
// by the fix just ingested.
func (s *Segmenter) handleStayPoint(is, ie int) []fixstream.Segment {
	var segments []fixstream.Segment

	if s.spStart != nil {
		if is <= *s.spEnd {
			// Case 1.2: intersects the open stay point; extend it.
			*s.spEnd = ie
			return nil
		}

		// Case 1.1: disjoint from the open stay point. Flush it and the
		// move in between, then open the new one.
		stop, err := fixstream.NewStop(s.pointsBetween(*s.spStart, *s.spEnd))
		if err == nil {
			segments = append(segments, stop)
		} else {
			monitoring.Logf("step: dropping empty stop at flush: %v", err)
		}

		if move, err := fixstream.NewMove(s.pointsBetween(*s.spEnd+1, is-1)); err == nil {
			segments = append(segments, move)
		}

		start, end := is, ie
		s.spStart, s.spEnd = &start, &end
		s.pruneCache(is)
		return segments
	}

	// Case 1.3: the first stay point seen. Flush anything cached before it
	// as a move.
	if move, err := fixstream.NewMove(s.pointsBetween(s.cacheOffset, is-1)); err == nil {
		segments = append(segments, move)
	}
	start, end := is, ie
	s.spStart, s.spEnd = &start, &end
	s.pruneCache(is)
	return segments
}

// handleNoStayPoint implements Algorithm 2's Case 2: the new fix did not
// extend or form a stay point.
func (s *Segmenter) handleNoStayPoint(fixC fixstream.Fix) []fixstream.Segment {
	if s.spStart == nil {
		// Case 2.2/2.3: nothing open, nothing to do.
		return nil
	}

	lastStopFix := s.pointAt(*s.spEnd)
	dist := geo.FlatEarth(
		geo.LatLon{Lat: lastStopFix.Lat, Lon: lastStopFix.Lon},
		geo.LatLon{Lat: fixC.Lat, Lon: fixC.Lon},
	)
	if dist <= s.cfg.MaxEpsMeters {
		// Case 2.2/2.3: still near the open stay point; wait for more data.
		return nil
	}

	// Case 2.1: far from the open stay point now. Flush it.
	stop, err := fixstream.NewStop(s.pointsBetween(*s.spStart, *s.spEnd))
	var segments []fixstream.Segment
	if err == nil {
		segments = append(segments, stop)
	}
	s.pruneCache(*s.spEnd + 1)
	s.spStart, s.spEnd = nil, nil
	return segments
}

// Flush drains everything still buffered: the open stay point (if any) as
// a Stop, followed by any trailing fixes as a Move. Flush is idempotent —
// calling it again on a drained Segmenter returns nil.
func (s *Segmenter) Flush() []fixstream.Segment {
	var segments []fixstream.Segment

	if s.spStart != nil {
		if stop, err := fixstream.NewStop(s.pointsBetween(*s.spStart, *s.spEnd)); err == nil {
			segments = append(segments, stop)
		}
		if move, err := fixstream.NewMove(s.pointsBetween(*s.spEnd+1, s.cacheOffset+len(s.cache)-1)); err == nil {
			segments = append(segments, move)
		}
	} else if move, err := fixstream.NewMove(s.pointsBetween(s.cacheOffset, s.cacheOffset+len(s.cache)-1)); err == nil {
		segments = append(segments, move)
	}

	s.cache = nil
	s.spStart, s.spEnd = nil, nil
	return segments
}

func (s *Segmenter) pointAt(absIdx int) fixstream.Fix {
	return s.cache[absIdx-s.cacheOffset].fix
}

func (s *Segmenter) pointsBetween(startAbs, endAbs int) []fixstream.Fix {
	if startAbs > endAbs {
		return nil
	}
	relStart := maxInt(0, startAbs-s.cacheOffset)
	relEnd := endAbs - s.cacheOffset
	if relEnd < relStart || relEnd >= len(s.cache) {
		relEnd = len(s.cache) - 1
	}
	if relStart > relEnd {
		return nil
	}

	out := make([]fixstream.Fix, 0, relEnd-relStart+1)
	for _, entry := range s.cache[relStart : relEnd+1] {
		out = append(out, entry.fix)
	}
	return out
}

func (s *Segmenter) pruneCache(newStartAbs int) {
	if newStartAbs <= s.cacheOffset {
		return
	}
	idx := newStartAbs - s.cacheOffset
	if idx > len(s.cache) {
		idx = len(s.cache)
	}
	s.cache = s.cache[idx:]
	s.cacheOffset = newStartAbs
}

func floorDiv(v, size float64) int {
	q := v / size
	f := int(q)
	if q < 0 && float64(f) != q {
		f--
	}
	return f
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
