package mapmatch

import (
	"errors"
	"fmt"

	"github.com/matsaks/hysoc/internal/fixstream"
)

// ErrOutOfOrderTimestamp is returned by ProcessFix when a fix's timestamp
// precedes the previously ingested fix's timestamp. The sliding window's
// Viterbi columns are built in arrival order, so an out-of-order fix would
// silently corrupt the transition-cost alignment rather than failing loudly.
var ErrOutOfOrderTimestamp = errors.New("mapmatch: fix timestamp precedes previous fix")

// Matcher is a streaming windowed HMM map-matcher bound to one RoadGraph.
// Feed it fixes via ProcessFix; call Flush at end-of-stream to drain the
// buffer. A Matcher is not safe for concurrent use, but its RoadGraph may
// be shared by other Matchers.
type Matcher struct {
	graph  *RoadGraph
	cfg    Config
	buffer []fixstream.Fix

	lastTimestampSet bool
	lastTimestamp    int64
}

// NewMatcher validates cfg and binds a Matcher to graph.
func NewMatcher(graph *RoadGraph, cfg Config) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{graph: graph, cfg: cfg}, nil
}

// ProcessFix ingests one fix. While the buffer holds fewer than
// WindowSize fixes, it returns ok=false (nothing committed yet). Once
// full, it matches the whole window, emits the oldest fix snapped onto
// its matched edge, and evicts it.
func (m *Matcher) ProcessFix(fix fixstream.Fix) (out fixstream.Fix, ok bool, err error) {
	ts := fix.Timestamp.UnixNano()
	if m.lastTimestampSet && ts < m.lastTimestamp {
		return fixstream.Fix{}, false, fmt.Errorf("%w: %s", ErrOutOfOrderTimestamp, fix.Timestamp)
	}
	m.lastTimestampSet = true
	m.lastTimestamp = ts

	m.buffer = append(m.buffer, fix)
	if len(m.buffer) < m.cfg.WindowSize {
		return fixstream.Fix{}, false, nil
	}

	out = m.matchOldest()
	m.buffer = m.buffer[1:]
	return out, true, nil
}

// Flush repeatedly re-matches the shrinking buffer, emitting each
// remaining fix in order. Idempotent once the buffer is empty.
func (m *Matcher) Flush() []fixstream.Fix {
	var out []fixstream.Fix
	for len(m.buffer) > 0 {
		out = append(out, m.matchOldest())
		m.buffer = m.buffer[1:]
	}
	return out
}

// matchOldest matches the current buffer and returns the oldest fix,
// snapped onto its matched edge. On MatchFailure the oldest fix passes
// through unsnapped with no road_id, per spec.md §4.2/§7.
func (m *Matcher) matchOldest() fixstream.Fix {
	oldest := m.buffer[0]

	result, ok := matchWindow(m.graph, m.buffer, m.cfg)
	if !ok {
		return oldest
	}

	edge := result.edges[0]
	return oldest.
		WithRoadID(edge.resolvedRoadID()).
		WithCoords(result.projLat[0], result.projLon[0])
}
