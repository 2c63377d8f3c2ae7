package pipeline

import (
	"github.com/matsaks/hysoc/internal/fixstream"
	"github.com/matsaks/hysoc/internal/mapmatch"
	"github.com/matsaks/hysoc/internal/squish"
	"github.com/matsaks/hysoc/internal/step"
	"github.com/matsaks/hysoc/internal/stc"
	"github.com/matsaks/hysoc/internal/stopcompress"
)

// EventKind tags the kind of downstream event a Pipeline emits.
type EventKind int

const (
	// EventStop carries a collapsed CompressedStop.
	EventStop EventKind = iota
	// EventMove carries a compressed Move (SQUISH or STC, per Config).
	EventMove
)

// Event is one downstream output of a Pipeline: a Stop collapsed to its
// centroid and time window, or a Move reduced by the configured
// MoveCompression strategy.
type Event struct {
	Kind EventKind

	// Segment is the raw Stop/Move segment as detected by STEP, before
	// any per-kind compression.
	Segment fixstream.Segment

	// CompressedStop is set only when Kind == EventStop.
	CompressedStop *fixstream.CompressedStop

	// CompressedPoints is set only when Kind == EventMove: the Move's
	// points after SQUISH or STC reduction, per Config.MoveCompression.
	CompressedPoints []fixstream.Fix
}

// Pipeline is the streaming composition root: raw fixes flow through the
// map-matcher, then the STEP segmenter, then per-segment compression. A
// Pipeline is not safe for concurrent use.
type Pipeline struct {
	cfg Config

	matcher   *mapmatch.Matcher
	segmenter *step.Segmenter

	stopCompressor   *stopcompress.Compressor
	squishCompressor *squish.Compressor
	stcReducer       *stc.Reducer
}

// New builds a Pipeline over roadGraph using cfg. roadGraph must be
// non-nil: the map-matcher dereferences it as soon as its window fills.
func New(roadGraph *mapmatch.RoadGraph, cfg Config) (*Pipeline, error) {
	matcher, err := mapmatch.NewMatcher(roadGraph, cfg.MapMatch)
	if err != nil {
		return nil, err
	}
	segmenter, err := step.NewSegmenter(cfg.Step)
	if err != nil {
		return nil, err
	}
	squishCompressor, err := squish.NewCompressor(cfg.Squish)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:              cfg,
		matcher:          matcher,
		segmenter:        segmenter,
		stopCompressor:   stopcompress.NewCompressor(),
		squishCompressor: squishCompressor,
		stcReducer:       stc.NewReducer(),
	}, nil
}

// ProcessFix ingests one raw fix, returning zero or more events.
func (p *Pipeline) ProcessFix(fix fixstream.Fix) ([]Event, error) {
	matched, ok, err := p.matcher.ProcessFix(fix)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return p.advance(matched)
}

// Flush drains the map-matcher's buffer and then the segmenter's,
// returning every remaining event in order.
func (p *Pipeline) Flush() ([]Event, error) {
	var events []Event

	for _, matched := range p.matcher.Flush() {
		evs, err := p.advance(matched)
		if err != nil {
			return events, err
		}
		events = append(events, evs...)
	}

	for _, seg := range p.segmenter.Flush() {
		events = append(events, p.compress(seg))
	}

	return events, nil
}

func (p *Pipeline) advance(matched fixstream.Fix) ([]Event, error) {
	segments, err := p.segmenter.ProcessFix(matched)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(segments))
	for _, seg := range segments {
		events = append(events, p.compress(seg))
	}
	return events, nil
}

func (p *Pipeline) compress(seg fixstream.Segment) Event {
	if seg.Kind == fixstream.Stop {
		cs, err := p.stopCompressor.FromSegment(seg)
		if err != nil {
			// Unreachable: STEP never emits an empty Stop segment.
			return Event{Kind: EventStop, Segment: seg}
		}
		return Event{Kind: EventStop, Segment: seg, CompressedStop: &cs}
	}

	var points []fixstream.Fix
	switch p.cfg.MoveCompression {
	case MoveCompressionSTC:
		points = p.stcReducer.Reduce(seg.Points)
	default:
		points = p.squishCompressor.Compress(seg.Points)
	}
	return Event{Kind: EventMove, Segment: seg, CompressedPoints: points}
}
