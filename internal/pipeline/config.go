package pipeline

import (
	"github.com/matsaks/hysoc/internal/mapmatch"
	"github.com/matsaks/hysoc/internal/squish"
	"github.com/matsaks/hysoc/internal/step"
)

// MoveCompression selects which of SQUISH or STC is used to compress a
// Move segment's points. The spec treats these as alternative views of
// the same Move, not a pipeline a fix passes through twice.
type MoveCompression int

const (
	// MoveCompressionSquish line-simplifies a Move by SED priority.
	MoveCompressionSquish MoveCompression = iota
	// MoveCompressionSTC reduces a Move to its road-transition anchors.
	MoveCompressionSTC
)

// Config wires together the per-stage tuning for a Pipeline.
type Config struct {
	MapMatch        mapmatch.Config
	Step            step.Config
	Squish          squish.Config
	MoveCompression MoveCompression
}
