package step

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned by NewSegmenter when a Config fails
// validation.
var ErrInvalidConfig = errors.New("step: invalid config")

// Config tunes the STEP stay-point detector.
type Config struct {
	// MaxEpsMeters is the distance threshold D, in metres, below which two
	// fixes are considered co-located for stay-point purposes.
	MaxEpsMeters float64

	// MinDurationSeconds is the time threshold T: a candidate stay point
	// must span at least this many seconds to be confirmed.
	MinDurationSeconds float64

	// GridSizeMeters is the index cell dimension g. Zero selects the
	// spec's default, g = (sqrt(2)/4) * MaxEpsMeters.
	GridSizeMeters float64
}

// Validate checks the config and returns the resolved grid size to use (the
// explicit value, or the computed default when GridSizeMeters is zero).
func (c Config) Validate() (gridSize float64, err error) {
	if c.MaxEpsMeters <= 0 {
		return 0, fmt.Errorf("%w: max_eps_meters must be positive, got %v", ErrInvalidConfig, c.MaxEpsMeters)
	}
	if c.MinDurationSeconds <= 0 {
		return 0, fmt.Errorf("%w: min_duration_seconds must be positive, got %v", ErrInvalidConfig, c.MinDurationSeconds)
	}
	if c.GridSizeMeters < 0 {
		return 0, fmt.Errorf("%w: grid_size_meters must not be negative, got %v", ErrInvalidConfig, c.GridSizeMeters)
	}

	if c.GridSizeMeters > 0 {
		return c.GridSizeMeters, nil
	}
	return (math.Sqrt2 / 4.0) * c.MaxEpsMeters, nil
}
