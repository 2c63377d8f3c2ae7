package mapmatch

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by NewMatcher when a Config fails
// validation.
var ErrInvalidConfig = errors.New("mapmatch: invalid config")

// Config tunes the windowed HMM map-matcher.
type Config struct {
	// WindowSize is the number of fixes buffered for future context before
	// the oldest is matched and emitted.
	WindowSize int

	// MaxDist is the steady-state candidate-edge radius, in metres.
	MaxDist float64

	// MaxDistInit is the candidate-edge radius for the first (oldest) fix
	// of each matched window, in metres.
	MaxDistInit float64

	// MinProbNorm is the floor on the normalised path probability below
	// which a window is treated as a match failure.
	MinProbNorm float64
}

// DefaultConfig returns the spec's suggested defaults.
func DefaultConfig() Config {
	return Config{
		WindowSize:  15,
		MaxDist:     50.0,
		MaxDistInit: 100.0,
		MinProbNorm: 0.001,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.WindowSize < 1 {
		return fmt.Errorf("%w: window_size must be >= 1, got %d", ErrInvalidConfig, c.WindowSize)
	}
	if c.MaxDist <= 0 {
		return fmt.Errorf("%w: max_dist must be positive, got %v", ErrInvalidConfig, c.MaxDist)
	}
	if c.MaxDistInit <= 0 {
		return fmt.Errorf("%w: max_dist_init must be positive, got %v", ErrInvalidConfig, c.MaxDistInit)
	}
	if c.MinProbNorm <= 0 || c.MinProbNorm >= 1 {
		return fmt.Errorf("%w: min_prob_norm must be in (0, 1), got %v", ErrInvalidConfig, c.MinProbNorm)
	}
	return nil
}
