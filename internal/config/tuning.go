package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig is the root configuration for the pipeline's tuning
// parameters. Every field is a pointer so a partial JSON file — or none at
// all — is safe: absent fields fall back to the Get* defaults below.
type TuningConfig struct {
	// STEP params
	MaxEpsMeters       *float64 `json:"max_eps_meters,omitempty"`
	MinDurationSeconds *float64 `json:"min_duration_seconds,omitempty"`
	GridSizeMeters     *float64 `json:"grid_size_meters,omitempty"`

	// SQUISH params
	Capacity *int `json:"capacity,omitempty"`

	// MapMatcher params
	WindowSize  *int     `json:"window_size,omitempty"`
	MaxDist     *float64 `json:"max_dist,omitempty"`
	MaxDistInit *float64 `json:"max_dist_init,omitempty"`
	MinProbNorm *float64 `json:"min_prob_norm,omitempty"`

	// MoveCompression selects "squish" or "stc".
	MoveCompression *string `json:"move_compression,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields unset.
// Use LoadTuningConfig to load actual values from a defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file is
// validated to have a .json extension and to be under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching the current directory and a few parent
// directories. Panics if the file cannot be loaded; intended for test
// setup only.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that set fields hold plausible values. It intentionally
// mirrors each component's own Validate() so a bad tuning file is rejected
// before it ever reaches STEP/SQUISH/MapMatcher construction.
func (c *TuningConfig) Validate() error {
	if c.MaxEpsMeters != nil && *c.MaxEpsMeters <= 0 {
		return fmt.Errorf("max_eps_meters must be positive, got %v", *c.MaxEpsMeters)
	}
	if c.MinDurationSeconds != nil && *c.MinDurationSeconds <= 0 {
		return fmt.Errorf("min_duration_seconds must be positive, got %v", *c.MinDurationSeconds)
	}
	if c.GridSizeMeters != nil && *c.GridSizeMeters < 0 {
		return fmt.Errorf("grid_size_meters must not be negative, got %v", *c.GridSizeMeters)
	}
	if c.Capacity != nil && *c.Capacity < 3 {
		return fmt.Errorf("capacity must be at least 3, got %d", *c.Capacity)
	}
	if c.WindowSize != nil && *c.WindowSize < 1 {
		return fmt.Errorf("window_size must be >= 1, got %d", *c.WindowSize)
	}
	if c.MaxDist != nil && *c.MaxDist <= 0 {
		return fmt.Errorf("max_dist must be positive, got %v", *c.MaxDist)
	}
	if c.MaxDistInit != nil && *c.MaxDistInit <= 0 {
		return fmt.Errorf("max_dist_init must be positive, got %v", *c.MaxDistInit)
	}
	if c.MinProbNorm != nil && (*c.MinProbNorm <= 0 || *c.MinProbNorm >= 1) {
		return fmt.Errorf("min_prob_norm must be in (0, 1), got %v", *c.MinProbNorm)
	}
	if c.MoveCompression != nil && *c.MoveCompression != "squish" && *c.MoveCompression != "stc" {
		return fmt.Errorf("move_compression must be \"squish\" or \"stc\", got %q", *c.MoveCompression)
	}
	return nil
}

// GetMaxEpsMeters returns max_eps_meters or the spec default (50m).
func (c *TuningConfig) GetMaxEpsMeters() float64 {
	if c.MaxEpsMeters == nil {
		return 50.0
	}
	return *c.MaxEpsMeters
}

// GetMinDurationSeconds returns min_duration_seconds or the spec default (120s).
func (c *TuningConfig) GetMinDurationSeconds() float64 {
	if c.MinDurationSeconds == nil {
		return 120.0
	}
	return *c.MinDurationSeconds
}

// GetGridSizeMeters returns grid_size_meters, or 0 to signal "use the
// derived default" (D·√2/4) to step.Config.Validate.
func (c *TuningConfig) GetGridSizeMeters() float64 {
	if c.GridSizeMeters == nil {
		return 0
	}
	return *c.GridSizeMeters
}

// GetCapacity returns capacity or the spec default (50).
func (c *TuningConfig) GetCapacity() int {
	if c.Capacity == nil {
		return 50
	}
	return *c.Capacity
}

// GetWindowSize returns window_size or the spec default (15).
func (c *TuningConfig) GetWindowSize() int {
	if c.WindowSize == nil {
		return 15
	}
	return *c.WindowSize
}

// GetMaxDist returns max_dist or the spec default (50m).
func (c *TuningConfig) GetMaxDist() float64 {
	if c.MaxDist == nil {
		return 50.0
	}
	return *c.MaxDist
}

// GetMaxDistInit returns max_dist_init or the spec default (100m).
func (c *TuningConfig) GetMaxDistInit() float64 {
	if c.MaxDistInit == nil {
		return 100.0
	}
	return *c.MaxDistInit
}

// GetMinProbNorm returns min_prob_norm or the spec default (0.001).
func (c *TuningConfig) GetMinProbNorm() float64 {
	if c.MinProbNorm == nil {
		return 0.001
	}
	return *c.MinProbNorm
}

// GetMoveCompression returns move_compression or the default ("squish").
func (c *TuningConfig) GetMoveCompression() string {
	if c.MoveCompression == nil {
		return "squish"
	}
	return *c.MoveCompression
}
