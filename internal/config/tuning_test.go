package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }

func TestLoadDefaultsFile(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	require.NotNil(t, cfg.MaxEpsMeters)
	require.NotNil(t, cfg.MinDurationSeconds)
	require.NotNil(t, cfg.GridSizeMeters)
	require.NotNil(t, cfg.Capacity)
	require.NotNil(t, cfg.WindowSize)
	require.NotNil(t, cfg.MaxDist)
	require.NotNil(t, cfg.MaxDistInit)
	require.NotNil(t, cfg.MinProbNorm)
	require.NotNil(t, cfg.MoveCompression)

	assert.Greater(t, *cfg.MaxEpsMeters, 0.0)
	assert.Greater(t, *cfg.MinDurationSeconds, 0.0)
	assert.GreaterOrEqual(t, *cfg.Capacity, 3)
	assert.GreaterOrEqual(t, *cfg.WindowSize, 1)

	assert.NoError(t, cfg.Validate())
}

func TestEmptyTuningConfig(t *testing.T) {
	cfg := EmptyTuningConfig()

	assert.Nil(t, cfg.MaxEpsMeters)
	assert.Nil(t, cfg.MinDurationSeconds)
	assert.Nil(t, cfg.GridSizeMeters)
	assert.Nil(t, cfg.Capacity)
	assert.Nil(t, cfg.WindowSize)
	assert.Nil(t, cfg.MaxDist)
	assert.Nil(t, cfg.MaxDistInit)
	assert.Nil(t, cfg.MinProbNorm)
	assert.Nil(t, cfg.MoveCompression)

	// An empty config is valid: every field is optional and falls back
	// to the Get* defaults.
	assert.NoError(t, cfg.Validate())
}

func TestLoadTuningConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "max_eps_meters": 40.0,
  "min_duration_seconds": 90.0,
  "grid_size_meters": 15.0,
  "capacity": 60,
  "window_size": 12,
  "max_dist": 45.0,
  "max_dist_init": 90.0,
  "min_prob_norm": 0.002,
  "move_compression": "stc"
}`
	require.NoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadTuningConfig(configPath)
	require.NoError(t, err)

	require.NotNil(t, cfg.MaxEpsMeters)
	assert.Equal(t, 40.0, *cfg.MaxEpsMeters)
	require.NotNil(t, cfg.MinDurationSeconds)
	assert.Equal(t, 90.0, *cfg.MinDurationSeconds)
	require.NotNil(t, cfg.GridSizeMeters)
	assert.Equal(t, 15.0, *cfg.GridSizeMeters)
	require.NotNil(t, cfg.Capacity)
	assert.Equal(t, 60, *cfg.Capacity)
	require.NotNil(t, cfg.WindowSize)
	assert.Equal(t, 12, *cfg.WindowSize)
	require.NotNil(t, cfg.MaxDist)
	assert.Equal(t, 45.0, *cfg.MaxDist)
	require.NotNil(t, cfg.MaxDistInit)
	assert.Equal(t, 90.0, *cfg.MaxDistInit)
	require.NotNil(t, cfg.MinProbNorm)
	assert.Equal(t, 0.002, *cfg.MinProbNorm)
	require.NotNil(t, cfg.MoveCompression)
	assert.Equal(t, "stc", *cfg.MoveCompression)
}

func TestLoadTuningConfigMissing(t *testing.T) {
	_, err := LoadTuningConfig("/nonexistent/path/to/config.json")
	assert.Error(t, err)
}

func TestLoadTuningConfigInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.json")

	invalidJSON := `{
  "max_eps_meters": "not-a-number"
`
	require.NoError(t, os.WriteFile(configPath, []byte(invalidJSON), 0644))

	_, err := LoadTuningConfig(configPath)
	assert.Error(t, err)
}

func TestLoadTuningConfigPartial(t *testing.T) {
	// Partial configs are allowed: unset keys fall back to Get* defaults.
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "partial.json")

	partialJSON := `{
  "capacity": 80
}`
	require.NoError(t, os.WriteFile(configPath, []byte(partialJSON), 0644))

	cfg, err := LoadTuningConfig(configPath)
	require.NoError(t, err)
	require.NotNil(t, cfg.Capacity)
	assert.Equal(t, 80, *cfg.Capacity)
	assert.Nil(t, cfg.MaxEpsMeters)
	assert.Equal(t, 50.0, cfg.GetMaxEpsMeters())
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	_, err := LoadTuningConfig("/some/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadTuningConfigRejectsLargeFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "large.json")

	largeData := make([]byte, 2*1024*1024) // 2MB
	require.NoError(t, os.WriteFile(configPath, largeData, 0644))

	_, err := LoadTuningConfig(configPath)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TuningConfig
		wantErr bool
	}{
		{
			name:    "valid config from defaults file",
			cfg:     MustLoadDefaultConfig(),
			wantErr: false,
		},
		{
			name:    "empty config is valid",
			cfg:     &TuningConfig{},
			wantErr: false,
		},
		{
			name: "non-positive max eps meters",
			cfg: &TuningConfig{
				MaxEpsMeters: ptrFloat64(0),
			},
			wantErr: true,
		},
		{
			name: "non-positive min duration seconds",
			cfg: &TuningConfig{
				MinDurationSeconds: ptrFloat64(-1),
			},
			wantErr: true,
		},
		{
			name: "negative grid size meters",
			cfg: &TuningConfig{
				GridSizeMeters: ptrFloat64(-5),
			},
			wantErr: true,
		},
		{
			name: "capacity below minimum",
			cfg: &TuningConfig{
				Capacity: ptrInt(2),
			},
			wantErr: true,
		},
		{
			name: "window size below minimum",
			cfg: &TuningConfig{
				WindowSize: ptrInt(0),
			},
			wantErr: true,
		},
		{
			name: "non-positive max dist",
			cfg: &TuningConfig{
				MaxDist: ptrFloat64(0),
			},
			wantErr: true,
		},
		{
			name: "non-positive max dist init",
			cfg: &TuningConfig{
				MaxDistInit: ptrFloat64(0),
			},
			wantErr: true,
		},
		{
			name: "min prob norm out of range (too low)",
			cfg: &TuningConfig{
				MinProbNorm: ptrFloat64(0),
			},
			wantErr: true,
		},
		{
			name: "min prob norm out of range (too high)",
			cfg: &TuningConfig{
				MinProbNorm: ptrFloat64(1.5),
			},
			wantErr: true,
		},
		{
			name: "unknown move compression strategy",
			cfg: &TuningConfig{
				MoveCompression: ptrString("bogus"),
			},
			wantErr: true,
		},
		{
			name: "valid move compression strategy",
			cfg: &TuningConfig{
				MoveCompression: ptrString("stc"),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetterDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	assert.Equal(t, 50.0, cfg.GetMaxEpsMeters())
	assert.Equal(t, 120.0, cfg.GetMinDurationSeconds())
	assert.Equal(t, 0.0, cfg.GetGridSizeMeters())
	assert.Equal(t, 50, cfg.GetCapacity())
	assert.Equal(t, 15, cfg.GetWindowSize())
	assert.Equal(t, 50.0, cfg.GetMaxDist())
	assert.Equal(t, 100.0, cfg.GetMaxDistInit())
	assert.Equal(t, 0.001, cfg.GetMinProbNorm())
	assert.Equal(t, "squish", cfg.GetMoveCompression())
}

func TestGetterExplicitValues(t *testing.T) {
	cfg := &TuningConfig{
		MaxEpsMeters:       ptrFloat64(30),
		MinDurationSeconds: ptrFloat64(60),
		GridSizeMeters:     ptrFloat64(10),
		Capacity:           ptrInt(20),
		WindowSize:         ptrInt(5),
		MaxDist:            ptrFloat64(25),
		MaxDistInit:        ptrFloat64(55),
		MinProbNorm:        ptrFloat64(0.01),
		MoveCompression:    ptrString("stc"),
	}

	assert.Equal(t, 30.0, cfg.GetMaxEpsMeters())
	assert.Equal(t, 60.0, cfg.GetMinDurationSeconds())
	assert.Equal(t, 10.0, cfg.GetGridSizeMeters())
	assert.Equal(t, 20, cfg.GetCapacity())
	assert.Equal(t, 5, cfg.GetWindowSize())
	assert.Equal(t, 25.0, cfg.GetMaxDist())
	assert.Equal(t, 55.0, cfg.GetMaxDistInit())
	assert.Equal(t, 0.01, cfg.GetMinProbNorm())
	assert.Equal(t, "stc", cfg.GetMoveCompression())
}

func TestLoadDefaultConfigFile(t *testing.T) {
	cfg, err := LoadTuningConfig("../../config/tuning.defaults.json")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.Greater(t, cfg.GetMaxEpsMeters(), 0.0)
}

func TestLoadExampleConfigFile(t *testing.T) {
	cfg, err := LoadTuningConfig("../../config/tuning.example.json")
	require.NoError(t, err)
	assert.Equal(t, "stc", cfg.GetMoveCompression())
	assert.Equal(t, 75, cfg.GetCapacity())
}
