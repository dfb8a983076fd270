// Package config loads the optional tuning file that overrides the pipeline's
// pinned filter and orchestration defaults. All fields are pointers so a
// partial file only overrides what it names.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/motus-health/handmetrics/internal/filter"
)

// TuningConfig is the root of the tuning JSON file. Every field is optional;
// nil means "use the pinned default". The pinned values were fixed during
// clinical validation, so overrides are for research use, not routine runs.
type TuningConfig struct {
	// Filter params
	ButterworthOrder    *int     `json:"butterworth_order,omitempty"`
	ButterworthCutoffHz *float64 `json:"butterworth_cutoff_hz,omitempty"`
	KalmanProcessNoise  *float64 `json:"kalman_process_noise,omitempty"`
	KalmanMeasNoise     *float64 `json:"kalman_measurement_noise,omitempty"`
	SavGolWindow        *int     `json:"savgol_window,omitempty"`
	SavGolPolyOrder     *int     `json:"savgol_poly_order,omitempty"`
	MovingAvgWindow     *int     `json:"moving_average_window,omitempty"`
	ExpSmoothAlpha      *float64 `json:"exponential_alpha,omitempty"`
	BandLowHz           *float64 `json:"band_low_hz,omitempty"`
	BandHighHz          *float64 `json:"band_high_hz,omitempty"`
	WaveletLevel        *int     `json:"wavelet_level,omitempty"`
	ParticleCount       *int     `json:"particle_count,omitempty"`
	ParticleSeed        *int64   `json:"particle_seed,omitempty"`

	// Orchestrator params
	Workers         *int    `json:"workers,omitempty"`
	MovementTimeout *string `json:"movement_timeout,omitempty"` // duration string like "30s"
}

// EmptyTuningConfig returns a config with every field unset.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file stay nil, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read tuning file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse tuning JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning config: %w", err)
	}
	return cfg, nil
}

// Validate checks the overrides that have hard bounds. Filter constructors
// re-check their own parameters; this catches the values a constructor
// cannot see in isolation.
func (c *TuningConfig) Validate() error {
	if c.ButterworthOrder != nil && (*c.ButterworthOrder < 1 || *c.ButterworthOrder > 8) {
		return fmt.Errorf("butterworth_order must be 1..8, got %d", *c.ButterworthOrder)
	}
	if c.ExpSmoothAlpha != nil && (*c.ExpSmoothAlpha <= 0 || *c.ExpSmoothAlpha > 1) {
		return fmt.Errorf("exponential_alpha must be in (0,1], got %f", *c.ExpSmoothAlpha)
	}
	if c.BandLowHz != nil && c.BandHighHz != nil && *c.BandLowHz >= *c.BandHighHz {
		return fmt.Errorf("band_low_hz %f must be below band_high_hz %f", *c.BandLowHz, *c.BandHighHz)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.MovementTimeout != nil && *c.MovementTimeout != "" {
		if _, err := time.ParseDuration(*c.MovementTimeout); err != nil {
			return fmt.Errorf("invalid movement_timeout %q: %w", *c.MovementTimeout, err)
		}
	}
	return nil
}

// FilterParams returns the pinned filter defaults with the config's
// overrides applied.
func (c *TuningConfig) FilterParams() filter.Params {
	p := filter.DefaultParams()
	if c.ButterworthOrder != nil {
		p.ButterworthOrder = *c.ButterworthOrder
	}
	if c.ButterworthCutoffHz != nil {
		p.ButterworthCutoffHz = *c.ButterworthCutoffHz
	}
	if c.KalmanProcessNoise != nil {
		p.KalmanProcessNoisePos = *c.KalmanProcessNoise
		p.KalmanProcessNoiseVel = *c.KalmanProcessNoise
	}
	if c.KalmanMeasNoise != nil {
		p.KalmanMeasNoise = *c.KalmanMeasNoise
	}
	if c.SavGolWindow != nil {
		p.SavGolWindow = *c.SavGolWindow
	}
	if c.SavGolPolyOrder != nil {
		p.SavGolPolyOrder = *c.SavGolPolyOrder
	}
	if c.MovingAvgWindow != nil {
		p.MovingAvgWindow = *c.MovingAvgWindow
	}
	if c.ExpSmoothAlpha != nil {
		p.ExpSmoothAlpha = *c.ExpSmoothAlpha
	}
	if c.BandLowHz != nil {
		p.BandLowHz = *c.BandLowHz
	}
	if c.BandHighHz != nil {
		p.BandHighHz = *c.BandHighHz
	}
	if c.WaveletLevel != nil {
		p.WaveletLevel = *c.WaveletLevel
	}
	if c.ParticleCount != nil {
		p.ParticleCount = *c.ParticleCount
	}
	if c.ParticleSeed != nil {
		p.ParticleSeed = *c.ParticleSeed
	}
	return p
}

// GetWorkers returns the worker override, or 0 to size the pool to the CPU
// count.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetMovementTimeout parses the per-movement timeout override, or 0 for the
// orchestrator default.
func (c *TuningConfig) GetMovementTimeout() time.Duration {
	if c.MovementTimeout == nil || *c.MovementTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(*c.MovementTimeout)
	if err != nil {
		return 0
	}
	return d
}
