package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTuningConfig_Partial(t *testing.T) {
	path := writeTuning(t, `{"butterworth_cutoff_hz": 8.0, "workers": 4}`)
	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}
	p := cfg.FilterParams()
	if p.ButterworthCutoffHz != 8.0 {
		t.Errorf("cutoff %v, want override 8.0", p.ButterworthCutoffHz)
	}
	if p.ButterworthOrder != 4 {
		t.Errorf("order %v, want pinned default 4", p.ButterworthOrder)
	}
	if p.SavGolWindow != 11 {
		t.Errorf("savgol window %v, want pinned default 11", p.SavGolWindow)
	}
	if cfg.GetWorkers() != 4 {
		t.Errorf("workers %v, want 4", cfg.GetWorkers())
	}
	if cfg.GetMovementTimeout() != 0 {
		t.Errorf("timeout %v, want 0 (default)", cfg.GetMovementTimeout())
	}
}

func TestLoadTuningConfig_Timeout(t *testing.T) {
	path := writeTuning(t, `{"movement_timeout": "45s"}`)
	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}
	if got := cfg.GetMovementTimeout(); got != 45*time.Second {
		t.Errorf("timeout %v, want 45s", got)
	}
}

func TestLoadTuningConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad order":     `{"butterworth_order": 12}`,
		"bad alpha":     `{"exponential_alpha": 1.5}`,
		"inverted band": `{"band_low_hz": 12, "band_high_hz": 3}`,
		"bad timeout":   `{"movement_timeout": "soon"}`,
		"bad workers":   `{"workers": -1}`,
	}
	for name, body := range cases {
		if _, err := LoadTuningConfig(writeTuning(t, body)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadTuningConfig_RequiresJSONExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTuningConfig(path); err == nil {
		t.Error("non-JSON extension should be rejected")
	}
}

func TestEmptyTuningConfig_UsesDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()
	p := cfg.FilterParams()
	if p.ButterworthCutoffHz != 6.0 || p.KalmanMeasNoise != 0.1 || p.ParticleCount != 100 {
		t.Errorf("empty config should yield pinned defaults, got %+v", p)
	}
}
