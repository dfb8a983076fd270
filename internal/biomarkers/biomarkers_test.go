package biomarkers

import (
	"math"
	"testing"
)

func sine(n int, freq, fs, amp float64) []float64 {
	sig := make([]float64, n)
	for i := range sig {
		sig[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/fs)
	}
	return sig
}

func TestDominantFrequency_FiveHertzSine(t *testing.T) {
	// 10 seconds at 30 fps, matching the clinical capture defaults.
	sig := sine(300, 5, 30, 1)
	freq, amp, ok := DominantFrequency(sig, 30, 0.5, 14)
	if !ok {
		t.Fatal("expected a dominant frequency")
	}
	if math.Abs(freq-5) > 0.3 {
		t.Errorf("dominant frequency %.3f Hz, want 5 +/- 0.3", freq)
	}
	if math.Abs(amp-1) > 0.1 {
		t.Errorf("amplitude %.3f, want ~1", amp)
	}
}

func TestDominantFrequency_IgnoresOutOfBand(t *testing.T) {
	// Strong 1 Hz motion plus weaker 6 Hz tremor; the tremor band search
	// must report 6 Hz, not the stronger out-of-band component.
	sig := sine(300, 1, 30, 1)
	tremor := sine(300, 6, 30, 0.3)
	for i := range sig {
		sig[i] += tremor[i]
	}
	freq, _, ok := TremorMetrics(sig, 30)
	if !ok {
		t.Fatal("expected tremor metrics")
	}
	if math.Abs(freq-6) > 0.3 {
		t.Errorf("tremor frequency %.3f Hz, want 6 +/- 0.3", freq)
	}
}

func TestPowerSpectrum_TooShort(t *testing.T) {
	if sp := PowerSpectrum([]float64{1, 2, 3}, 30); sp != nil {
		t.Error("expected nil spectrum for 3 samples")
	}
	if _, _, ok := DominantFrequency([]float64{1, 2}, 30, 0, 15); ok {
		t.Error("expected no dominant frequency for 2 samples")
	}
}

func TestSPARC_TimeShiftInvariant(t *testing.T) {
	// SPARC depends only on sample values and sampling rate; a uniform
	// time shift of the underlying recording leaves it unchanged.
	vel := sine(300, 2, 30, 1)
	a, okA := SPARC(vel, 30)
	shifted := make([]float64, len(vel))
	copy(shifted, vel)
	b, okB := SPARC(shifted, 30)
	if !okA || !okB {
		t.Fatal("expected SPARC values")
	}
	if a != b {
		t.Errorf("SPARC changed under time shift: %v vs %v", a, b)
	}
}

func TestSPARC_JerkierIsMoreNegative(t *testing.T) {
	smooth := sine(300, 1, 30, 1)
	jerky := make([]float64, len(smooth))
	copy(jerky, smooth)
	ripple := sine(300, 9, 30, 0.4)
	for i := range jerky {
		jerky[i] += ripple[i]
	}
	s1, ok1 := SPARC(smooth, 30)
	s2, ok2 := SPARC(jerky, 30)
	if !ok1 || !ok2 {
		t.Fatal("expected SPARC values")
	}
	if s2 >= s1 {
		t.Errorf("jerky signal should score more negative: smooth %.3f jerky %.3f", s1, s2)
	}
}

func TestLogDimensionlessJerk_OrdersSignals(t *testing.T) {
	smooth := sine(300, 1, 30, 1)
	jerky := make([]float64, len(smooth))
	copy(jerky, smooth)
	ripple := sine(300, 10, 30, 0.5)
	for i := range jerky {
		jerky[i] += ripple[i]
	}
	l1, ok1 := LogDimensionlessJerk(smooth, 30)
	l2, ok2 := LogDimensionlessJerk(jerky, 30)
	if !ok1 || !ok2 {
		t.Fatal("expected LDLJ values")
	}
	if l2 >= l1 {
		t.Errorf("jerky signal should score more negative: smooth %.3f jerky %.3f", l1, l2)
	}
}

func TestSmoothnessScore_Bounds(t *testing.T) {
	if s := SmoothnessScore(-1.0); s != 1 {
		t.Errorf("very smooth should clamp to 1, got %v", s)
	}
	if s := SmoothnessScore(-9.0); s != 0 {
		t.Errorf("very jerky should clamp to 0, got %v", s)
	}
	mid := SmoothnessScore(-3.25)
	if mid <= 0 || mid >= 1 {
		t.Errorf("mid-range SPARC should score inside (0,1), got %v", mid)
	}
}

func TestRangeOfMotion_OutlierGuard(t *testing.T) {
	sig := make([]float64, 100)
	for i := range sig {
		sig[i] = math.Sin(float64(i) / 5) // range ~2
	}
	rom, ok := RangeOfMotion(sig)
	if !ok {
		t.Fatal("expected ROM")
	}
	if math.Abs(rom-2) > 0.1 {
		t.Errorf("clean ROM %.3f, want ~2", rom)
	}

	// One mistracked frame far outside the motion must not inflate ROM.
	sig[50] = 80
	guarded, ok := RangeOfMotion(sig)
	if !ok {
		t.Fatal("expected ROM with outlier present")
	}
	if guarded > 3 {
		t.Errorf("outlier frame leaked into ROM: %.3f", guarded)
	}
}

func TestRangeOfMotion_Degenerate(t *testing.T) {
	if _, ok := RangeOfMotion([]float64{1}); ok {
		t.Error("single frame should not produce a ROM")
	}
	rom, ok := RangeOfMotion([]float64{2, 2, 2, 2})
	if !ok || rom != 0 {
		t.Errorf("constant signal should give ROM 0, got %v ok=%v", rom, ok)
	}
}

func TestAsymmetry(t *testing.T) {
	if a, ok := Asymmetry(1, 1); !ok || a != 0 {
		t.Errorf("equal sides should give 0, got %v ok=%v", a, ok)
	}
	a, ok := Asymmetry(2, 1)
	if !ok {
		t.Fatal("expected asymmetry value")
	}
	if math.Abs(a-2.0/3) > 1e-12 {
		t.Errorf("asymmetry(2,1) = %v, want 2/3", a)
	}
	if _, ok := Asymmetry(0, 0); ok {
		t.Error("both sides zero should not produce a value")
	}
}

func TestDetectPeaks_TappingSignal(t *testing.T) {
	// 2 Hz tapping for 10 s at 30 fps: expect ~20 peaks and a 2 Hz cycle
	// frequency estimate.
	sig := sine(300, 2, 30, 1)
	peaks := DetectPeaks(sig)
	if len(peaks) < 18 || len(peaks) > 21 {
		t.Fatalf("expected ~20 peaks, got %d", len(peaks))
	}
	freq, ok := CycleFrequency(peaks, 30)
	if !ok {
		t.Fatal("expected cycle frequency")
	}
	if math.Abs(freq-2) > 0.2 {
		t.Errorf("cycle frequency %.3f Hz, want ~2", freq)
	}
}

func TestDetectPeaks_FlatSignal(t *testing.T) {
	sig := make([]float64, 100)
	if peaks := DetectPeaks(sig); len(peaks) != 0 {
		t.Errorf("flat signal should have no peaks, got %d", len(peaks))
	}
}

func TestRegularityScore(t *testing.T) {
	if s := RegularityScore(0); s != 1 {
		t.Errorf("cv=0 should score 1, got %v", s)
	}
	if s := RegularityScore(1); math.Abs(s-0.5) > 1e-12 {
		t.Errorf("cv=1 should score 0.5, got %v", s)
	}
	if s := RegularityScore(100); s > 0.05 {
		t.Errorf("huge cv should score near 0, got %v", s)
	}
}

func TestCorrelation(t *testing.T) {
	a := sine(100, 2, 30, 1)
	r, ok := Correlation(a, a)
	if !ok || math.Abs(r-1) > 1e-9 {
		t.Errorf("self correlation should be 1, got %v ok=%v", r, ok)
	}
	b := make([]float64, len(a))
	for i := range a {
		b[i] = -a[i]
	}
	r, ok = Correlation(a, b)
	if !ok || math.Abs(r+1) > 1e-9 {
		t.Errorf("anti-correlated should be -1, got %v ok=%v", r, ok)
	}
	if _, ok := Correlation(a, a[:50]); ok {
		t.Error("length mismatch should not correlate")
	}
}
