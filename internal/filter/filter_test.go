package filter

import (
	"math"
	"testing"
)

// sine produces n samples of a sine at freq Hz sampled at fs Hz.
func sine(n int, freq, fs, amp float64) []float64 {
	sig := make([]float64, n)
	for i := range sig {
		sig[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/fs)
	}
	return sig
}

func addInPlace(dst, src []float64) {
	for i := range dst {
		dst[i] += src[i]
	}
}

func rms(sig []float64) float64 {
	var sum float64
	for _, v := range sig {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(sig)))
}

func TestBank_KnownFilters(t *testing.T) {
	bank := NewBank(30, DefaultParams())
	names := []string{
		NameButterworth, NameKalman, NameSavGol, NameMovingAvg,
		NameExpSmooth, NameBandPass, NameWavelet, NameParticle,
	}
	for _, name := range names {
		f, err := bank.Get(name)
		if err != nil {
			t.Errorf("Get(%q): %v", name, err)
			continue
		}
		if f.Name() != name {
			t.Errorf("Get(%q) returned filter named %q", name, f.Name())
		}
	}
	if _, err := bank.Get("median"); err == nil {
		t.Error("expected error for unknown filter name")
	}
}

func TestFilters_Deterministic(t *testing.T) {
	bank := NewBank(30, DefaultParams())
	sig := sine(300, 4, 30, 1)
	addInPlace(sig, sine(300, 13, 30, 0.2))

	for _, name := range []string{
		NameButterworth, NameKalman, NameSavGol, NameMovingAvg,
		NameExpSmooth, NameBandPass, NameWavelet, NameParticle,
	} {
		f, err := bank.Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		a := f.Apply(sig)
		b := f.Apply(sig)
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%s: output differs at sample %d: %v vs %v", name, i, a[i], b[i])
				break
			}
		}
	}
}

func TestFilters_DoNotMutateInput(t *testing.T) {
	bank := NewBank(30, DefaultParams())
	orig := sine(200, 5, 30, 1)
	sig := make([]float64, len(orig))
	copy(sig, orig)

	for _, name := range []string{NameButterworth, NameSavGol, NameWavelet, NameParticle} {
		f, err := bank.Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		f.Apply(sig)
		for i := range sig {
			if sig[i] != orig[i] {
				t.Fatalf("%s mutated its input at sample %d", name, i)
			}
		}
	}
}

func TestButterworth_AttenuatesAboveCutoff(t *testing.T) {
	f, err := NewButterworth(6, 30, 4)
	if err != nil {
		t.Fatal(err)
	}

	// A 2 Hz component should pass nearly unchanged; 12 Hz should be
	// strongly attenuated by a 6 Hz 4th-order low-pass.
	low := sine(600, 2, 30, 1)
	high := sine(600, 12, 30, 1)

	lowOut := f.Apply(low)
	highOut := f.Apply(high)

	if r := rms(lowOut) / rms(low); r < 0.9 {
		t.Errorf("2 Hz component attenuated too much: ratio %.3f", r)
	}
	if r := rms(highOut) / rms(high); r > 0.2 {
		t.Errorf("12 Hz component not attenuated: ratio %.3f", r)
	}
}

func TestButterworth_ShortInputPassthrough(t *testing.T) {
	f, err := NewButterworth(6, 30, 4)
	if err != nil {
		t.Fatal(err)
	}
	sig := sine(10, 5, 30, 1)
	out := f.Apply(sig)
	for i := range sig {
		if out[i] != sig[i] {
			t.Fatalf("short input should pass through unchanged, differs at %d", i)
		}
	}
}

func TestButterworth_InvalidDesign(t *testing.T) {
	if _, err := NewButterworth(20, 30, 4); err == nil {
		t.Error("cutoff above Nyquist should fail")
	}
	if _, err := NewButterworth(6, 30, 0); err == nil {
		t.Error("zero order should fail")
	}
}

func TestKalman_ReducesJitter(t *testing.T) {
	// Deterministic pseudo-noise on top of a slow ramp.
	n := 300
	sig := make([]float64, n)
	for i := range sig {
		sig[i] = 0.01*float64(i) + 0.05*math.Sin(float64(i)*1.7)*math.Cos(float64(i)*0.9)
	}
	f := NewKalman(30, 0.01, 0.01, 0.1)
	out := f.Apply(sig)

	var rawVar, outVar float64
	for i := 1; i < n; i++ {
		d := sig[i] - sig[i-1]
		rawVar += d * d
		e := out[i] - out[i-1]
		outVar += e * e
	}
	if outVar >= rawVar {
		t.Errorf("kalman output should be smoother: raw %.4f filtered %.4f", rawVar, outVar)
	}
}

func TestSavGol_PreservesCubic(t *testing.T) {
	f, err := NewSavGol(11, 3)
	if err != nil {
		t.Fatal(err)
	}
	n := 100
	sig := make([]float64, n)
	for i := range sig {
		x := float64(i) / 10
		sig[i] = 2 + 0.5*x - 0.1*x*x + 0.01*x*x*x
	}
	out := f.Apply(sig)
	// A cubic is reproduced exactly by an order-3 fit away from the edges.
	for i := 5; i < n-5; i++ {
		if math.Abs(out[i]-sig[i]) > 1e-9 {
			t.Fatalf("cubic not preserved at %d: got %v want %v", i, out[i], sig[i])
		}
	}
}

func TestSavGol_InvalidParams(t *testing.T) {
	if _, err := NewSavGol(10, 3); err == nil {
		t.Error("even window should fail")
	}
	if _, err := NewSavGol(5, 5); err == nil {
		t.Error("poly order >= window should fail")
	}
}

func TestMovingAverage_ConstantSignal(t *testing.T) {
	f, err := NewMovingAverage(5)
	if err != nil {
		t.Fatal(err)
	}
	sig := make([]float64, 50)
	for i := range sig {
		sig[i] = 3.5
	}
	out := f.Apply(sig)
	for i, v := range out {
		if math.Abs(v-3.5) > 1e-12 {
			t.Fatalf("constant signal changed at %d: %v", i, v)
		}
	}
}

func TestFFTBandPass_IsolatesTremorBand(t *testing.T) {
	f, err := NewFFTBandPass(3, 12, 30)
	if err != nil {
		t.Fatal(err)
	}
	// 0.5 Hz drift plus 5 Hz tremor: the band-pass should keep the tremor
	// and drop the drift.
	n := 600
	sig := sine(n, 0.5, 30, 1)
	tremor := sine(n, 5, 30, 0.3)
	addInPlace(sig, tremor)

	out := f.Apply(sig)
	if r := rms(out) / rms(tremor); r < 0.8 || r > 1.2 {
		t.Errorf("band-passed energy should match the tremor component, ratio %.3f", r)
	}
}

func TestWavelet_RoundTripWithoutNoise(t *testing.T) {
	// Decomposition and reconstruction must be exact (the thresholding is
	// the only lossy step); verify on a clean dyadic-length signal.
	sig := sine(256, 2, 30, 1)
	approx, details := wavedec(sig, 4)
	rec := waverec(approx, details)
	if len(rec) != len(sig) {
		t.Fatalf("reconstruction length %d, want %d", len(rec), len(sig))
	}
	for i := range sig {
		if math.Abs(rec[i]-sig[i]) > 1e-8 {
			t.Fatalf("round trip differs at %d: got %v want %v", i, rec[i], sig[i])
		}
	}
}

func TestWavelet_ReducesNoise(t *testing.T) {
	n := 512
	clean := sine(n, 1, 30, 1)
	noisy := make([]float64, n)
	copy(noisy, clean)
	// Deterministic high-frequency contamination.
	for i := range noisy {
		noisy[i] += 0.15 * math.Sin(float64(i)*2.9) * math.Cos(float64(i)*1.3)
	}

	// Two levels keep the 1 Hz signal entirely in the approximation band,
	// so only the contaminated detail bands are thresholded.
	f := NewWaveletDenoise(2)
	out := f.Apply(noisy)

	var errNoisy, errOut float64
	for i := range clean {
		errNoisy += (noisy[i] - clean[i]) * (noisy[i] - clean[i])
		errOut += (out[i] - clean[i]) * (out[i] - clean[i])
	}
	if errOut >= errNoisy {
		t.Errorf("denoising should reduce error: noisy %.4f denoised %.4f", errNoisy, errOut)
	}
}

func TestParticle_SeedReproducible(t *testing.T) {
	sig := sine(200, 3, 30, 1)
	a, err := NewParticle(100, 0.1, 0.05, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewParticle(100, 0.1, 0.05, 42)
	if err != nil {
		t.Fatal(err)
	}
	outA := a.Apply(sig)
	outB := b.Apply(sig)
	for i := range outA {
		if outA[i] != outB[i] {
			t.Fatalf("same seed diverged at sample %d", i)
		}
	}

	c, err := NewParticle(100, 0.1, 0.05, 43)
	if err != nil {
		t.Fatal(err)
	}
	outC := c.Apply(sig)
	same := true
	for i := range outA {
		if outA[i] != outC[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical output")
	}
}

func TestRun_Diagnostics(t *testing.T) {
	bank := NewBank(30, DefaultParams())
	f, err := bank.Get(NameMovingAvg)
	if err != nil {
		t.Fatal(err)
	}
	sig := sine(100, 5, 30, 1)
	res := Run(f, sig)
	if res.Name != NameMovingAvg {
		t.Errorf("result name %q", res.Name)
	}
	if len(res.Output) != len(sig) {
		t.Errorf("output length %d, want %d", len(res.Output), len(sig))
	}
	if res.ResidualRMS <= 0 {
		t.Error("smoothing a sine should leave a nonzero residual")
	}
	if res.Params["window"] != 5 {
		t.Errorf("params not recorded: %v", res.Params)
	}
}
