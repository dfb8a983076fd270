package filter

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFTBandPass isolates a frequency band by zeroing spectrum bins outside
// [lowHz, highHz] and inverting the transform. Used to extract the
// physiologic tremor band before amplitude estimation.
type FFTBandPass struct {
	lowHz  float64
	highHz float64
	fs     float64
}

// NewFFTBandPass creates a band-pass filter for signals sampled at fs Hz.
func NewFFTBandPass(lowHz, highHz, fs float64) (*FFTBandPass, error) {
	if lowHz < 0 || highHz <= lowHz {
		return nil, fmt.Errorf("invalid band [%g,%g] Hz", lowHz, highHz)
	}
	if highHz > fs/2 {
		return nil, fmt.Errorf("band edge %g Hz above Nyquist for fs %g Hz", highHz, fs)
	}
	return &FFTBandPass{lowHz: lowHz, highHz: highHz, fs: fs}, nil
}

func (f *FFTBandPass) Name() string { return NameBandPass }

func (f *FFTBandPass) Params() map[string]float64 {
	return map[string]float64{
		"low_hz":  f.lowHz,
		"high_hz": f.highHz,
		"fs":      f.fs,
	}
}

func (f *FFTBandPass) Apply(sig []float64) []float64 {
	n := len(sig)
	if n < 2 {
		out := make([]float64, n)
		copy(out, sig)
		return out
	}
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, sig)
	for i := range coeffs {
		freq := float64(i) * f.fs / float64(n)
		if freq < f.lowHz || freq > f.highHz {
			coeffs[i] = 0
		}
	}
	out := fft.Sequence(nil, coeffs)
	// gonum's inverse is unnormalised: round-tripping scales by n.
	inv := 1 / float64(n)
	for i := range out {
		out[i] *= inv
	}
	return out
}
