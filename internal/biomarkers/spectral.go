// Package biomarkers holds the shared numeric routines behind the movement
// analyzers: spectral analysis, smoothness metrics, range of motion, peak
// detection and asymmetry. All constants are pinned; clinical comparability
// across recordings depends on them staying fixed.
package biomarkers

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Tremor band boundaries in Hz. Pathologic tremor in the conditions this
// pipeline assesses falls inside this band.
const (
	TremorBandLowHz  = 3.0
	TremorBandHighHz = 12.0
)

// Spectrum is a one-sided power spectrum of a real signal.
type Spectrum struct {
	Freqs []float64 // bin centre frequencies, Hz
	Amps  []float64 // single-sided amplitude per bin
}

// PowerSpectrum computes the one-sided amplitude spectrum of sig sampled at
// fs Hz. The mean is removed first so a DC offset does not mask low
// frequencies. Returns nil for signals shorter than 4 samples.
func PowerSpectrum(sig []float64, fs float64) *Spectrum {
	n := len(sig)
	if n < 4 || fs <= 0 {
		return nil
	}
	centred := make([]float64, n)
	var mean float64
	for _, v := range sig {
		mean += v
	}
	mean /= float64(n)
	for i, v := range sig {
		centred[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, centred)

	sp := &Spectrum{
		Freqs: make([]float64, len(coeffs)),
		Amps:  make([]float64, len(coeffs)),
	}
	for i, c := range coeffs {
		sp.Freqs[i] = float64(i) * fs / float64(n)
		// Single-sided amplitude: double everything except DC and Nyquist.
		amp := cmplxAbs(c) / float64(n)
		if i != 0 && i != len(coeffs)-1 {
			amp *= 2
		}
		sp.Amps[i] = amp
	}
	return sp
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// DominantFrequency returns the frequency and amplitude of the strongest
// spectral component of sig within [lowHz, highHz]. ok is false when the
// signal is too short or the band contains no bins.
func DominantFrequency(sig []float64, fs, lowHz, highHz float64) (freqHz, amplitude float64, ok bool) {
	sp := PowerSpectrum(sig, fs)
	if sp == nil {
		return 0, 0, false
	}
	best := -1
	for i, f := range sp.Freqs {
		if f < lowHz || f > highHz {
			continue
		}
		if best < 0 || sp.Amps[i] > sp.Amps[best] {
			best = i
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return sp.Freqs[best], sp.Amps[best], true
}

// TremorMetrics extracts the dominant tremor-band frequency and amplitude of
// a signal. ok follows DominantFrequency.
func TremorMetrics(sig []float64, fs float64) (freqHz, amplitude float64, ok bool) {
	return DominantFrequency(sig, fs, TremorBandLowHz, TremorBandHighHz)
}
