package filter

import (
	"math"
	"sort"
)

// db4Lo holds the Daubechies-4 orthonormal scaling (low-pass) coefficients.
// The high-pass filter is derived by the quadrature mirror relation.
var db4Lo = [8]float64{
	0.23037781330885523,
	0.7148465705525415,
	0.6308807679295904,
	-0.02798376941698385,
	-0.18703481171888114,
	0.030841381835986965,
	0.032883011666982945,
	-0.010597401784997278,
}

// WaveletDenoise removes non-stationary noise by thresholding detail
// coefficients of a periodised db4 decomposition. The noise floor is
// estimated from the finest detail level (MAD / 0.6745) and the universal
// threshold sigma*sqrt(2 ln n) is applied softly, which suits segments with
// transient artifacts better than a fixed-band filter.
type WaveletDenoise struct {
	level int
}

// NewWaveletDenoise creates a denoiser decomposing up to level scales. The
// effective level shrinks for short signals.
func NewWaveletDenoise(level int) *WaveletDenoise {
	if level < 1 {
		level = 1
	}
	return &WaveletDenoise{level: level}
}

func (f *WaveletDenoise) Name() string { return NameWavelet }

func (f *WaveletDenoise) Params() map[string]float64 {
	return map[string]float64{"level": float64(f.level)}
}

func (f *WaveletDenoise) Apply(sig []float64) []float64 {
	n := len(sig)
	out := make([]float64, n)
	copy(out, sig)
	if n < len(db4Lo)*2 {
		return out
	}

	approx, details := wavedec(out, f.level)
	if len(details) == 0 {
		return out
	}

	sigma := medianAbsDeviation(details[len(details)-1]) / 0.6745
	threshold := sigma * math.Sqrt(2*math.Log(float64(n)))
	for _, d := range details {
		softThreshold(d, threshold)
	}

	rec := waverec(approx, details)
	copy(out, rec[:n])
	return out
}

// wavedec performs a multi-level periodised DWT. Levels stop early when the
// approximation becomes shorter than the filter or has odd length.
func wavedec(sig []float64, level int) (approx []float64, details [][]float64) {
	approx = sig
	for l := 0; l < level; l++ {
		if len(approx) < len(db4Lo) || len(approx)%2 != 0 {
			break
		}
		a, d := dwtStep(approx)
		details = append([][]float64{d}, details...)
		approx = a
	}
	return approx, details
}

// waverec inverts wavedec. details are ordered coarsest first.
func waverec(approx []float64, details [][]float64) []float64 {
	rec := approx
	for _, d := range details {
		rec = idwtStep(rec, d)
	}
	return rec
}

// dwtStep computes one level of the periodised transform: correlation with
// the analysis filters followed by dyadic downsampling.
func dwtStep(sig []float64) (approx, detail []float64) {
	n := len(sig)
	half := n / 2
	approx = make([]float64, half)
	detail = make([]float64, half)
	L := len(db4Lo)
	for i := 0; i < half; i++ {
		var a, d float64
		for k := 0; k < L; k++ {
			v := sig[(2*i+k)%n]
			a += db4Lo[k] * v
			d += db4Hi(k) * v
		}
		approx[i] = a
		detail[i] = d
	}
	return approx, detail
}

// idwtStep is the adjoint of dwtStep; for orthonormal filters the adjoint is
// the exact inverse.
func idwtStep(approx, detail []float64) []float64 {
	half := len(approx)
	n := half * 2
	out := make([]float64, n)
	L := len(db4Lo)
	for i := 0; i < half; i++ {
		for k := 0; k < L; k++ {
			j := (2*i + k) % n
			out[j] += db4Lo[k]*approx[i] + db4Hi(k)*detail[i]
		}
	}
	return out
}

// db4Hi returns the k-th high-pass coefficient via the QMF relation
// g[k] = (-1)^k h[L-1-k].
func db4Hi(k int) float64 {
	v := db4Lo[len(db4Lo)-1-k]
	if k%2 == 1 {
		return -v
	}
	return v
}

func softThreshold(coeffs []float64, t float64) {
	for i, c := range coeffs {
		switch {
		case c > t:
			coeffs[i] = c - t
		case c < -t:
			coeffs[i] = c + t
		default:
			coeffs[i] = 0
		}
	}
}

func medianAbsDeviation(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	m := median(s)
	dev := make([]float64, len(s))
	for i, v := range s {
		dev[i] = math.Abs(v - m)
	}
	return median(dev)
}

func median(s []float64) float64 {
	c := make([]float64, len(s))
	copy(c, s)
	sort.Float64s(c)
	mid := len(c) / 2
	if len(c)%2 == 0 {
		return (c[mid-1] + c[mid]) / 2
	}
	return c[mid]
}
