package filter

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Butterworth is a zero-phase low-pass filter. The transfer function is
// designed digitally via the bilinear transform and applied forward-backward
// so the output has no phase lag, which matters when tap and rotation events
// are timed against the raw signal.
type Butterworth struct {
	order    int
	cutoffHz float64
	fs       float64
	b, a     []float64
	zi       []float64
}

// NewButterworth designs a low-pass Butterworth filter of the given order
// with cutoff cutoffHz for signals sampled at fs Hz.
func NewButterworth(cutoffHz, fs float64, order int) (*Butterworth, error) {
	if order < 1 || order > 8 {
		return nil, fmt.Errorf("butterworth order must be in [1,8], got %d", order)
	}
	if fs <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", fs)
	}
	wn := cutoffHz / (fs / 2)
	if wn <= 0 || wn >= 1 {
		return nil, fmt.Errorf("cutoff %g Hz out of range for fs %g Hz", cutoffHz, fs)
	}
	b, a := butterLowPass(order, wn)
	zi, err := stepInitialConditions(b, a)
	if err != nil {
		return nil, err
	}
	return &Butterworth{order: order, cutoffHz: cutoffHz, fs: fs, b: b, a: a, zi: zi}, nil
}

func (f *Butterworth) Name() string { return NameButterworth }

func (f *Butterworth) Params() map[string]float64 {
	return map[string]float64{
		"order":     float64(f.order),
		"cutoff_hz": f.cutoffHz,
		"fs":        f.fs,
	}
}

// Apply runs forward-backward filtering with odd edge extension. Signals too
// short for the edge padding pass through unchanged, matching the behaviour
// of the upstream capture pipeline.
func (f *Butterworth) Apply(sig []float64) []float64 {
	padLen := 3 * len(f.a)
	if len(sig) <= padLen {
		out := make([]float64, len(sig))
		copy(out, sig)
		return out
	}

	n := len(sig)
	ext := make([]float64, n+2*padLen)
	for i := 0; i < padLen; i++ {
		ext[i] = 2*sig[0] - sig[padLen-i]
		ext[padLen+n+i] = 2*sig[n-1] - sig[n-2-i]
	}
	copy(ext[padLen:], sig)

	y := lfilter(f.b, f.a, ext, scaleSlice(f.zi, ext[0]))
	reverse(y)
	y = lfilter(f.b, f.a, y, scaleSlice(f.zi, y[0]))
	reverse(y)

	out := make([]float64, n)
	copy(out, y[padLen:padLen+n])
	return out
}

// butterLowPass returns the digital transfer function coefficients (b, a) for
// a low-pass Butterworth filter with normalised cutoff wn in (0, 1), where 1
// is the Nyquist frequency.
func butterLowPass(order int, wn float64) (b, a []float64) {
	// Prewarp the cutoff for the bilinear transform. The internal sampling
	// rate is fixed at 2 so fs2 below is 4.
	warped := 4 * math.Tan(math.Pi*wn/2)
	const fs2 = 4.0

	// Analog prototype poles on the unit circle in the left half plane,
	// scaled to the warped cutoff.
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * float64(2*k+1) / float64(2*order)
		poles[k] = complex(warped, 0) * cmplx.Exp(complex(0, math.Pi/2+theta))
	}
	gain := math.Pow(warped, float64(order))

	// Bilinear transform: poles map to (fs2+p)/(fs2-p), the N analog zeros
	// at infinity map to z = -1, and the gain picks up prod(fs2-p)^-1.
	zPoles := make([]complex128, order)
	prod := complex(1, 0)
	for i, p := range poles {
		zPoles[i] = (complex(fs2, 0) + p) / (complex(fs2, 0) - p)
		prod *= complex(fs2, 0) - p
	}
	k := gain * real(complex(1, 0)/prod)

	zZeros := make([]complex128, order)
	for i := range zZeros {
		zZeros[i] = -1
	}

	b = realPoly(zZeros)
	for i := range b {
		b[i] *= k
	}
	a = realPoly(zPoles)
	return b, a
}

// realPoly expands a polynomial from its roots and returns the real
// coefficients, highest order first. Roots must occur in conjugate pairs.
func realPoly(roots []complex128) []float64 {
	coeffs := make([]complex128, 1, len(roots)+1)
	coeffs[0] = 1
	for _, r := range roots {
		next := make([]complex128, len(coeffs)+1)
		for i, c := range coeffs {
			next[i] += c
			next[i+1] -= c * r
		}
		coeffs = next
	}
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c)
	}
	return out
}

// lfilter applies the direct form II transposed difference equation with
// initial filter state z. b and a must have equal length with a[0] == 1.
func lfilter(b, a, x, z []float64) []float64 {
	n := len(b)
	y := make([]float64, len(x))
	state := make([]float64, len(z))
	copy(state, z)
	for i, xi := range x {
		yi := b[0]*xi + state[0]
		for j := 1; j < n-1; j++ {
			state[j-1] = b[j]*xi + state[j] - a[j]*yi
		}
		state[n-2] = b[n-1]*xi - a[n-1]*yi
		y[i] = yi
	}
	return y
}

// stepInitialConditions computes the filter state that makes the step
// response start at its final value, removing startup transients in
// forward-backward filtering. Solves (I - C^T) zi = B where C is the
// companion matrix of a.
func stepInitialConditions(b, a []float64) ([]float64, error) {
	n := len(a)
	m := n - 1

	// companion(a) has -a[1:] as its first row and ones on the subdiagonal,
	// so companion^T[i][j] is -a[i+1] for j == 0 and 1 for j == i+1.
	sys := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			var cT float64
			if j == 0 {
				cT = -a[i+1]
			} else if j == i+1 {
				cT = 1
			}
			v := 0.0
			if i == j {
				v = 1
			}
			sys.Set(i, j, v-cT)
		}
	}

	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(sys, rhs); err != nil {
		return nil, fmt.Errorf("butterworth initial conditions: %w", err)
	}
	out := make([]float64, m)
	for i := 0; i < m; i++ {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}

func scaleSlice(s []float64, k float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = v * k
	}
	return out
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
