package filter

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SavGol is a Savitzky-Golay smoother: each sample is replaced by the value
// of a least-squares polynomial fitted over a centred window. Unlike a plain
// moving average it preserves peak height and width, which the tap and
// aperture analyzers rely on.
type SavGol struct {
	window    int
	polyOrder int
	weights   []float64
}

// NewSavGol creates a Savitzky-Golay filter. window must be odd and larger
// than polyOrder.
func NewSavGol(window, polyOrder int) (*SavGol, error) {
	if window < 3 || window%2 == 0 {
		return nil, fmt.Errorf("savgol window must be odd and >= 3, got %d", window)
	}
	if polyOrder < 0 || polyOrder >= window {
		return nil, fmt.Errorf("savgol poly order must be in [0,%d), got %d", window, polyOrder)
	}
	w, err := savgolWeights(window, polyOrder)
	if err != nil {
		return nil, err
	}
	return &SavGol{window: window, polyOrder: polyOrder, weights: w}, nil
}

// savgolWeights computes the central convolution weights: the first row of
// (A^T A)^-1 A^T for the Vandermonde matrix A of window positions.
func savgolWeights(window, polyOrder int) ([]float64, error) {
	half := window / 2
	a := mat.NewDense(window, polyOrder+1, nil)
	for i := 0; i < window; i++ {
		x := float64(i - half)
		v := 1.0
		for j := 0; j <= polyOrder; j++ {
			a.Set(i, j, v)
			v *= x
		}
	}
	var ata mat.Dense
	ata.Mul(a.T(), a)
	var pinv mat.Dense
	if err := pinv.Solve(&ata, a.T()); err != nil {
		return nil, fmt.Errorf("savgol design: %w", err)
	}
	w := make([]float64, window)
	mat.Row(w, 0, &pinv)
	return w, nil
}

func (f *SavGol) Name() string { return NameSavGol }

func (f *SavGol) Params() map[string]float64 {
	return map[string]float64{
		"window":     float64(f.window),
		"poly_order": float64(f.polyOrder),
	}
}

// Apply convolves the signal with the smoothing weights, mirroring the
// signal at the edges. Signals shorter than the window pass through.
func (f *SavGol) Apply(sig []float64) []float64 {
	n := len(sig)
	out := make([]float64, n)
	if n < f.window {
		copy(out, sig)
		return out
	}
	half := f.window / 2
	for i := 0; i < n; i++ {
		var acc float64
		for k := -half; k <= half; k++ {
			j := i + k
			// Mirror extension about the end points.
			if j < 0 {
				j = -j
			}
			if j >= n {
				j = 2*(n-1) - j
			}
			acc += f.weights[k+half] * sig[j]
		}
		out[i] = acc
	}
	return out
}
