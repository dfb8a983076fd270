package filter

import "fmt"

// MovingAverage is the cheap baseline smoother: a centred uniform window,
// shrunk near the edges. Kept in the bank for QA comparison against the
// shaped filters.
type MovingAverage struct {
	window int
}

// NewMovingAverage creates a moving average filter with the given window.
func NewMovingAverage(window int) (*MovingAverage, error) {
	if window < 1 {
		return nil, fmt.Errorf("moving average window must be >= 1, got %d", window)
	}
	return &MovingAverage{window: window}, nil
}

func (f *MovingAverage) Name() string { return NameMovingAvg }

func (f *MovingAverage) Params() map[string]float64 {
	return map[string]float64{"window": float64(f.window)}
}

func (f *MovingAverage) Apply(sig []float64) []float64 {
	n := len(sig)
	out := make([]float64, n)
	half := f.window / 2
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= n {
			hi = n - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += sig[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// ExpSmoothing is single exponential smoothing: y[i] = a*x[i] + (1-a)*y[i-1].
type ExpSmoothing struct {
	alpha float64
}

// NewExpSmoothing creates an exponential smoother with factor alpha in (0,1].
func NewExpSmoothing(alpha float64) (*ExpSmoothing, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("smoothing alpha must be in (0,1], got %g", alpha)
	}
	return &ExpSmoothing{alpha: alpha}, nil
}

func (f *ExpSmoothing) Name() string { return NameExpSmooth }

func (f *ExpSmoothing) Params() map[string]float64 {
	return map[string]float64{"alpha": f.alpha}
}

func (f *ExpSmoothing) Apply(sig []float64) []float64 {
	out := make([]float64, len(sig))
	if len(sig) == 0 {
		return out
	}
	out[0] = sig[0]
	for i := 1; i < len(sig); i++ {
		out[i] = f.alpha*sig[i] + (1-f.alpha)*out[i-1]
	}
	return out
}
