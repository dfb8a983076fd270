package biomarkers

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// OutlierStdDevs is the outlier guard for range extraction: frames further
// than this many standard deviations from the mean are discarded before
// computing max-min, so a single mistracked frame cannot inflate the range.
const OutlierStdDevs = 3.0

// RangeOfMotion returns max-min of a signal after discarding outlier frames
// beyond OutlierStdDevs standard deviations. ok is false when fewer than two
// frames survive the guard.
func RangeOfMotion(sig []float64) (float64, bool) {
	if len(sig) < 2 {
		return 0, false
	}
	mean, std := stat.MeanStdDev(sig, nil)
	if math.IsNaN(std) || std == 0 {
		return 0, true
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	kept := 0
	for _, v := range sig {
		if math.Abs(v-mean) > OutlierStdDevs*std {
			continue
		}
		kept++
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if kept < 2 {
		return 0, false
	}
	return hi - lo, true
}

// Asymmetry returns the normalised left/right difference
// |L-R| / ((|L|+|R|)/2), a 0-2 index where 0 is perfect symmetry. ok is
// false when both sides are zero; callers pass ok through as a null metric
// when one side is absent rather than failing the movement.
func Asymmetry(left, right float64) (float64, bool) {
	denom := (math.Abs(left) + math.Abs(right)) / 2
	if denom == 0 {
		return 0, false
	}
	return math.Abs(left-right) / denom, true
}

// CoefficientOfVariation returns std/mean of a series, or false when the
// mean is zero or fewer than two samples are given.
func CoefficientOfVariation(sig []float64) (float64, bool) {
	if len(sig) < 2 {
		return 0, false
	}
	mean, std := stat.MeanStdDev(sig, nil)
	if mean == 0 || math.IsNaN(std) {
		return 0, false
	}
	return math.Abs(std / mean), true
}

// RegularityScore inverts a coefficient of variation into a 0-1 score:
// cv 0 scores 1, growing variability tends to 0.
func RegularityScore(cv float64) float64 {
	if cv < 0 {
		cv = -cv
	}
	return 1 / (1 + cv)
}

// Correlation returns the Pearson correlation of two equal-length series.
// ok is false when lengths differ, are too short, or either side is
// constant.
func Correlation(a, b []float64) (float64, bool) {
	if len(a) != len(b) || len(a) < 3 {
		return 0, false
	}
	r := stat.Correlation(a, b, nil)
	if math.IsNaN(r) {
		return 0, false
	}
	return r, true
}
