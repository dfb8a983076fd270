package analyzer

import (
	"github.com/motus-health/handmetrics/internal/biomarkers"
	"github.com/motus-health/handmetrics/internal/filter"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// apertureClosureAnalyzer measures hand opening and closing from the
// thumb-tip to index-tip distance: how wide the hand opens, how long the
// close takes, and how steadily the hand is held while doing it.
type apertureClosureAnalyzer struct{}

func (apertureClosureAnalyzer) Type() protocol.MovementType { return protocol.ApertureClosure }

func (apertureClosureAnalyzer) RequiredFilters() []string {
	return []string{filter.NameButterworth}
}

func (a apertureClosureAnalyzer) Analyze(in Input) MovementMetrics {
	trajs, reason := hands(in)
	if reason != "" {
		return failed(in.Definition, reason)
	}
	traj := trajs[0]
	fs := in.Bank.SampleRate()

	aperture := traj.Aperture()
	smoothed, diags, err := condition(in.Bank, a.RequiredFilters(), aperture)
	if err != nil {
		return failed(in.Definition, err.Error())
	}

	var d ApertureClosureMetrics
	ok, attempted := 0, 0

	attempted++
	maxIdx := argmax(smoothed)
	if maxIdx >= 0 {
		d.MaxAperture = smoothed[maxIdx]
		ok++
	}

	// Closure duration: from the widest opening to the narrowest point that
	// follows it.
	attempted++
	if dur, dOK := closureDuration(smoothed, maxIdx, fs); dOK {
		d.ClosureDurationSec = dur
		ok++
	}

	attempted++
	vel := biomarkers.Velocity(smoothed, fs)
	if sparc, sOK := biomarkers.SPARC(vel, fs); sOK {
		d.SmoothnessSPARC = sparc
		d.SmoothnessScore = biomarkers.SmoothnessScore(sparc)
		ok++
	}

	attempted++
	d.HoldStability = stabilityScore(traj.CentroidVariance())
	ok++

	if ok == 0 {
		return failed(in.Definition, "no aperture metrics could be computed")
	}
	return MovementMetrics{
		MovementID: in.Definition.ID,
		Type:       protocol.ApertureClosure,
		Confidence: confidence(ok, attempted),
		Detail:     d,
		Filters:    diags,
	}
}

func argmax(sig []float64) int {
	if len(sig) == 0 {
		return -1
	}
	best := 0
	for i, v := range sig {
		if v > sig[best] {
			best = i
		}
	}
	return best
}

func closureDuration(sig []float64, maxIdx int, fs float64) (float64, bool) {
	if maxIdx < 0 || maxIdx >= len(sig)-1 || fs <= 0 {
		return 0, false
	}
	minIdx := maxIdx
	for i := maxIdx + 1; i < len(sig); i++ {
		if sig[i] < sig[minIdx] {
			minIdx = i
		}
	}
	if minIdx == maxIdx {
		return 0, false
	}
	return float64(minIdx-maxIdx) / fs, true
}

// stabilityScore maps a positional variance to (0,1]: 1 is perfectly still.
func stabilityScore(variance float64) float64 {
	return 1 / (1 + variance)
}
