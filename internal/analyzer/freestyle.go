package analyzer

import (
	"github.com/motus-health/handmetrics/internal/biomarkers"
	"github.com/motus-health/handmetrics/internal/filter"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// freestyleAnalyzer applies the general toolkit to unscripted movement:
// overall stability, wrist range of motion, tremor and smoothness, with no
// movement-specific structure.
type freestyleAnalyzer struct{}

func (freestyleAnalyzer) Type() protocol.MovementType { return protocol.Freestyle }

func (freestyleAnalyzer) RequiredFilters() []string {
	return []string{filter.NameButterworth}
}

func (a freestyleAnalyzer) Analyze(in Input) MovementMetrics {
	trajs, reason := hands(in)
	if reason != "" {
		return failed(in.Definition, reason)
	}
	traj := trajs[0]
	fs := in.Bank.SampleRate()

	var d FreestyleMetrics
	ok, attempted := 0, 0

	attempted++
	d.Stability = stabilityScore(traj.CentroidVariance())
	ok++

	angle := traj.WristAngleDeg()
	smoothed, diags, err := condition(in.Bank, a.RequiredFilters(), angle)
	if err != nil {
		return failed(in.Definition, err.Error())
	}
	attempted++
	if rom, romOK := biomarkers.RangeOfMotion(smoothed); romOK {
		d.RangeOfMotionDeg = rom
		ok++
	}

	speed := traj.CentroidSpeed()
	attempted++
	if freq, amp, tOK := biomarkers.TremorMetrics(speed, fs); tOK {
		d.TremorFrequencyHz = freq
		d.TremorAmplitude = amp
		ok++
	}

	attempted++
	if sparc, sOK := biomarkers.SPARC(speed, fs); sOK {
		d.SmoothnessSPARC = sparc
		d.SmoothnessScore = biomarkers.SmoothnessScore(sparc)
		ok++
	}

	if ok == 0 {
		return failed(in.Definition, "no freestyle metrics could be computed")
	}
	return MovementMetrics{
		MovementID: in.Definition.ID,
		Type:       protocol.Freestyle,
		Confidence: confidence(ok, attempted),
		Detail:     d,
		Filters:    diags,
	}
}
