package analyzer

import (
	"github.com/motus-health/handmetrics/internal/biomarkers"
	"github.com/motus-health/handmetrics/internal/filter"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// objectHoldAnalyzer measures static hold quality: how still the hand stays
// while gripping and what tremor is present during the hold.
type objectHoldAnalyzer struct{}

func (objectHoldAnalyzer) Type() protocol.MovementType { return protocol.ObjectHold }

func (objectHoldAnalyzer) RequiredFilters() []string {
	return []string{filter.NameExpSmooth}
}

func (a objectHoldAnalyzer) Analyze(in Input) MovementMetrics {
	trajs, reason := hands(in)
	if reason != "" {
		return failed(in.Definition, reason)
	}
	traj := trajs[0]
	fs := in.Bank.SampleRate()

	var d ObjectHoldMetrics
	ok, attempted := 0, 0

	attempted++
	d.GripStability = stabilityScore(traj.CentroidVariance())
	ok++

	// Tremor during the hold shows up in the centroid speed. Exponential
	// smoothing knocks down landmark jitter without notching any frequency
	// inside the tremor band the way a short moving average would.
	speed := traj.CentroidSpeed()
	smoothed, diags, err := condition(in.Bank, a.RequiredFilters(), speed)
	if err != nil {
		return failed(in.Definition, err.Error())
	}
	attempted++
	if freq, amp, tOK := biomarkers.TremorMetrics(smoothed, fs); tOK {
		d.TremorFrequencyHz = freq
		d.TremorAmplitude = amp
		ok++
	}

	if ok == 0 {
		return failed(in.Definition, "no hold metrics could be computed")
	}
	return MovementMetrics{
		MovementID: in.Definition.ID,
		Type:       protocol.ObjectHold,
		Confidence: confidence(ok, attempted),
		Detail:     d,
		Filters:    diags,
	}
}
