package analyzer

import (
	"github.com/motus-health/handmetrics/internal/biomarkers"
	"github.com/motus-health/handmetrics/internal/filter"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// wristRotationAnalyzer measures forearm pronation/supination: how far the
// wrist rotates, how fast it oscillates, and how much tremor rides on top.
type wristRotationAnalyzer struct{}

func (wristRotationAnalyzer) Type() protocol.MovementType { return protocol.WristRotation }

func (wristRotationAnalyzer) RequiredFilters() []string {
	return []string{filter.NameButterworth}
}

func (a wristRotationAnalyzer) Analyze(in Input) MovementMetrics {
	trajs, reason := hands(in)
	if reason != "" {
		return failed(in.Definition, reason)
	}
	traj := trajs[0]
	fs := in.Bank.SampleRate()

	angle := traj.WristAngleDeg()
	smoothed, diags, err := condition(in.Bank, a.RequiredFilters(), angle)
	if err != nil {
		return failed(in.Definition, err.Error())
	}

	var d WristRotationMetrics
	ok, attempted := 0, 0

	attempted++
	if rom, romOK := biomarkers.RangeOfMotion(smoothed); romOK {
		d.RotationRangeDeg = rom
		ok++
	}

	attempted++
	if freq, _, fOK := biomarkers.DominantFrequency(smoothed, fs, 0.25, fs/2); fOK {
		d.DominantFreqHz = freq
		ok++
	}

	// Tremor rides above the voluntary rotation; measure it on the raw
	// angle so the low-pass does not hide it.
	attempted++
	if freq, amp, tOK := biomarkers.TremorMetrics(angle, fs); tOK {
		d.TremorFrequencyHz = freq
		d.TremorAmplitude = amp
		ok++
	}

	attempted++
	vel := biomarkers.Velocity(smoothed, fs)
	if sparc, sOK := biomarkers.SPARC(vel, fs); sOK {
		d.SmoothnessSPARC = sparc
		d.SmoothnessScore = biomarkers.SmoothnessScore(sparc)
		ok++
	}

	if ok == 0 {
		return failed(in.Definition, "no wrist rotation metrics could be computed")
	}
	return MovementMetrics{
		MovementID: in.Definition.ID,
		Type:       protocol.WristRotation,
		Confidence: confidence(ok, attempted),
		Detail:     d,
		Filters:    diags,
	}
}
