package analyzer

import (
	"github.com/motus-health/handmetrics/internal/biomarkers"
	"github.com/motus-health/handmetrics/internal/filter"
	"github.com/motus-health/handmetrics/internal/hand"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// fingersBendingAnalyzer measures flexion range per finger and how smoothly
// the fingers bend, from the joint angle at each finger's middle joint.
type fingersBendingAnalyzer struct{}

func (fingersBendingAnalyzer) Type() protocol.MovementType { return protocol.FingersBending }

func (fingersBendingAnalyzer) RequiredFilters() []string {
	return []string{filter.NameButterworth}
}

func (a fingersBendingAnalyzer) Analyze(in Input) MovementMetrics {
	trajs, reason := hands(in)
	if reason != "" {
		return failed(in.Definition, reason)
	}
	fs := in.Bank.SampleRate()
	primary := trajs[0]

	var d FingersBendingMetrics
	d.FingerROMDeg = make(map[hand.Finger]float64, len(hand.AllFingers))
	ok, attempted := 0, 0

	var diags []filter.Result
	var sparcSum float64
	var sparcN int
	for _, f := range hand.AllFingers {
		angle := primary.FingerFlexionDeg(f)
		smoothed, fd, err := condition(in.Bank, a.RequiredFilters(), angle)
		if err != nil {
			return failed(in.Definition, err.Error())
		}
		if diags == nil {
			diags = fd
		}
		attempted++
		if rom, romOK := biomarkers.RangeOfMotion(smoothed); romOK {
			d.FingerROMDeg[f] = rom
			ok++
		}
		vel := biomarkers.Velocity(smoothed, fs)
		if sparc, sOK := biomarkers.SPARC(vel, fs); sOK {
			sparcSum += sparc
			sparcN++
		}
	}

	attempted++
	if sparcN > 0 {
		d.SmoothnessSPARC = sparcSum / float64(sparcN)
		d.SmoothnessScore = biomarkers.SmoothnessScore(d.SmoothnessSPARC)
		ok++
	}

	if in.Definition.Hand == protocol.HandBoth {
		attempted++
		if asym, aOK := bendingAsymmetry(trajs[0], trajs[1], in.Bank, a.RequiredFilters()); aOK {
			d.Asymmetry = &asym
			ok++
		}
	}

	if ok == 0 {
		return failed(in.Definition, "no bending metrics could be computed")
	}
	return MovementMetrics{
		MovementID: in.Definition.ID,
		Type:       protocol.FingersBending,
		Confidence: confidence(ok, attempted),
		Detail:     d,
		Filters:    diags,
	}
}

// bendingAsymmetry compares the mean flexion range of the two hands.
func bendingAsymmetry(left, right *hand.Trajectory, bank *filter.Bank, filters []string) (float64, bool) {
	meanROM := func(t *hand.Trajectory) (float64, bool) {
		var sum float64
		var n int
		for _, f := range hand.AllFingers {
			smoothed, _, err := condition(bank, filters, t.FingerFlexionDeg(f))
			if err != nil {
				return 0, false
			}
			if rom, ok := biomarkers.RangeOfMotion(smoothed); ok {
				sum += rom
				n++
			}
		}
		if n == 0 {
			return 0, false
		}
		return sum / float64(n), true
	}
	lr, lOK := meanROM(left)
	rr, rOK := meanROM(right)
	if !lOK || !rOK {
		return 0, false
	}
	return biomarkers.Asymmetry(lr, rr)
}
