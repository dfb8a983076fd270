package analyzer

import (
	"math"

	"github.com/motus-health/handmetrics/internal/biomarkers"
	"github.com/motus-health/handmetrics/internal/filter"
	"github.com/motus-health/handmetrics/internal/hand"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// fingerTappingAnalyzer measures tapping rate and rhythm from the
// fingertip-to-palm distance signal, plus how independently the selected
// fingers move and, for two-handed execution, how coordinated the hands are.
type fingerTappingAnalyzer struct{}

func (fingerTappingAnalyzer) Type() protocol.MovementType { return protocol.FingerTapping }

func (fingerTappingAnalyzer) RequiredFilters() []string {
	return []string{filter.NameSavGol}
}

func (a fingerTappingAnalyzer) Analyze(in Input) MovementMetrics {
	cfg, cfgOK := in.Definition.Config.(protocol.FingerTappingConfig)
	if !cfgOK {
		return failed(in.Definition, "config is not a finger tapping config")
	}
	trajs, reason := hands(in)
	if reason != "" {
		return failed(in.Definition, reason)
	}
	fs := in.Bank.SampleRate()

	// Per-finger tapping signals for the primary hand, conditioned with the
	// polynomial smoother so peak detection sees tap shape, not jitter.
	primary := trajs[0]
	signals := make([][]float64, 0, len(cfg.Fingers))
	var diags []filter.Result
	for _, f := range cfg.Fingers {
		raw := primary.FingertipPalmDistance(f)
		if raw == nil {
			return failed(in.Definition, "unknown finger in config")
		}
		smoothed, fd, err := condition(in.Bank, a.RequiredFilters(), raw)
		if err != nil {
			return failed(in.Definition, err.Error())
		}
		if diags == nil {
			diags = fd
		}
		signals = append(signals, smoothed)
	}

	var d FingerTappingMetrics
	ok, attempted := 0, 0

	// Tap rate and rhythm come from the first selected finger.
	peaks := biomarkers.DetectPeaks(signals[0])
	d.TapCount = len(peaks)
	attempted++
	if freq, fOK := biomarkers.CycleFrequency(peaks, fs); fOK {
		d.TapFrequencyHz = freq
		ok++
	}
	attempted++
	intervals := biomarkers.InterPeakIntervals(peaks, fs)
	if cv, cvOK := biomarkers.CoefficientOfVariation(intervals); cvOK {
		d.TapRegularity = biomarkers.RegularityScore(cv)
		ok++
	}

	// Independence: mean absolute pairwise correlation between the selected
	// fingers, inverted. Fingers that move in lockstep score near 0.
	if len(signals) >= 2 {
		attempted++
		if indep, iOK := fingerIndependence(signals); iOK {
			d.FingerIndependence = &indep
			ok++
		}
	}

	// Coordination between hands, for bilateral execution: the magnitude of
	// the correlation between the two hands' tapping signals. Both the
	// synchronous and the alternating pattern produce strongly coupled
	// signals when performed well.
	if in.Definition.Hand == protocol.HandBoth {
		attempted++
		if coord, cOK := bilateralCoordination(trajs[0], trajs[1], cfg.Fingers[0], in.Bank, a.RequiredFilters()); cOK {
			d.BilateralCoordination = &coord
			ok++
		}
	}

	if ok == 0 {
		return failed(in.Definition, "no tapping metrics could be computed")
	}
	return MovementMetrics{
		MovementID: in.Definition.ID,
		Type:       protocol.FingerTapping,
		Confidence: confidence(ok, attempted),
		Detail:     d,
		Filters:    diags,
	}
}

func fingerIndependence(signals [][]float64) (float64, bool) {
	var sum float64
	var pairs int
	for i := 0; i < len(signals); i++ {
		for j := i + 1; j < len(signals); j++ {
			if r, ok := biomarkers.Correlation(signals[i], signals[j]); ok {
				sum += math.Abs(r)
				pairs++
			}
		}
	}
	if pairs == 0 {
		return 0, false
	}
	return 1 - sum/float64(pairs), true
}

func bilateralCoordination(left, right *hand.Trajectory, f hand.Finger, bank *filter.Bank, filters []string) (float64, bool) {
	ls := left.FingertipPalmDistance(f)
	rs := right.FingertipPalmDistance(f)
	if ls == nil || rs == nil {
		return 0, false
	}
	// Correlation needs equal lengths; segments from the two hands can
	// differ by a few dropped frames.
	n := len(ls)
	if len(rs) < n {
		n = len(rs)
	}
	lc, _, err := condition(bank, filters, ls[:n])
	if err != nil {
		return 0, false
	}
	rc, _, err := condition(bank, filters, rs[:n])
	if err != nil {
		return 0, false
	}
	r, ok := biomarkers.Correlation(lc, rc)
	if !ok {
		return 0, false
	}
	return math.Abs(r), true
}
