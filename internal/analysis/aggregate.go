package analysis

import (
	"github.com/motus-health/handmetrics/internal/analyzer"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// Domain weights for the overall score, from the clinical severity model the
// pipeline was validated against. Tremor findings dominate, coordination and
// smoothness weigh equally, range of motion least.
const (
	weightTremor        = 2.0
	weightSmoothness    = 1.5
	weightCoordination  = 1.5
	weightRangeOfMotion = 1.0
)

// domainSamples accumulates per-movement contributions to one clinical
// domain.
type domainSamples struct {
	sum float64
	n   int
}

func (d *domainSamples) add(v float64) { d.sum += v; d.n++ }

func (d *domainSamples) mean() (float64, bool) {
	if d.n == 0 {
		return 0, false
	}
	return d.sum / float64(d.n), true
}

// aggregate folds the successful movement records into the cross-movement
// summary and reports how many movements succeeded and failed. The summary is
// nil when no movement succeeded.
func aggregate(proto *protocol.Protocol, perMovement map[string]analyzer.MovementMetrics) (*Aggregate, int, int) {
	var analyzed, failed int
	var tremorFreq, tremorAmp, smoothness, rom, coordination domainSamples

	for _, def := range proto.Movements {
		m, ok := perMovement[def.ID]
		if !ok || m.Failed() {
			failed++
			continue
		}
		analyzed++

		switch d := m.Detail.(type) {
		case analyzer.WristRotationMetrics:
			if d.TremorFrequencyHz > 0 {
				tremorFreq.add(d.TremorFrequencyHz)
				tremorAmp.add(d.TremorAmplitude)
			}
			smoothness.add(d.SmoothnessScore)
			rom.add(d.RotationRangeDeg)
		case analyzer.FingerTappingMetrics:
			coordination.add(d.TapRegularity)
			if d.FingerIndependence != nil {
				coordination.add(*d.FingerIndependence)
			}
			if d.BilateralCoordination != nil {
				coordination.add(*d.BilateralCoordination)
			}
		case analyzer.FingersBendingMetrics:
			smoothness.add(d.SmoothnessScore)
			for _, r := range d.FingerROMDeg {
				rom.add(r)
			}
		case analyzer.ApertureClosureMetrics:
			smoothness.add(d.SmoothnessScore)
			coordination.add(d.HoldStability)
		case analyzer.ObjectHoldMetrics:
			if d.TremorFrequencyHz > 0 {
				tremorFreq.add(d.TremorFrequencyHz)
				tremorAmp.add(d.TremorAmplitude)
			}
			coordination.add(d.GripStability)
		case analyzer.FreestyleMetrics:
			if d.TremorFrequencyHz > 0 {
				tremorFreq.add(d.TremorFrequencyHz)
				tremorAmp.add(d.TremorAmplitude)
			}
			smoothness.add(d.SmoothnessScore)
			rom.add(d.RangeOfMotionDeg)
			coordination.add(d.Stability)
		}
	}

	if analyzed == 0 {
		return nil, analyzed, failed
	}

	agg := &Aggregate{}
	if v, ok := tremorFreq.mean(); ok {
		agg.TremorFrequencyHz = v
	}
	if v, ok := tremorAmp.mean(); ok {
		agg.TremorAmplitude = v
	}
	if v, ok := smoothness.mean(); ok {
		agg.SmoothnessScore = v
	}
	if v, ok := rom.mean(); ok {
		agg.RangeOfMotionDeg = v
	}
	agg.OverallScore = overallScore(tremorAmp, smoothness, rom, coordination)
	return agg, analyzed, failed
}

// overallScore combines the domain means into a 0-100 score. Each domain is
// first mapped to [0,1] where 1 is best; domains with no data are left out
// of the weighted mean rather than counted as zero.
func overallScore(tremorAmp, smoothness, rom, coordination domainSamples) float64 {
	var weighted, weights float64

	if amp, ok := tremorAmp.mean(); ok {
		// Larger tremor amplitude is worse; unit amplitude halves the
		// domain score.
		weighted += weightTremor * (1 / (1 + amp))
		weights += weightTremor
	}
	if s, ok := smoothness.mean(); ok {
		weighted += weightSmoothness * clamp01(s)
		weights += weightSmoothness
	}
	if r, ok := rom.mean(); ok {
		// 90 degrees of motion or better counts as a full-range result.
		weighted += weightRangeOfMotion * clamp01(r/90)
		weights += weightRangeOfMotion
	}
	if c, ok := coordination.mean(); ok {
		weighted += weightCoordination * clamp01(c)
		weights += weightCoordination
	}

	if weights == 0 {
		return 0
	}
	return 100 * weighted / weights
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
