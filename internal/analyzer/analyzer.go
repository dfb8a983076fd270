// Package analyzer converts filtered trajectory segments into clinical
// metrics, one analyzer per movement type. Analyzers never return an error
// for schema-valid but unusable input: they record the failure in the
// metrics record with confidence 0 and let orchestration continue.
package analyzer

import (
	"fmt"

	"github.com/motus-health/handmetrics/internal/filter"
	"github.com/motus-health/handmetrics/internal/hand"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// MinFrames is the minimum segment length any analyzer will compute
// statistics on. Shorter segments yield a failed metrics record.
const MinFrames = 10

// Input is one movement's isolated analysis input: the definition, the
// trajectory segment for each hand the protocol asked for, and the filter
// bank built for the recording's sample rate. Trajectories are private
// copies; analyzers may derive signals freely.
type Input struct {
	Definition *protocol.MovementDefinition
	Left       *hand.Trajectory
	Right      *hand.Trajectory
	Bank       *filter.Bank
}

// Analyzer computes metrics for one movement type.
type Analyzer interface {
	// Type is the movement type this analyzer handles.
	Type() protocol.MovementType
	// RequiredFilters names the conditioning filters the analyzer applies,
	// in application order.
	RequiredFilters() []string
	// Analyze produces the metrics record for one segment. It never panics
	// and never fails hard: problems are reported inside the record.
	Analyze(in Input) MovementMetrics
}

// ForType returns the analyzer for a movement type. The switch is the single
// dispatch point; a new movement type that is not handled here fails loudly
// at the first lookup.
func ForType(t protocol.MovementType) (Analyzer, error) {
	switch t {
	case protocol.WristRotation:
		return wristRotationAnalyzer{}, nil
	case protocol.FingerTapping:
		return fingerTappingAnalyzer{}, nil
	case protocol.FingersBending:
		return fingersBendingAnalyzer{}, nil
	case protocol.ApertureClosure:
		return apertureClosureAnalyzer{}, nil
	case protocol.ObjectHold:
		return objectHoldAnalyzer{}, nil
	case protocol.Freestyle:
		return freestyleAnalyzer{}, nil
	default:
		return nil, fmt.Errorf("no analyzer for movement type %q", t)
	}
}

// failed builds the failure record every analyzer returns for unusable
// segments.
func failed(def *protocol.MovementDefinition, reason string) MovementMetrics {
	return MovementMetrics{
		MovementID: def.ID,
		Type:       def.Type,
		Confidence: 0,
		Error:      reason,
	}
}

// hands returns the trajectories the definition's hand selection requires,
// or a failure reason when one is missing or too short. For unilateral
// movements the slice holds one trajectory; for bilateral, left then right.
func hands(in Input) ([]*hand.Trajectory, string) {
	var trajs []*hand.Trajectory
	switch in.Definition.Hand {
	case protocol.HandLeft:
		trajs = append(trajs, in.Left)
	case protocol.HandRight:
		trajs = append(trajs, in.Right)
	case protocol.HandBoth:
		trajs = append(trajs, in.Left, in.Right)
	default:
		return nil, fmt.Sprintf("unknown hand selection %q", in.Definition.Hand)
	}
	for i, t := range trajs {
		side := in.Definition.Hand
		if side == protocol.HandBoth {
			side = protocol.HandLeft
			if i == 1 {
				side = protocol.HandRight
			}
		}
		if t == nil || t.Len() == 0 {
			return nil, fmt.Sprintf("no trajectory for %s hand", side)
		}
		if t.Len() < MinFrames {
			return nil, fmt.Sprintf("segment too short: %d frames, need %d", t.Len(), MinFrames)
		}
	}
	return trajs, ""
}

// condition runs the named filters over a signal in order, feeding each
// filter the previous output, and returns the final signal plus the
// per-filter diagnostics.
func condition(bank *filter.Bank, names []string, sig []float64) ([]float64, []filter.Result, error) {
	out := sig
	results := make([]filter.Result, 0, len(names))
	for _, name := range names {
		f, err := bank.Get(name)
		if err != nil {
			return nil, nil, err
		}
		res := filter.Run(f, out)
		results = append(results, res)
		out = res.Output
	}
	return out, results, nil
}

// confidence scores a record by the fraction of attempted measures that
// produced a value.
func confidence(ok, attempted int) float64 {
	if attempted == 0 {
		return 0
	}
	return float64(ok) / float64(attempted)
}
