package analyzer

import (
	"encoding/json"
	"fmt"

	"github.com/motus-health/handmetrics/internal/filter"
	"github.com/motus-health/handmetrics/internal/hand"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// MetricsDetail is the movement-specific half of a metrics record. The
// concrete type always matches the movement type of the definition that was
// analyzed, mirroring the config variant on the input side.
type MetricsDetail interface {
	metricsType() protocol.MovementType
}

// WristRotationMetrics is the output of the wrist rotation analyzer.
type WristRotationMetrics struct {
	RotationRangeDeg  float64 `json:"rotation_range_deg"`
	DominantFreqHz    float64 `json:"dominant_freq_hz"`
	TremorAmplitude   float64 `json:"tremor_amplitude"`
	TremorFrequencyHz float64 `json:"tremor_frequency_hz"`
	SmoothnessSPARC   float64 `json:"smoothness_sparc"`
	SmoothnessScore   float64 `json:"smoothness_score"`
}

// FingerTappingMetrics is the output of the finger tapping analyzer.
// BilateralCoordination is present only when the movement was performed with
// both hands; FingerIndependence only when at least two fingers tapped.
type FingerTappingMetrics struct {
	TapFrequencyHz        float64  `json:"tap_frequency_hz"`
	TapCount              int      `json:"tap_count"`
	TapRegularity         float64  `json:"tap_regularity"`
	FingerIndependence    *float64 `json:"finger_independence,omitempty"`
	BilateralCoordination *float64 `json:"bilateral_coordination,omitempty"`
}

// FingersBendingMetrics is the output of the fingers bending analyzer.
// Asymmetry is present only for bilateral execution.
type FingersBendingMetrics struct {
	FingerROMDeg    map[hand.Finger]float64 `json:"finger_rom_deg"`
	SmoothnessSPARC float64                 `json:"smoothness_sparc"`
	SmoothnessScore float64                 `json:"smoothness_score"`
	Asymmetry       *float64                `json:"asymmetry,omitempty"`
}

// ApertureClosureMetrics is the output of the aperture/closure analyzer.
type ApertureClosureMetrics struct {
	MaxAperture        float64 `json:"max_aperture"`
	ClosureDurationSec float64 `json:"closure_duration_sec"`
	SmoothnessSPARC    float64 `json:"smoothness_sparc"`
	SmoothnessScore    float64 `json:"smoothness_score"`
	HoldStability      float64 `json:"hold_stability"`
}

// ObjectHoldMetrics is the output of the object hold analyzer.
type ObjectHoldMetrics struct {
	GripStability     float64 `json:"grip_stability"`
	TremorFrequencyHz float64 `json:"tremor_frequency_hz"`
	TremorAmplitude   float64 `json:"tremor_amplitude"`
}

// FreestyleMetrics is the output of the freestyle analyzer: the general
// toolkit measures with no movement-specific structure.
type FreestyleMetrics struct {
	Stability         float64 `json:"stability"`
	RangeOfMotionDeg  float64 `json:"range_of_motion_deg"`
	TremorFrequencyHz float64 `json:"tremor_frequency_hz"`
	TremorAmplitude   float64 `json:"tremor_amplitude"`
	SmoothnessSPARC   float64 `json:"smoothness_sparc"`
	SmoothnessScore   float64 `json:"smoothness_score"`
}

func (WristRotationMetrics) metricsType() protocol.MovementType   { return protocol.WristRotation }
func (FingerTappingMetrics) metricsType() protocol.MovementType   { return protocol.FingerTapping }
func (FingersBendingMetrics) metricsType() protocol.MovementType  { return protocol.FingersBending }
func (ApertureClosureMetrics) metricsType() protocol.MovementType { return protocol.ApertureClosure }
func (ObjectHoldMetrics) metricsType() protocol.MovementType      { return protocol.ObjectHold }
func (FreestyleMetrics) metricsType() protocol.MovementType       { return protocol.Freestyle }

// MovementMetrics is one analyzer's result for one protocol movement. A
// failed analysis has Confidence 0, a non-empty Error and a nil Detail; a
// successful one has a Detail whose concrete type matches Type.
type MovementMetrics struct {
	MovementID string
	Type       protocol.MovementType
	Confidence float64
	Error      string
	Detail     MetricsDetail
	Filters    []filter.Result
}

// Failed reports whether the record represents a failed analysis.
func (m *MovementMetrics) Failed() bool { return m.Error != "" }

type movementMetricsJSON struct {
	MovementID string                `json:"movement_id"`
	Type       protocol.MovementType `json:"movement_type"`
	Confidence float64               `json:"confidence"`
	Error      string                `json:"error,omitempty"`
	Detail     json.RawMessage       `json:"metrics,omitempty"`
	Filters    []filter.Result       `json:"filters,omitempty"`
}

// MarshalJSON writes the record as a tagged envelope: the movement type
// discriminates the shape of the metrics object.
func (m MovementMetrics) MarshalJSON() ([]byte, error) {
	env := movementMetricsJSON{
		MovementID: m.MovementID,
		Type:       m.Type,
		Confidence: m.Confidence,
		Error:      m.Error,
		Filters:    m.Filters,
	}
	if m.Detail != nil {
		raw, err := json.Marshal(m.Detail)
		if err != nil {
			return nil, err
		}
		env.Detail = raw
	}
	return json.Marshal(env)
}

// UnmarshalJSON restores a record from its envelope, decoding the metrics
// object into the variant named by the movement type tag.
func (m *MovementMetrics) UnmarshalJSON(data []byte) error {
	var env movementMetricsJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	m.MovementID = env.MovementID
	m.Type = env.Type
	m.Confidence = env.Confidence
	m.Error = env.Error
	m.Filters = env.Filters
	m.Detail = nil
	if len(env.Detail) == 0 {
		return nil
	}
	detail, err := decodeDetail(env.Type, env.Detail)
	if err != nil {
		return err
	}
	m.Detail = detail
	return nil
}

func decodeDetail(t protocol.MovementType, raw json.RawMessage) (MetricsDetail, error) {
	switch t {
	case protocol.WristRotation:
		var d WristRotationMetrics
		return d, json.Unmarshal(raw, &d)
	case protocol.FingerTapping:
		var d FingerTappingMetrics
		return d, json.Unmarshal(raw, &d)
	case protocol.FingersBending:
		var d FingersBendingMetrics
		return d, json.Unmarshal(raw, &d)
	case protocol.ApertureClosure:
		var d ApertureClosureMetrics
		return d, json.Unmarshal(raw, &d)
	case protocol.ObjectHold:
		var d ObjectHoldMetrics
		return d, json.Unmarshal(raw, &d)
	case protocol.Freestyle:
		var d FreestyleMetrics
		return d, json.Unmarshal(raw, &d)
	default:
		return nil, fmt.Errorf("unknown movement type %q in metrics record", t)
	}
}
