package protocol

import (
	"github.com/motus-health/handmetrics/internal/hand"
)

// MovementType identifies one of the six clinical movement types. The set is
// closed: every type has exactly one config variant and one analyzer.
type MovementType string

const (
	WristRotation   MovementType = "wrist_rotation"
	FingerTapping   MovementType = "finger_tapping"
	FingersBending  MovementType = "fingers_bending"
	ApertureClosure MovementType = "aperture_closure"
	ObjectHold      MovementType = "object_hold"
	Freestyle       MovementType = "freestyle"
)

// MovementTypes lists all movement types in protocol-form order.
var MovementTypes = []MovementType{
	WristRotation, FingerTapping, FingersBending,
	ApertureClosure, ObjectHold, Freestyle,
}

// Hand selects which hand(s) perform a movement.
type Hand string

const (
	HandLeft  Hand = "left"
	HandRight Hand = "right"
	HandBoth  Hand = "both"
)

// Posture is the forearm posture the movement is performed in.
type Posture string

const (
	PosturePronation  Posture = "pronation"
	PostureSupination Posture = "supination"
	PostureNeutral    Posture = "neutral"
)

// RotationDirection enumerates wrist rotation sub-movements.
type RotationDirection string

const (
	RotationIn    RotationDirection = "rotation_in"
	RotationOut   RotationDirection = "rotation_out"
	RotationInOut RotationDirection = "rotation_in_out"
	RotationOutIn RotationDirection = "rotation_out_in"
)

// TappingMode is the unilateral finger tapping instruction.
type TappingMode string

const (
	TapSlowly TappingMode = "tap_slowly"
	TapFast   TappingMode = "tap_fast"
)

// TappingPattern is the bilateral finger tapping coordination pattern.
type TappingPattern string

const (
	PatternAlternating TappingPattern = "alternating"
	PatternSynchronous TappingPattern = "synchronous"
)

// Laterality distinguishes single-hand from two-hand execution of a
// sub-movement.
type Laterality string

const (
	Unilateral Laterality = "unilateral"
	Bilateral  Laterality = "bilateral"
)

// ApertureCategory enumerates the aperture/closure movement phases.
type ApertureCategory string

const (
	CategoryAperture        ApertureCategory = "aperture"
	CategoryClosure         ApertureCategory = "closure"
	CategoryApertureClosure ApertureCategory = "aperture_closure"
)

// GraspMode is the object hold sub-movement.
type GraspMode string

const (
	OpenPalm    GraspMode = "open_palm"
	ClosedGrasp GraspMode = "closed_grasp"
)

// MovementConfig is the tagged config variant attached to a
// MovementDefinition. The concrete type is determined by the definition's
// MovementType; the two must always agree and config fields must only be read
// through the matching variant.
type MovementConfig interface {
	movementType() MovementType
}

// WristRotationConfig configures a wrist rotation movement.
type WristRotationConfig struct {
	SubMovement RotationDirection `json:"sub_movement"`
}

// FingerTappingConfig configures a finger tapping movement. Fingers selects
// which fingers tap; Unilateral and Bilateral hold the per-laterality
// instruction variants.
type FingerTappingConfig struct {
	Fingers    []hand.Finger  `json:"fingers"`
	Unilateral TappingMode    `json:"unilateral"`
	Bilateral  TappingPattern `json:"bilateral"`
}

// FingersBendingConfig configures a fingers bending movement.
type FingersBendingConfig struct {
	SubMovement Laterality `json:"sub_movement"`
}

// ApertureClosureConfig configures an aperture/closure movement. Both fields
// are independently required: the movement phase and the laterality are two
// separate clinical choices, neither has a default.
type ApertureClosureConfig struct {
	Aperture ApertureCategory `json:"aperture_category"`
	Hands    Laterality       `json:"hand_category"`
}

// ObjectHoldConfig configures an object hold movement.
type ObjectHoldConfig struct {
	SubMovement GraspMode `json:"sub_movement"`
}

// FreestyleConfig is the empty config of a freestyle movement.
type FreestyleConfig struct{}

func (WristRotationConfig) movementType() MovementType   { return WristRotation }
func (FingerTappingConfig) movementType() MovementType   { return FingerTapping }
func (FingersBendingConfig) movementType() MovementType  { return FingersBending }
func (ApertureClosureConfig) movementType() MovementType { return ApertureClosure }
func (ObjectHoldConfig) movementType() MovementType      { return ObjectHold }
func (FreestyleConfig) movementType() MovementType       { return Freestyle }
