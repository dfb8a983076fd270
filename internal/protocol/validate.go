package protocol

import (
	"fmt"

	"github.com/motus-health/handmetrics/internal/hand"
)

// Validation limits. Duration bounds match the capture system's recording
// limits; a protocol movement cannot outlast its recording.
const (
	MinDurationSeconds = 5
	MaxDurationSeconds = 300
	MinRepetitions     = 1
	MaxRepetitions     = 100
	MaxInstructionsLen = 1000
	MinProtocolLength  = 1
	MaxProtocolLength  = 20
)

// ValidationError describes the first constraint a definition violates.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid movement definition: %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks a movement definition against the taxonomy rules. It is
// total: every input yields either nil or a *ValidationError, checked in a
// fixed field order so failures are deterministic.
func (d *MovementDefinition) Validate() error {
	switch d.Type {
	case WristRotation, FingerTapping, FingersBending, ApertureClosure, ObjectHold, Freestyle:
	default:
		return invalid("movement_type", "unknown movement type %q", d.Type)
	}
	switch d.Hand {
	case HandLeft, HandRight, HandBoth:
	default:
		return invalid("hand", "must be left, right or both, got %q", d.Hand)
	}
	switch d.Posture {
	case PosturePronation, PostureSupination, PostureNeutral:
	default:
		return invalid("posture", "must be pronation, supination or neutral, got %q", d.Posture)
	}
	if d.DurationSeconds < MinDurationSeconds || d.DurationSeconds > MaxDurationSeconds {
		return invalid("duration_seconds", "must be in [%d,%d], got %g",
			MinDurationSeconds, MaxDurationSeconds, d.DurationSeconds)
	}
	if d.Repetitions < MinRepetitions || d.Repetitions > MaxRepetitions {
		return invalid("repetitions", "must be in [%d,%d], got %d",
			MinRepetitions, MaxRepetitions, d.Repetitions)
	}
	if d.Instructions == "" {
		return invalid("instructions", "must not be empty")
	}
	if len(d.Instructions) > MaxInstructionsLen {
		return invalid("instructions", "must be at most %d characters, got %d",
			MaxInstructionsLen, len(d.Instructions))
	}
	return d.validateConfig()
}

// validateConfig enforces the per-type config rules. The config variant must
// match the movement type exactly; reading config through the wrong variant
// is the bug class this check exists to prevent.
func (d *MovementDefinition) validateConfig() error {
	if d.Config == nil {
		// Freestyle's required config is empty, so a definition built
		// without one is still complete.
		if d.Type == Freestyle {
			return nil
		}
		return invalid("config", "missing config for movement type %q", d.Type)
	}
	if got := d.Config.movementType(); got != d.Type {
		return invalid("config", "config variant is for %q, definition is %q", got, d.Type)
	}

	switch cfg := d.Config.(type) {
	case WristRotationConfig:
		switch cfg.SubMovement {
		case RotationIn, RotationOut, RotationInOut, RotationOutIn:
		default:
			return invalid("config.sub_movement", "unknown rotation direction %q", cfg.SubMovement)
		}
	case FingerTappingConfig:
		if len(cfg.Fingers) == 0 {
			return invalid("fingers", "at least one finger must be selected")
		}
		if len(cfg.Fingers) > len(hand.AllFingers) {
			return invalid("fingers", "at most %d fingers, got %d", len(hand.AllFingers), len(cfg.Fingers))
		}
		seen := make(map[hand.Finger]bool, len(cfg.Fingers))
		for _, f := range cfg.Fingers {
			if !hand.ValidFinger(f) {
				return invalid("fingers", "unknown finger %q", f)
			}
			if seen[f] {
				return invalid("fingers", "finger %q selected twice", f)
			}
			seen[f] = true
		}
		switch cfg.Unilateral {
		case TapSlowly, TapFast:
		default:
			return invalid("config.unilateral", "must be tap_slowly or tap_fast, got %q", cfg.Unilateral)
		}
		switch cfg.Bilateral {
		case PatternAlternating, PatternSynchronous:
		default:
			return invalid("config.bilateral", "must be alternating or synchronous, got %q", cfg.Bilateral)
		}
	case FingersBendingConfig:
		switch cfg.SubMovement {
		case Unilateral, Bilateral:
		default:
			return invalid("config.sub_movement", "must be unilateral or bilateral, got %q", cfg.SubMovement)
		}
	case ApertureClosureConfig:
		// Two independent required choices. Absence of either is an error,
		// never a default.
		switch cfg.Aperture {
		case CategoryAperture, CategoryClosure, CategoryApertureClosure:
		case "":
			return invalid("config.aperture_category", "aperture category is required")
		default:
			return invalid("config.aperture_category", "unknown aperture category %q", cfg.Aperture)
		}
		switch cfg.Hands {
		case Unilateral, Bilateral:
		case "":
			return invalid("config.hand_category", "hand category is required")
		default:
			return invalid("config.hand_category", "unknown hand category %q", cfg.Hands)
		}
	case ObjectHoldConfig:
		switch cfg.SubMovement {
		case OpenPalm, ClosedGrasp:
		default:
			return invalid("config.sub_movement", "must be open_palm or closed_grasp, got %q", cfg.SubMovement)
		}
	case FreestyleConfig:
		// No fields to check; emptiness is enforced at decode time.
	default:
		return invalid("config", "unsupported config type %T", d.Config)
	}
	return nil
}

// Validate checks the protocol structure and every movement definition.
// Any failure here is fatal for the whole analysis: nothing runs against a
// malformed protocol.
func (p *Protocol) Validate() error {
	if len(p.Movements) < MinProtocolLength || len(p.Movements) > MaxProtocolLength {
		return invalid("movements", "protocol must contain %d-%d movements, got %d",
			MinProtocolLength, MaxProtocolLength, len(p.Movements))
	}
	seen := make(map[string]bool, len(p.Movements))
	for i := range p.Movements {
		d := &p.Movements[i]
		if d.ID == "" {
			return invalid("id", "movement %d has no id", i)
		}
		if seen[d.ID] {
			return invalid("id", "duplicate movement id %q", d.ID)
		}
		seen[d.ID] = true
		if err := d.Validate(); err != nil {
			return fmt.Errorf("movement %q: %w", d.ID, err)
		}
	}
	return nil
}
