package protocol

import (
	"encoding/json"
	"fmt"
	"os"
)

// MovementDefinition is one authored entry of a clinical protocol. Created by
// the protocol authoring system; read-only inside the analysis core.
type MovementDefinition struct {
	ID              string         `json:"id"`
	Order           int            `json:"order"`
	Type            MovementType   `json:"movement_type"`
	Hand            Hand           `json:"hand"`
	Posture         Posture        `json:"posture"`
	DurationSeconds float64        `json:"duration_seconds"`
	Repetitions     int            `json:"repetitions"`
	Instructions    string         `json:"instructions"`
	Config          MovementConfig `json:"config"`
}

// Protocol is an ordered list of movement definitions.
type Protocol struct {
	ProtocolID string               `json:"protocol_id"`
	Movements  []MovementDefinition `json:"movements"`
}

// movementDefinitionJSON mirrors MovementDefinition with the config left raw
// so it can be decoded into the variant selected by movement_type.
type movementDefinitionJSON struct {
	ID              string          `json:"id"`
	Order           int             `json:"order"`
	Type            MovementType    `json:"movement_type"`
	Hand            Hand            `json:"hand"`
	Posture         Posture         `json:"posture"`
	DurationSeconds float64         `json:"duration_seconds"`
	Repetitions     int             `json:"repetitions"`
	Instructions    string          `json:"instructions"`
	Config          json.RawMessage `json:"config"`
}

// UnmarshalJSON decodes a definition, selecting the config variant from the
// movement_type tag. An unknown movement type is an error, not a silent
// passthrough.
func (d *MovementDefinition) UnmarshalJSON(data []byte) error {
	var dj movementDefinitionJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return err
	}
	d.ID = dj.ID
	d.Order = dj.Order
	d.Type = dj.Type
	d.Hand = dj.Hand
	d.Posture = dj.Posture
	d.DurationSeconds = dj.DurationSeconds
	d.Repetitions = dj.Repetitions
	d.Instructions = dj.Instructions
	d.Config = nil

	if len(dj.Config) == 0 || string(dj.Config) == "null" {
		// Freestyle's config carries no fields; an absent config is the
		// empty config, not a missing one.
		if dj.Type == Freestyle {
			d.Config = FreestyleConfig{}
		}
		return nil
	}
	cfg, err := decodeConfig(dj.Type, dj.Config)
	if err != nil {
		return err
	}
	d.Config = cfg
	return nil
}

func decodeConfig(t MovementType, raw json.RawMessage) (MovementConfig, error) {
	switch t {
	case WristRotation:
		var c WristRotationConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case FingerTapping:
		var c FingerTappingConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case FingersBending:
		var c FingersBendingConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case ApertureClosure:
		var c ApertureClosureConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case ObjectHold:
		var c ObjectHoldConfig
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		return c, nil
	case Freestyle:
		// Freestyle carries no fields; reject any that are present so a
		// mistyped config is caught at decode time.
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		if len(fields) > 0 {
			return nil, fmt.Errorf("freestyle config must be empty, has %d field(s)", len(fields))
		}
		return FreestyleConfig{}, nil
	default:
		return nil, fmt.Errorf("unknown movement type %q", t)
	}
}

// LoadProtocol reads a protocol from a JSON file.
func LoadProtocol(path string) (*Protocol, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read protocol: %w", err)
	}
	var p Protocol
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse protocol: %w", err)
	}
	return &p, nil
}
