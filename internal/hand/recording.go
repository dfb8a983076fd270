package hand

import (
	"encoding/json"
	"fmt"
	"os"
)

// Recording holds the full keypoint time series for one capture session.
// Either hand may be absent when the protocol is unilateral. The recording is
// assumed time-aligned and frame-rate-normalised by the upstream capture
// system.
type Recording struct {
	RecordingID string
	FPS         float64
	Left        *Trajectory
	Right       *Trajectory
}

// SegmentWindow marks the portion of a recording belonging to one protocol
// movement. Boundaries are supplied by the caller (explicit per-movement
// timing or an external segmentation step); the analysis core never derives
// them.
type SegmentWindow struct {
	MovementID string  `json:"movement_id"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
}

// Window returns the segment of each available hand within [startSec, endSec).
func (r *Recording) Window(startSec, endSec float64) (left, right *Trajectory) {
	if r.Left != nil {
		left = r.Left.Slice(startSec, endSec)
	}
	if r.Right != nil {
		right = r.Right.Slice(startSec, endSec)
	}
	return left, right
}

// recordingJSON is the on-disk format produced by the capture pipeline.
type recordingJSON struct {
	RecordingID string      `json:"recording_id"`
	FPS         float64     `json:"fps"`
	Frames      []frameJSON `json:"frames"`
}

type frameJSON struct {
	TimeSec float64      `json:"t"`
	Left    [][3]float64 `json:"left,omitempty"`
	Right   [][3]float64 `json:"right,omitempty"`
}

// LoadRecording reads a recording from a JSON file. Frames missing a hand are
// skipped for that hand; a hand absent from every frame yields a nil
// trajectory.
func LoadRecording(path string) (*Recording, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	var rj recordingJSON
	if err := json.Unmarshal(raw, &rj); err != nil {
		return nil, fmt.Errorf("parse recording: %w", err)
	}
	rec := &Recording{RecordingID: rj.RecordingID, FPS: rj.FPS}
	for _, fj := range rj.Frames {
		if fr, ok := frameFromJSON(fj.TimeSec, fj.Left); ok {
			if rec.Left == nil {
				rec.Left = &Trajectory{Side: Left}
			}
			rec.Left.Frames = append(rec.Left.Frames, fr)
		}
		if fr, ok := frameFromJSON(fj.TimeSec, fj.Right); ok {
			if rec.Right == nil {
				rec.Right = &Trajectory{Side: Right}
			}
			rec.Right.Frames = append(rec.Right.Frames, fr)
		}
	}
	if rec.Left == nil && rec.Right == nil {
		return nil, fmt.Errorf("recording %s has no landmark frames", rj.RecordingID)
	}
	return rec, nil
}

func frameFromJSON(t float64, pts [][3]float64) (Frame, bool) {
	if len(pts) != LandmarkCount {
		return Frame{}, false
	}
	fr := Frame{TimeSec: t}
	for i, p := range pts {
		fr.Landmarks[i] = Point{X: p[0], Y: p[1], Z: p[2]}
	}
	return fr, true
}

// LoadSegments reads segment boundaries from a JSON file: an array of
// SegmentWindow objects.
func LoadSegments(path string) ([]SegmentWindow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segments: %w", err)
	}
	var windows []SegmentWindow
	if err := json.Unmarshal(raw, &windows); err != nil {
		return nil, fmt.Errorf("parse segments: %w", err)
	}
	return windows, nil
}
