// Command gen-recording produces synthetic hand recordings, protocols and
// segment files for pipeline validation: sinusoidal wrist rotation with an
// injected tremor, plus finger tapping at a fixed rate.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
)

type frameOut struct {
	T     float64      `json:"t"`
	Right [][3]float64 `json:"right,omitempty"`
}

type recordingOut struct {
	RecordingID string     `json:"recording_id"`
	FPS         float64    `json:"fps"`
	Frames      []frameOut `json:"frames"`
}

const landmarkCount = 21

// Landmark indices used by the generators.
const (
	idxWrist    = 0
	idxIndexMCP = 5
	idxIndexTip = 8
	idxPinkyMCP = 17
)

func main() {
	var (
		outDir       string
		fps          float64
		durationSec  float64
		tremorHz     float64
		tremorAmpDeg float64
		tapHz        float64
	)

	flag.StringVar(&outDir, "out", "testdata", "output directory")
	flag.Float64Var(&fps, "fps", 30, "frames per second")
	flag.Float64Var(&durationSec, "duration", 20, "seconds per movement segment")
	flag.Float64Var(&tremorHz, "tremor-hz", 6, "injected tremor frequency")
	flag.Float64Var(&tremorAmpDeg, "tremor-amp", 3, "injected tremor amplitude in degrees")
	flag.Float64Var(&tapHz, "tap-hz", 2, "tapping rate")
	flag.Parse()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	rec := recordingOut{RecordingID: "synthetic-001", FPS: fps}
	n := int(2 * durationSec * fps)
	for i := 0; i < n; i++ {
		ts := float64(i) / fps
		lm := make([][3]float64, landmarkCount)
		if ts < durationSec {
			// Wrist rotation segment: knuckle line swings at 0.5 Hz with
			// the injected tremor on top.
			deg := 45*math.Sin(2*math.Pi*0.5*ts) + tremorAmpDeg*math.Sin(2*math.Pi*tremorHz*ts)
			rad := deg * math.Pi / 180
			lm[idxPinkyMCP] = [3]float64{math.Cos(rad), 0, math.Sin(rad)}
		} else {
			// Tapping segment: index fingertip distance to the wrist
			// oscillates at the tap rate.
			d := 0.2 + 0.1*math.Sin(2*math.Pi*tapHz*(ts-durationSec))
			lm[idxIndexTip] = [3]float64{d, 0, 0}
		}
		rec.Frames = append(rec.Frames, frameOut{T: ts, Right: lm})
	}

	writeJSON := func(name string, v any) {
		path := filepath.Join(outDir, name)
		f, err := os.Create(path)
		if err != nil {
			log.Fatalf("create %s: %v", path, err)
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		enc.SetIndent("", " ")
		if err := enc.Encode(v); err != nil {
			log.Fatalf("encode %s: %v", path, err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	writeJSON("recording.json", rec)

	writeJSON("protocol.json", map[string]any{
		"protocol_id": "synthetic-protocol",
		"movements": []map[string]any{
			{
				"id": "rotation-1", "order": 1, "movement_type": "wrist_rotation",
				"hand": "right", "posture": "neutral",
				"duration_seconds": durationSec, "repetitions": 1,
				"instructions": "rotate the wrist in and out",
				"config":       map[string]any{"sub_movement": "rotation_in_out"},
			},
			{
				"id": "tapping-1", "order": 2, "movement_type": "finger_tapping",
				"hand": "right", "posture": "neutral",
				"duration_seconds": durationSec, "repetitions": 1,
				"instructions": "tap the index finger",
				"config": map[string]any{
					"fingers":    []string{"index"},
					"unilateral": "tap_fast",
				},
			},
		},
	})

	writeJSON("segments.json", []map[string]any{
		{"movement_id": "rotation-1", "start_sec": 0.0, "end_sec": durationSec},
		{"movement_id": "tapping-1", "start_sec": durationSec, "end_sec": 2 * durationSec},
	})
}
