// Package analysis orchestrates a full recording analysis: it validates the
// protocol, matches each movement to its recording segment, dispatches the
// segments to their analyzers over a bounded worker pool, and folds the
// per-movement records into aggregate clinical metrics.
package analysis

import (
	"time"

	"github.com/motus-health/handmetrics/internal/analyzer"
)

// Status is the terminal state of an analysis run.
type Status string

const (
	StatusComplete        Status = "complete"
	StatusPartiallyFailed Status = "partially_failed"
	StatusFailed          Status = "failed"
	StatusCancelled       Status = "cancelled"
)

// Aggregate holds the cross-movement clinical summary, computed from
// successfully analyzed movements only.
type Aggregate struct {
	TremorFrequencyHz float64 `json:"tremor_frequency_hz"`
	TremorAmplitude   float64 `json:"tremor_amplitude"`
	SmoothnessScore   float64 `json:"smoothness_score"`
	RangeOfMotionDeg  float64 `json:"range_of_motion_deg"`
	// OverallScore is the weighted domain combination on a 0-100 scale;
	// higher is better motor function.
	OverallScore float64 `json:"overall_score"`
}

// Result is the outcome of analyzing one recording against one protocol.
// PerMovement always holds one record per protocol movement, failed or not.
type Result struct {
	RunID       string                              `json:"run_id"`
	RecordingID string                              `json:"recording_id"`
	ProtocolID  string                              `json:"protocol_id"`
	Status      Status                              `json:"status"`
	StartedAt   time.Time                           `json:"started_at"`
	CompletedAt time.Time                           `json:"completed_at"`
	PerMovement map[string]analyzer.MovementMetrics `json:"per_movement"`
	// FailedMovements lists the IDs of movements whose records carry an
	// error, in protocol order.
	FailedMovements []string `json:"failed_movements,omitempty"`
	AnalyzedCount   int      `json:"analyzed_count"`
	FailedCount     int      `json:"failed_count"`
	// Aggregate is nil when no movement was analyzed successfully: zero
	// metric values would read as plausible clinical findings.
	Aggregate *Aggregate `json:"aggregate,omitempty"`
}
