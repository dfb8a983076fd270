package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/motus-health/handmetrics/internal/analysis"
	"github.com/motus-health/handmetrics/internal/analyzer"
	"github.com/motus-health/handmetrics/internal/protocol"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult() *analysis.Result {
	now := time.Now().UTC().Truncate(time.Second)
	return &analysis.Result{
		RunID:       "run-001",
		RecordingID: "rec-001",
		ProtocolID:  "proto-001",
		Status:      analysis.StatusPartiallyFailed,
		StartedAt:   now.Add(-time.Minute),
		CompletedAt: now,
		PerMovement: map[string]analyzer.MovementMetrics{
			"m1": {
				MovementID: "m1",
				Type:       protocol.WristRotation,
				Confidence: 1,
				Detail: analyzer.WristRotationMetrics{
					RotationRangeDeg:  88,
					DominantFreqHz:    0.5,
					TremorFrequencyHz: 5.5,
					TremorAmplitude:   1.4,
					SmoothnessSPARC:   -2.1,
					SmoothnessScore:   0.83,
				},
			},
			"m2": {
				MovementID: "m2",
				Type:       protocol.ObjectHold,
				Confidence: 0,
				Error:      "segment not found",
			},
		},
		FailedMovements: []string{"m2"},
		AnalyzedCount:   1,
		FailedCount:     1,
		Aggregate: &analysis.Aggregate{
			TremorFrequencyHz: 5.5,
			TremorAmplitude:   1.4,
			SmoothnessScore:   0.83,
			RangeOfMotionDeg:  88,
			OverallScore:      71.2,
		},
	}
}

func TestStore_SaveAndGetResult(t *testing.T) {
	s := openTestStore(t)
	want := sampleResult()
	require.NoError(t, s.SaveResult(want))

	got, err := s.GetResult("run-001")
	require.NoError(t, err)
	if got.RecordingID != want.RecordingID || got.ProtocolID != want.ProtocolID {
		t.Errorf("header mismatch: %+v", got)
	}
	if got.Status != analysis.StatusPartiallyFailed {
		t.Errorf("status %s, want %s", got.Status, analysis.StatusPartiallyFailed)
	}
	if len(got.PerMovement) != 2 {
		t.Fatalf("per-movement size %d, want 2", len(got.PerMovement))
	}

	m1 := got.PerMovement["m1"]
	d, ok := m1.Detail.(analyzer.WristRotationMetrics)
	if !ok {
		t.Fatalf("m1 detail type %T, want WristRotationMetrics", m1.Detail)
	}
	if d.RotationRangeDeg != 88 || d.TremorFrequencyHz != 5.5 {
		t.Errorf("m1 detail mangled: %+v", d)
	}

	m2 := got.PerMovement["m2"]
	if m2.Error != "segment not found" || m2.Detail != nil {
		t.Errorf("m2 failure record mangled: %+v", m2)
	}
	if len(got.FailedMovements) != 1 || got.FailedMovements[0] != "m2" {
		t.Errorf("failed movements %v, want [m2]", got.FailedMovements)
	}
	if got.AnalyzedCount != 1 || got.FailedCount != 1 {
		t.Errorf("counts analyzed=%d failed=%d, want 1/1", got.AnalyzedCount, got.FailedCount)
	}
	if got.Aggregate == nil || got.Aggregate.OverallScore != 71.2 {
		t.Errorf("aggregate mangled: %+v", got.Aggregate)
	}
}

func TestStore_FailedRunHasNoAggregate(t *testing.T) {
	s := openTestStore(t)
	res := sampleResult()
	res.RunID = "run-failed"
	res.Status = analysis.StatusFailed
	res.AnalyzedCount = 0
	res.FailedCount = 2
	res.Aggregate = nil
	require.NoError(t, s.SaveResult(res))

	got, err := s.GetResult("run-failed")
	require.NoError(t, err)
	if got.Aggregate != nil {
		t.Errorf("failed run should load with no aggregate, got %+v", got.Aggregate)
	}
	if got.AnalyzedCount != 0 || got.FailedCount != 2 {
		t.Errorf("counts analyzed=%d failed=%d, want 0/2", got.AnalyzedCount, got.FailedCount)
	}
}

func TestStore_GetResult_Missing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetResult("nope"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestStore_ListRuns(t *testing.T) {
	s := openTestStore(t)
	first := sampleResult()
	if err := s.SaveResult(first); err != nil {
		t.Fatal(err)
	}
	second := sampleResult()
	second.RunID = "run-002"
	second.CompletedAt = first.CompletedAt.Add(time.Minute)
	second.Status = analysis.StatusComplete
	if err := s.SaveResult(second); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].RunID != "run-002" {
		t.Errorf("newest first: got %s", runs[0].RunID)
	}
	if runs[0].Status != analysis.StatusComplete {
		t.Errorf("status %s, want complete", runs[0].Status)
	}
}

func TestStore_MigrateUp(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.MigrateUp("migrations"))
	version, dirty, err := s.MigrateVersion("migrations")
	require.NoError(t, err)
	if dirty {
		t.Error("migration left the schema dirty")
	}
	if version == 0 {
		t.Error("expected a nonzero schema version after MigrateUp")
	}
	// Schema stays usable after migrations run over the inline bootstrap.
	if err := s.SaveResult(sampleResult()); err != nil {
		t.Errorf("SaveResult after migrate: %v", err)
	}
}
