package analysis

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/motus-health/handmetrics/internal/analyzer"
	"github.com/motus-health/handmetrics/internal/hand"
	"github.com/motus-health/handmetrics/internal/monitoring"
	"github.com/motus-health/handmetrics/internal/protocol"
)

const testFPS = 30.0

// testRecording rotates the right hand's knuckle line at 0.5 Hz with a 6 Hz
// tremor for the whole duration, which gives every wrist rotation segment
// usable content.
func testRecording(totalSec float64) *hand.Recording {
	traj := &hand.Trajectory{Side: hand.Right}
	n := int(totalSec * testFPS)
	for i := 0; i < n; i++ {
		ts := float64(i) / testFPS
		deg := 45*math.Sin(2*math.Pi*0.5*ts) + 3*math.Sin(2*math.Pi*6*ts)
		rad := deg * math.Pi / 180
		fr := hand.Frame{TimeSec: ts}
		fr.Landmarks[hand.IndexMCP] = hand.Point{}
		fr.Landmarks[hand.PinkyMCP] = hand.Point{X: math.Cos(rad), Z: math.Sin(rad)}
		traj.Frames = append(traj.Frames, fr)
	}
	return &hand.Recording{RecordingID: "rec-test", FPS: testFPS, Right: traj}
}

func rotationMovement(id string, order int) protocol.MovementDefinition {
	return protocol.MovementDefinition{
		ID:              id,
		Order:           order,
		Type:            protocol.WristRotation,
		Hand:            protocol.HandRight,
		Posture:         protocol.PostureNeutral,
		DurationSeconds: 10,
		Repetitions:     1,
		Instructions:    "rotate the wrist",
		Config:          protocol.WristRotationConfig{SubMovement: protocol.RotationInOut},
	}
}

func threeMovementProtocol() *protocol.Protocol {
	return &protocol.Protocol{
		ProtocolID: "proto-test",
		Movements: []protocol.MovementDefinition{
			rotationMovement("m1", 1),
			rotationMovement("m2", 2),
			rotationMovement("m3", 3),
		},
	}
}

func TestMain(m *testing.M) {
	defer monitoring.Mute()()
	m.Run()
}

func TestRun_Complete(t *testing.T) {
	r := NewRunner(Config{Workers: 2})
	segments := []hand.SegmentWindow{
		{MovementID: "m1", StartSec: 0, EndSec: 10},
		{MovementID: "m2", StartSec: 10, EndSec: 20},
		{MovementID: "m3", StartSec: 20, EndSec: 30},
	}
	res, err := r.Run(context.Background(), threeMovementProtocol(), testRecording(30), segments)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusComplete {
		t.Errorf("status %s, want %s", res.Status, StatusComplete)
	}
	if len(res.PerMovement) != 3 {
		t.Fatalf("per-movement size %d, want 3", len(res.PerMovement))
	}
	for id, m := range res.PerMovement {
		if m.Failed() {
			t.Errorf("movement %s failed: %s", id, m.Error)
		}
	}
	if res.Aggregate == nil {
		t.Fatal("aggregate missing")
	}
	if res.AnalyzedCount != 3 || res.FailedCount != 0 {
		t.Errorf("counts analyzed=%d failed=%d", res.AnalyzedCount, res.FailedCount)
	}
	if math.Abs(res.Aggregate.TremorFrequencyHz-6) > 0.3 {
		t.Errorf("aggregate tremor frequency %.2f, want ~6", res.Aggregate.TremorFrequencyHz)
	}
	if res.Aggregate.OverallScore <= 0 || res.Aggregate.OverallScore > 100 {
		t.Errorf("overall score %.1f outside (0,100]", res.Aggregate.OverallScore)
	}
	if res.RunID == "" {
		t.Error("run ID missing")
	}
}

func TestRun_MissingSegmentIsPartial(t *testing.T) {
	r := NewRunner(Config{Workers: 2})
	// No window for m2.
	segments := []hand.SegmentWindow{
		{MovementID: "m1", StartSec: 0, EndSec: 10},
		{MovementID: "m3", StartSec: 20, EndSec: 30},
	}
	res, err := r.Run(context.Background(), threeMovementProtocol(), testRecording(30), segments)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusPartiallyFailed {
		t.Errorf("status %s, want %s", res.Status, StatusPartiallyFailed)
	}
	if len(res.PerMovement) != 3 {
		t.Fatalf("per-movement size %d, want 3 (failed movements still recorded)", len(res.PerMovement))
	}
	m2 := res.PerMovement["m2"]
	if m2.Error != "segment not found" {
		t.Errorf("m2 error %q, want \"segment not found\"", m2.Error)
	}
	if m2.Confidence != 0 {
		t.Errorf("m2 confidence %v, want 0", m2.Confidence)
	}
	if got := res.FailedMovements; len(got) != 1 || got[0] != "m2" {
		t.Errorf("failed movements %v, want [m2]", got)
	}
	if res.AnalyzedCount != 2 || res.FailedCount != 1 {
		t.Errorf("counts analyzed=%d failed=%d, want 2/1", res.AnalyzedCount, res.FailedCount)
	}
	if res.Aggregate == nil {
		t.Error("aggregate should be computed from the two successes")
	}
}

func TestRun_AllFailed(t *testing.T) {
	r := NewRunner(Config{Workers: 2})
	// Every window lies outside the recording.
	segments := []hand.SegmentWindow{
		{MovementID: "m1", StartSec: 100, EndSec: 110},
		{MovementID: "m2", StartSec: 110, EndSec: 120},
		{MovementID: "m3", StartSec: 120, EndSec: 130},
	}
	res, err := r.Run(context.Background(), threeMovementProtocol(), testRecording(30), segments)
	if !errors.Is(err, ErrAllMovementsFailed) {
		t.Fatalf("err = %v, want ErrAllMovementsFailed", err)
	}
	if res == nil {
		t.Fatal("partial results must still be returned")
	}
	if res.Status != StatusFailed {
		t.Errorf("status %s, want %s", res.Status, StatusFailed)
	}
	if len(res.PerMovement) != 3 || len(res.FailedMovements) != 3 {
		t.Errorf("expected all three failure records, got %d/%d",
			len(res.PerMovement), len(res.FailedMovements))
	}
	if res.Aggregate != nil {
		t.Errorf("no aggregate should be reported with zero successes, got %+v", res.Aggregate)
	}
	if res.AnalyzedCount != 0 || res.FailedCount != 3 {
		t.Errorf("counts analyzed=%d failed=%d, want 0/3", res.AnalyzedCount, res.FailedCount)
	}
}

func TestRun_InvalidProtocolIsFatal(t *testing.T) {
	r := NewRunner(Config{})
	proto := threeMovementProtocol()
	proto.Movements[1].DurationSeconds = 1 // below the allowed minimum
	res, err := r.Run(context.Background(), proto, testRecording(30), nil)
	if err == nil {
		t.Fatal("invalid protocol must abort the run")
	}
	if res != nil {
		t.Error("no result should be produced before validation passes")
	}
	var verr *protocol.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("error %v should wrap a validation error", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	r := NewRunner(Config{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	segments := []hand.SegmentWindow{
		{MovementID: "m1", StartSec: 0, EndSec: 10},
		{MovementID: "m2", StartSec: 10, EndSec: 20},
		{MovementID: "m3", StartSec: 20, EndSec: 30},
	}
	res, err := r.Run(ctx, threeMovementProtocol(), testRecording(30), segments)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Status != StatusCancelled {
		t.Errorf("status %s, want %s", res.Status, StatusCancelled)
	}
	if len(res.PerMovement) != 3 {
		t.Errorf("per-movement size %d, want 3", len(res.PerMovement))
	}
	for id, m := range res.PerMovement {
		if !m.Failed() {
			t.Errorf("movement %s should carry a cancellation record", id)
		}
	}
}

func TestRun_TimeoutIsNonFatal(t *testing.T) {
	r := NewRunner(Config{Workers: 1, MovementTimeout: time.Nanosecond})
	segments := []hand.SegmentWindow{
		{MovementID: "m1", StartSec: 0, EndSec: 10},
	}
	proto := &protocol.Protocol{
		ProtocolID: "proto-timeout",
		Movements:  []protocol.MovementDefinition{rotationMovement("m1", 1)},
	}
	res, err := r.Run(context.Background(), proto, testRecording(10), segments)
	if !errors.Is(err, ErrAllMovementsFailed) {
		t.Fatalf("err = %v, want ErrAllMovementsFailed for the single timed-out movement", err)
	}
	m := res.PerMovement["m1"]
	if m.Error == "" || m.Confidence != 0 {
		t.Errorf("timed-out movement should carry a failure record, got %+v", m)
	}
}

func TestAggregate_IgnoresFailedMovements(t *testing.T) {
	proto := threeMovementProtocol()
	per := map[string]analyzer.MovementMetrics{
		"m1": {
			MovementID: "m1", Type: protocol.WristRotation, Confidence: 1,
			Detail: analyzer.WristRotationMetrics{
				RotationRangeDeg: 90, TremorFrequencyHz: 5, TremorAmplitude: 2, SmoothnessScore: 0.8,
			},
		},
		"m2": {MovementID: "m2", Type: protocol.WristRotation, Error: "segment not found"},
		"m3": {
			MovementID: "m3", Type: protocol.WristRotation, Confidence: 1,
			Detail: analyzer.WristRotationMetrics{
				RotationRangeDeg: 70, TremorFrequencyHz: 7, TremorAmplitude: 4, SmoothnessScore: 0.6,
			},
		},
	}
	agg, analyzed, failed := aggregate(proto, per)
	if analyzed != 2 || failed != 1 {
		t.Fatalf("counts analyzed=%d failed=%d", analyzed, failed)
	}
	if agg == nil {
		t.Fatal("aggregate missing")
	}
	if agg.TremorFrequencyHz != 6 {
		t.Errorf("tremor frequency %v, want mean 6", agg.TremorFrequencyHz)
	}
	if agg.TremorAmplitude != 3 {
		t.Errorf("tremor amplitude %v, want mean 3", agg.TremorAmplitude)
	}
	if math.Abs(agg.SmoothnessScore-0.7) > 1e-12 {
		t.Errorf("smoothness %v, want mean 0.7", agg.SmoothnessScore)
	}
	if agg.RangeOfMotionDeg != 80 {
		t.Errorf("ROM %v, want mean 80", agg.RangeOfMotionDeg)
	}
	if agg.OverallScore <= 0 || agg.OverallScore > 100 {
		t.Errorf("overall score %v outside (0,100]", agg.OverallScore)
	}
}

func TestAggregate_NoSuccesses(t *testing.T) {
	proto := threeMovementProtocol()
	per := map[string]analyzer.MovementMetrics{
		"m1": {MovementID: "m1", Error: "x"},
		"m2": {MovementID: "m2", Error: "x"},
		"m3": {MovementID: "m3", Error: "x"},
	}
	agg, analyzed, failed := aggregate(proto, per)
	if analyzed != 0 || failed != 3 {
		t.Errorf("counts analyzed=%d failed=%d", analyzed, failed)
	}
	if agg != nil {
		t.Errorf("no successes should yield no aggregate, got %+v", agg)
	}
}
