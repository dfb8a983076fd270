package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/motus-health/handmetrics/internal/analyzer"
	"github.com/motus-health/handmetrics/internal/filter"
	"github.com/motus-health/handmetrics/internal/hand"
	"github.com/motus-health/handmetrics/internal/monitoring"
	"github.com/motus-health/handmetrics/internal/protocol"
)

// DefaultMovementTimeout bounds one movement's analysis. A timeout is
// recorded like any other analyzer failure and orchestration continues.
const DefaultMovementTimeout = 30 * time.Second

// ErrAllMovementsFailed marks a run where no movement produced metrics. The
// run result still carries the per-movement failure records.
var ErrAllMovementsFailed = errors.New("all movements failed analysis")

// Config tunes the orchestrator.
type Config struct {
	// Workers bounds the number of movements analyzed concurrently.
	// Zero means one worker per CPU.
	Workers int
	// MovementTimeout bounds a single movement's analysis. Zero means
	// DefaultMovementTimeout.
	MovementTimeout time.Duration
	// FilterParams overrides the filter bank defaults.
	FilterParams *filter.Params
}

// Runner analyzes recordings against protocols. Stateless and safe for
// concurrent use; each Run gets its own working state.
type Runner struct {
	cfg Config
}

// NewRunner creates a runner with the given configuration.
func NewRunner(cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.MovementTimeout <= 0 {
		cfg.MovementTimeout = DefaultMovementTimeout
	}
	return &Runner{cfg: cfg}
}

// Run analyzes one recording against a protocol with externally supplied
// segment boundaries. Protocol validation problems abort before any analysis
// and return the validation error; per-movement failures are recorded in the
// result and never abort the run. The error is ErrAllMovementsFailed when
// every movement failed; the result is still populated in that case.
func (r *Runner) Run(ctx context.Context, proto *protocol.Protocol, rec *hand.Recording, segments []hand.SegmentWindow) (*Result, error) {
	if err := proto.Validate(); err != nil {
		return nil, fmt.Errorf("protocol %s: %w", proto.ProtocolID, err)
	}

	res := &Result{
		RunID:       uuid.New().String(),
		RecordingID: rec.RecordingID,
		ProtocolID:  proto.ProtocolID,
		StartedAt:   time.Now(),
		PerMovement: make(map[string]analyzer.MovementMetrics, len(proto.Movements)),
	}

	fs := rec.FPS
	if fs <= 0 {
		fs = sampleRate(rec)
	}
	if fs <= 0 {
		return nil, fmt.Errorf("recording %s: cannot determine sample rate", rec.RecordingID)
	}
	params := filter.DefaultParams()
	if r.cfg.FilterParams != nil {
		params = *r.cfg.FilterParams
	}
	bank := filter.NewBank(fs, params)

	windows := make(map[string]hand.SegmentWindow, len(segments))
	for _, w := range segments {
		windows[w.MovementID] = w
	}

	monitoring.Logf("[analysis] run %s: %d movements, %d workers, %.1f fps",
		res.RunID, len(proto.Movements), r.cfg.Workers, fs)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		sem       = make(chan struct{}, r.cfg.Workers)
		cancelled bool
	)
	record := func(m analyzer.MovementMetrics) {
		mu.Lock()
		res.PerMovement[m.MovementID] = m
		mu.Unlock()
	}

	for i := range proto.Movements {
		def := &proto.Movements[i]

		// On cancellation, in-flight analyses finish but nothing new is
		// dispatched; undispatched movements get a cancellation record.
		if ctx.Err() != nil {
			cancelled = true
			record(failedRecord(def, "cancelled before analysis"))
			continue
		}

		w, found := windows[def.ID]
		if !found {
			monitoring.Logf("[analysis] run %s: movement %s: segment not found", res.RunID, def.ID)
			record(failedRecord(def, "segment not found"))
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			record(r.analyzeMovement(def, rec, w, bank))
		}()
	}
	wg.Wait()

	res.CompletedAt = time.Now()
	finalize(res, proto, cancelled)

	monitoring.Logf("[analysis] run %s: %s (%d analyzed, %d failed)",
		res.RunID, res.Status, res.AnalyzedCount, res.FailedCount)

	if res.Status == StatusFailed {
		return res, ErrAllMovementsFailed
	}
	return res, nil
}

// analyzeMovement runs one movement's analyzer under the per-movement
// timeout. Analyzers are CPU-bound and short; on timeout the goroutine is
// left to finish and its result discarded.
func (r *Runner) analyzeMovement(def *protocol.MovementDefinition, rec *hand.Recording, w hand.SegmentWindow, bank *filter.Bank) analyzer.MovementMetrics {
	a, err := analyzer.ForType(def.Type)
	if err != nil {
		return failedRecord(def, err.Error())
	}

	left, right := rec.Window(w.StartSec, w.EndSec)
	in := analyzer.Input{Definition: def, Left: left, Right: right, Bank: bank}

	done := make(chan analyzer.MovementMetrics, 1)
	go func() { done <- a.Analyze(in) }()

	select {
	case m := <-done:
		return m
	case <-time.After(r.cfg.MovementTimeout):
		monitoring.Logf("[analysis] movement %s: timed out after %s", def.ID, r.cfg.MovementTimeout)
		return failedRecord(def, fmt.Sprintf("analysis timed out after %s", r.cfg.MovementTimeout))
	}
}

func failedRecord(def *protocol.MovementDefinition, reason string) analyzer.MovementMetrics {
	return analyzer.MovementMetrics{
		MovementID: def.ID,
		Type:       def.Type,
		Confidence: 0,
		Error:      reason,
	}
}

// finalize computes the aggregate and assigns the terminal status.
func finalize(res *Result, proto *protocol.Protocol, cancelled bool) {
	// Protocol order, not map order.
	for _, def := range proto.Movements {
		if m, ok := res.PerMovement[def.ID]; ok && m.Failed() {
			res.FailedMovements = append(res.FailedMovements, def.ID)
		}
	}

	res.Aggregate, res.AnalyzedCount, res.FailedCount = aggregate(proto, res.PerMovement)

	switch {
	case cancelled:
		res.Status = StatusCancelled
	case res.AnalyzedCount == 0:
		res.Status = StatusFailed
	case res.FailedCount > 0:
		res.Status = StatusPartiallyFailed
	default:
		res.Status = StatusComplete
	}
}

func sampleRate(rec *hand.Recording) float64 {
	if rec.Left != nil {
		if fs := rec.Left.SampleRate(); fs > 0 {
			return fs
		}
	}
	if rec.Right != nil {
		return rec.Right.SampleRate()
	}
	return 0
}
