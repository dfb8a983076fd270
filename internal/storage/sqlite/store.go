// Package sqlite persists analysis runs and their per-movement metrics for
// later clinician review and longitudinal comparison.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/motus-health/handmetrics/internal/analysis"
	"github.com/motus-health/handmetrics/internal/analyzer"
)

// Store wraps the results database.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the results database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id              TEXT PRIMARY KEY,
			recording_id        TEXT,
			protocol_id         TEXT,
			status              TEXT,
			started_at          TIMESTAMP,
			completed_at        TIMESTAMP,
			tremor_frequency_hz DOUBLE,
			tremor_amplitude    DOUBLE,
			smoothness_score    DOUBLE,
			range_of_motion_deg DOUBLE,
			overall_score       DOUBLE,
			analyzed_count      BIGINT,
			failed_count        BIGINT,
			created_at          TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS movement_metrics (
			run_id        TEXT,
			movement_id   TEXT,
			movement_type TEXT,
			confidence    DOUBLE,
			error         TEXT,
			metrics_json  TEXT,
			created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY(run_id, movement_id),
			FOREIGN KEY(run_id) REFERENCES analysis_runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db}, nil
}

// SaveResult inserts a run and all its movement records in one transaction.
func (s *Store) SaveResult(res *analysis.Result) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	agg := res.Aggregate
	if agg == nil {
		agg = &analysis.Aggregate{}
	}
	_, err = tx.Exec(`
		INSERT INTO analysis_runs (
			run_id, recording_id, protocol_id, status, started_at, completed_at,
			tremor_frequency_hz, tremor_amplitude, smoothness_score,
			range_of_motion_deg, overall_score, analyzed_count, failed_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.RecordingID, res.ProtocolID, string(res.Status),
		res.StartedAt, res.CompletedAt,
		agg.TremorFrequencyHz, agg.TremorAmplitude, agg.SmoothnessScore,
		agg.RangeOfMotionDeg, agg.OverallScore, res.AnalyzedCount, res.FailedCount,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", res.RunID, err)
	}

	for id, m := range res.PerMovement {
		raw, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode metrics for movement %s: %w", id, err)
		}
		_, err = tx.Exec(`
			INSERT INTO movement_metrics (
				run_id, movement_id, movement_type, confidence, error, metrics_json
			) VALUES (?, ?, ?, ?, ?, ?)`,
			res.RunID, m.MovementID, string(m.Type), m.Confidence, m.Error, string(raw),
		)
		if err != nil {
			return fmt.Errorf("insert metrics for movement %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// GetResult loads a run and its movement records by run ID.
func (s *Store) GetResult(runID string) (*analysis.Result, error) {
	res := &analysis.Result{
		RunID:       runID,
		PerMovement: make(map[string]analyzer.MovementMetrics),
	}
	var status string
	var agg analysis.Aggregate
	err := s.QueryRow(`
		SELECT recording_id, protocol_id, status, started_at, completed_at,
		       tremor_frequency_hz, tremor_amplitude, smoothness_score,
		       range_of_motion_deg, overall_score, analyzed_count, failed_count
		FROM analysis_runs WHERE run_id = ?`, runID,
	).Scan(
		&res.RecordingID, &res.ProtocolID, &status, &res.StartedAt, &res.CompletedAt,
		&agg.TremorFrequencyHz, &agg.TremorAmplitude,
		&agg.SmoothnessScore, &agg.RangeOfMotionDeg,
		&agg.OverallScore, &res.AnalyzedCount, &res.FailedCount,
	)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	res.Status = analysis.Status(status)
	// A run with no analyzed movements stores zeroed aggregate columns;
	// those are placeholders, not findings.
	if res.AnalyzedCount > 0 {
		res.Aggregate = &agg
	}

	rows, err := s.Query(`SELECT metrics_json FROM movement_metrics WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var m analyzer.MovementMetrics
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode metrics for run %s: %w", runID, err)
		}
		res.PerMovement[m.MovementID] = m
		if m.Failed() {
			res.FailedMovements = append(res.FailedMovements, m.MovementID)
		}
	}
	return res, rows.Err()
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	RunID        string
	RecordingID  string
	Status       analysis.Status
	OverallScore float64
	CompletedAt  time.Time
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.Query(`
		SELECT run_id, recording_id, status, overall_score, completed_at
		FROM analysis_runs ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var status string
		if err := rows.Scan(&r.RunID, &r.RecordingID, &status, &r.OverallScore, &r.CompletedAt); err != nil {
			return nil, err
		}
		r.Status = analysis.Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
