// Command handmetrics analyzes one hand movement recording against a
// clinical protocol and writes the results as JSON, an HTML report, spectrum
// plots, and/or rows in a results database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/motus-health/handmetrics/internal/analysis"
	"github.com/motus-health/handmetrics/internal/biomarkers"
	"github.com/motus-health/handmetrics/internal/config"
	"github.com/motus-health/handmetrics/internal/hand"
	"github.com/motus-health/handmetrics/internal/protocol"
	"github.com/motus-health/handmetrics/internal/report"
	"github.com/motus-health/handmetrics/internal/storage/sqlite"
	"github.com/motus-health/handmetrics/internal/version"
)

func main() {
	var (
		protocolPath  string
		recordingPath string
		segmentsPath  string
		tuningPath    string
		dbPath        string
		reportPath    string
		plotsDir      string
		jsonOut       bool
		showVersion   bool
	)

	flag.StringVar(&protocolPath, "protocol", "", "path to protocol JSON (required)")
	flag.StringVar(&recordingPath, "recording", "", "path to recording JSON (required)")
	flag.StringVar(&segmentsPath, "segments", "", "path to segment windows JSON (required)")
	flag.StringVar(&tuningPath, "tuning", "", "optional tuning overrides JSON")
	flag.StringVar(&dbPath, "db", "", "optional results sqlite database")
	flag.StringVar(&reportPath, "report", "", "optional HTML report output path")
	flag.StringVar(&plotsDir, "plots", "", "optional directory for per-movement spectrum plots")
	flag.BoolVar(&jsonOut, "json", false, "write the full result JSON to stdout")
	flag.BoolVar(&showVersion, "version", false, "print the build version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(version.String())
		return
	}

	if protocolPath == "" || recordingPath == "" || segmentsPath == "" {
		log.Fatalf("-protocol, -recording and -segments are required")
	}

	proto, err := protocol.LoadProtocol(protocolPath)
	if err != nil {
		log.Fatalf("load protocol: %v", err)
	}
	rec, err := hand.LoadRecording(recordingPath)
	if err != nil {
		log.Fatalf("load recording: %v", err)
	}
	segments, err := hand.LoadSegments(segmentsPath)
	if err != nil {
		log.Fatalf("load segments: %v", err)
	}

	cfg := analysis.Config{}
	if tuningPath != "" {
		tuning, err := config.LoadTuningConfig(tuningPath)
		if err != nil {
			log.Fatalf("load tuning: %v", err)
		}
		params := tuning.FilterParams()
		cfg.FilterParams = &params
		cfg.Workers = tuning.GetWorkers()
		cfg.MovementTimeout = tuning.GetMovementTimeout()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := analysis.NewRunner(cfg)
	res, err := runner.Run(ctx, proto, rec, segments)
	if err != nil && !errors.Is(err, analysis.ErrAllMovementsFailed) {
		log.Fatalf("analysis: %v", err)
	}
	if errors.Is(err, analysis.ErrAllMovementsFailed) {
		log.Printf("[handmetrics] run %s: all movements failed", res.RunID)
	}

	if dbPath != "" {
		store, err := sqlite.Open(dbPath)
		if err != nil {
			log.Fatalf("open results db: %v", err)
		}
		defer store.Close()
		if err := store.SaveResult(res); err != nil {
			log.Fatalf("save result: %v", err)
		}
		log.Printf("[handmetrics] saved run %s to %s", res.RunID, dbPath)
	}

	if reportPath != "" {
		if err := report.WriteHTML(reportPath, res); err != nil {
			log.Fatalf("write report: %v", err)
		}
		log.Printf("[handmetrics] wrote report %s", reportPath)
	}

	if plotsDir != "" {
		if err := writeSpectrumPlots(plotsDir, proto, rec, segments); err != nil {
			log.Fatalf("write plots: %v", err)
		}
		log.Printf("[handmetrics] wrote spectrum plots to %s", plotsDir)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			log.Fatalf("encode result: %v", err)
		}
	} else {
		printSummary(res)
	}
}

// writeSpectrumPlots renders one wrist-angle power spectrum PNG per segment
// that has recording data.
func writeSpectrumPlots(dir string, proto *protocol.Protocol, rec *hand.Recording, segments []hand.SegmentWindow) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	windows := make(map[string]hand.SegmentWindow, len(segments))
	for _, w := range segments {
		windows[w.MovementID] = w
	}
	fs := rec.FPS
	for _, def := range proto.Movements {
		w, found := windows[def.ID]
		if !found {
			continue
		}
		left, right := rec.Window(w.StartSec, w.EndSec)
		traj := right
		if def.Hand == protocol.HandLeft {
			traj = left
		}
		if traj == nil || traj.Len() == 0 {
			continue
		}
		sp := biomarkers.PowerSpectrum(traj.WristAngleDeg(), fs)
		if sp == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_spectrum.png", def.ID))
		title := fmt.Sprintf("%s (%s) wrist angle spectrum", def.ID, def.Type)
		if err := report.WriteSpectrumPNG(path, title, sp); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(res *analysis.Result) {
	fmt.Printf("run %s: %s\n", res.RunID, res.Status)
	for _, def := range res.FailedMovements {
		m := res.PerMovement[def]
		fmt.Printf("  failed %s: %s\n", def, m.Error)
	}
	fmt.Printf("  analyzed %d, failed %d\n", res.AnalyzedCount, res.FailedCount)
	if agg := res.Aggregate; agg != nil {
		fmt.Printf("  tremor %.2f Hz (amplitude %.3f)\n", agg.TremorFrequencyHz, agg.TremorAmplitude)
		fmt.Printf("  smoothness %.2f, ROM %.1f deg\n", agg.SmoothnessScore, agg.RangeOfMotionDeg)
		fmt.Printf("  overall score %.1f / 100\n", agg.OverallScore)
	}
}
