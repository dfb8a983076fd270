// Package report renders analysis results for clinician review: a standalone
// HTML summary of one run and PNG plots of the spectra behind its tremor
// findings.
package report

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/motus-health/handmetrics/internal/analysis"
)

// WriteHTML renders a run summary to a standalone HTML file: per-movement
// confidence, the aggregate domain values, and the failed movements in the
// chart subtitles.
func WriteHTML(path string, res *analysis.Result) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Analysis %s", res.RunID)
	page.AddCharts(confidenceChart(res), aggregateChart(res))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func confidenceChart(res *analysis.Result) *charts.Bar {
	ids := make([]string, 0, len(res.PerMovement))
	for id := range res.PerMovement {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	x := make([]string, 0, len(ids))
	y := make([]opts.BarData, 0, len(ids))
	for _, id := range ids {
		m := res.PerMovement[id]
		label := fmt.Sprintf("%s (%s)", id, m.Type)
		if m.Failed() {
			label = fmt.Sprintf("%s: %s", label, m.Error)
		}
		x = append(x, label)
		y = append(y, opts.BarData{Value: m.Confidence})
	}

	subtitle := fmt.Sprintf("recording %s, status %s", res.RecordingID, res.Status)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Per-movement confidence", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("confidence", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}

func aggregateChart(res *analysis.Result) *charts.Bar {
	agg := res.Aggregate
	if agg == nil {
		agg = &analysis.Aggregate{}
	}
	x := []string{
		"tremor freq (Hz)", "tremor amplitude", "smoothness",
		"range of motion (deg)", "overall score",
	}
	y := []opts.BarData{
		{Value: agg.TremorFrequencyHz},
		{Value: agg.TremorAmplitude},
		{Value: agg.SmoothnessScore},
		{Value: agg.RangeOfMotionDeg},
		{Value: agg.OverallScore},
	}

	subtitle := fmt.Sprintf("%d analyzed, %d failed", res.AnalyzedCount, res.FailedCount)
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Aggregate metrics", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("aggregate", y,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)
	return bar
}
