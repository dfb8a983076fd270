package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/motus-health/handmetrics/internal/biomarkers"
)

// WriteSpectrumPNG plots a power spectrum to a PNG file, with the tremor
// band shaded so a clinician can see at a glance whether the dominant
// component is tremor.
func WriteSpectrumPNG(path, title string, sp *biomarkers.Spectrum) error {
	if sp == nil || len(sp.Freqs) == 0 {
		return fmt.Errorf("empty spectrum")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "frequency (Hz)"
	p.Y.Label.Text = "amplitude"

	var maxAmp float64
	pts := make(plotter.XYs, len(sp.Freqs))
	for i := range sp.Freqs {
		pts[i] = plotter.XY{X: sp.Freqs[i], Y: sp.Amps[i]}
		if sp.Amps[i] > maxAmp {
			maxAmp = sp.Amps[i]
		}
	}

	band := plotter.XYs{
		{X: biomarkers.TremorBandLowHz, Y: 0},
		{X: biomarkers.TremorBandLowHz, Y: maxAmp},
		{X: biomarkers.TremorBandHighHz, Y: maxAmp},
		{X: biomarkers.TremorBandHighHz, Y: 0},
	}
	bandPoly, err := plotter.NewPolygon(band)
	if err != nil {
		return err
	}
	bandPoly.Color = color.RGBA{R: 255, G: 220, B: 220, A: 120}
	bandPoly.LineStyle.Width = 0
	p.Add(bandPoly)

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("spectrum", line)
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save spectrum plot: %w", err)
	}
	return nil
}

// WriteSignalPNG plots a raw signal against a filtered variant, both over
// the same time axis.
func WriteSignalPNG(path, title string, fs float64, raw, filtered []float64) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty signal")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "value"

	toXYs := func(sig []float64) plotter.XYs {
		pts := make(plotter.XYs, len(sig))
		for i, v := range sig {
			pts[i] = plotter.XY{X: float64(i) / fs, Y: v}
		}
		return pts
	}

	rawLine, err := plotter.NewLine(toXYs(raw))
	if err != nil {
		return err
	}
	rawLine.Color = color.RGBA{R: 180, G: 180, B: 180, A: 255}
	rawLine.Width = vg.Points(0.5)
	p.Add(rawLine)
	p.Legend.Add("raw", rawLine)

	if len(filtered) > 0 {
		filtLine, err := plotter.NewLine(toXYs(filtered))
		if err != nil {
			return err
		}
		filtLine.Color = color.RGBA{B: 200, A: 255}
		filtLine.Width = vg.Points(1)
		p.Add(filtLine)
		p.Legend.Add("filtered", filtLine)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save signal plot: %w", err)
	}
	return nil
}
