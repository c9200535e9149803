package report

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrNothingToPlot is returned when no series has a point that can be drawn
// on log-log axes.
var ErrNothingToPlot = errors.New("no plottable rows")

// PlotOptions controls the error plot.
type PlotOptions struct {
	Alpha  float64 // line opacity in [0,1]
	DPI    int
	Width  vg.Length
	Height vg.Length
}

// DefaultPlotOptions returns the settings used by the plot command.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{
		Alpha:  1.0,
		DPI:    200,
		Width:  6.4 * vg.Inch,
		Height: 4.8 * vg.Inch,
	}
}

// Series is one labelled error curve.
type Series struct {
	Label   string
	Records []Record
}

// logPoints keeps the rows that can be drawn with both axes on a log scale.
func logPoints(records []Record) plotter.XYs {
	pts := make(plotter.XYs, 0, len(records))
	for _, r := range records {
		if r.Step < 1 || r.Error <= 0 {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(r.Step), Y: r.Error})
	}
	return pts
}

// NewErrorPlot draws step against absolute error on log-log axes, one line
// per series.
func NewErrorPlot(series []Series, opts PlotOptions) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Error"
	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Legend.Top = true

	drawn := 0
	for i, s := range series {
		pts := logPoints(s.Records)
		if len(pts) == 0 {
			slog.Warn("Series has no plottable rows", "label", s.Label)
			continue
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to build line for %s: %w", s.Label, err)
		}
		line.LineStyle.Width = vg.Points(0.5)
		line.LineStyle.Color = withAlpha(plotutil.Color(i), opts.Alpha)

		p.Add(line)
		p.Legend.Add(s.Label, line)
		drawn++
	}
	if drawn == 0 {
		return nil, ErrNothingToPlot
	}

	return p, nil
}

func withAlpha(c color.Color, alpha float64) color.Color {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(alpha * 255),
	}
}

// SavePlot renders p to path. PNG output honours opts.DPI; other extensions
// supported by gonum/plot are rendered at the library default resolution.
func SavePlot(p *plot.Plot, path string, opts PlotOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) != ".png" {
		if err := p.Save(opts.Width, opts.Height, path); err != nil {
			return fmt.Errorf("failed to save plot: %w", err)
		}
		return nil
	}

	canvas := vgimg.NewWith(vgimg.UseWH(opts.Width, opts.Height), vgimg.UseDPI(opts.DPI))
	p.Draw(draw.New(canvas))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode plot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close plot file: %w", err)
	}

	slog.Debug("Plot written", "path", path, "dpi", opts.DPI)
	return nil
}
