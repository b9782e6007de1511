// Package lpplot draws the corner points of an lp.Result.
package lpplot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/njchilds90/indmath/lp"
)

// Minimum visible range; the chart grows past it to fit the corners.
const (
	minXMax = 60
	minYMax = 40
	margin  = 10
	lowest  = -5
)

// Options controls the rendered image.
type Options struct {
	Width  vg.Length
	Height vg.Length
	// Format is any format accepted by plot.WriterTo, e.g. "svg" or "png".
	Format string
}

// DefaultOptions renders a 6x4 inch SVG.
func DefaultOptions() Options {
	return Options{Width: 6 * vg.Inch, Height: 4 * vg.Inch, Format: "svg"}
}

// Bounds are the axis limits of the chart.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
}

// AxisBounds returns x in [-5, max(60, X3+10)] and y in [-5, max(40, Y2+10)],
// lowering the minimum when a corner coordinate is negative.
func AxisBounds(in lp.Input) Bounds {
	x3, y2 := finiteOr(in.X3, 0), finiteOr(in.Y2, 0)
	b := Bounds{
		XMin: lowest, XMax: math.Max(minXMax, x3+margin),
		YMin: lowest, YMax: math.Max(minYMax, y2+margin),
	}
	b.XMin += math.Min(0, x3)
	b.YMin += math.Min(0, y2)
	return b
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// Render draws the three corners, labelled with their coordinates, and a
// dashed line from P2 to P3.
func Render(w io.Writer, in lp.Input, res lp.Result, opts Options) error {
	p := plot.New()
	p.Title.Text = "Corner points and objective line"
	p.X.Label.Text = "X (blenders)"
	p.Y.Label.Text = "Y (toasters)"

	pts := make(plotter.XYs, len(res.Vertices))
	labels := make([]string, len(res.Vertices))
	for i, v := range res.Vertices {
		pts[i].X = finiteOr(v.Point.X, 0)
		pts[i].Y = finiteOr(v.Point.Y, 0)
		labels[i] = " " + v.Point.String()
	}

	corners, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("corner scatter: %w", err)
	}
	corners.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	corners.GlyphStyle.Shape = draw.CircleGlyph{}
	corners.GlyphStyle.Radius = vg.Points(3)

	line, err := plotter.NewLine(plotter.XYs{pts[1], pts[2]})
	if err != nil {
		return fmt.Errorf("objective line: %w", err)
	}
	line.LineStyle.Color = color.RGBA{R: 255, A: 255}
	line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	text, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return fmt.Errorf("corner labels: %w", err)
	}

	p.Add(corners, line, text)
	p.Legend.Add("Corner points", corners)
	p.Legend.Add("Objective line", line)

	b := AxisBounds(in)
	p.X.Min, p.X.Max = b.XMin, b.XMax
	p.Y.Min, p.Y.Max = b.YMin, b.YMax

	wt, err := p.WriterTo(opts.Width, opts.Height, opts.Format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	return nil
}
