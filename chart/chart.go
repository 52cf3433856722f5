// Package chart renders trace tables and benchmark results with gonum/plot.
// The output format follows the file extension of the target path (pdf, svg, png, ...).
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/cbs-sched/schedtools/stats"
	"github.com/cespare/xxhash"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"
)

// Band selects the shaded area drawn around the mean of a series
type Band int

const (
	BandNone Band = iota
	BandStdDev
	BandCI99
)

// ParseBand parses none|stddev|ci99
func ParseBand(s string) (Band, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return BandNone, nil
	case "stddev", "std":
		return BandStdDev, nil
	case "ci99", "c99":
		return BandCI99, nil
	}
	return BandNone, fmt.Errorf("unknown band %q, must be one of none|stddev|ci99", s)
}

func (b Band) String() string {
	switch b {
	case BandStdDev:
		return "stddev"
	case BandCI99:
		return "ci99"
	}
	return "none"
}

func (b Band) width(s stats.Snapshot) float64 {
	switch b {
	case BandStdDev:
		return s.StdDev
	case BandCI99:
		return s.CI99
	}
	return 0
}

// Options tune all figures
type Options struct {
	Band     Band      // shaded area around each series mean
	Mean     bool      // draw the mean of each series as a dashed line
	FontSize vg.Length // size of titles, labels and legends
	Width    vg.Length // figure width
	RowSize  vg.Length // height of one row of panels
}

// DefaultOptions matches the layout of the historical figures
func DefaultOptions() Options {
	return Options{
		Band:     BandNone,
		FontSize: vg.Points(10),
		Width:    12 * vg.Inch,
		RowSize:  2.4 * vg.Inch,
	}
}

var (
	red   = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	blue  = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	green = color.RGBA{R: 40, G: 160, B: 60, A: 255}
	gray  = color.Gray{Y: 96}
)

var keyPalette = mustPalette("Set1", 9)

func mustPalette(name string, n int) []color.Color {
	p, err := brewer.GetPalette(brewer.TypeQualitative, name, n)
	if err != nil {
		panic(fmt.Sprintf("chart: palette %s: %s", name, err))
	}
	return p.Colors()
}

// colorFor returns a colour for a series key that is stable across figures and runs
func colorFor(key string) color.Color {
	return keyPalette[xxhash.Sum64String(key)%uint64(len(keyPalette))]
}

// translucent returns c with its alpha scaled down, for shaded bands
func translucent(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	const alpha = 48
	// premultiplied: scale the channels with the alpha
	return color.RGBA{
		R: uint8((r >> 8) * alpha / 255),
		G: uint8((g >> 8) * alpha / 255),
		B: uint8((b >> 8) * alpha / 255),
		A: alpha,
	}
}

// newPanel returns a plot with the common styling applied
func newPanel(title, xLabel, yLabel string, o Options) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	size := o.FontSize
	if size == 0 {
		size = vg.Points(10)
	}
	p.Title.TextStyle.Font.Size = size
	p.X.Label.TextStyle.Font.Size = size
	p.Y.Label.TextStyle.Font.Size = size
	p.X.Tick.Label.Font.Size = size
	p.Y.Tick.Label.Font.Size = size
	p.Legend.TextStyle.Font.Size = size
	p.Legend.Top = true
	return p
}

func xys(x, y []float64) plotter.XYs {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}

// addLine plots y over x and registers it in the legend
func addLine(p *plot.Plot, name string, x, y []float64, c color.Color, o Options) error {
	l, err := plotter.NewLine(xys(x, y))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	l.Color = c
	l.Width = vg.Points(1)
	p.Add(l)
	p.Legend.Add(name, l)
	return addSummary(p, x, y, c, o)
}

// addScatter plots y over x as '+' glyphs and registers it in the legend
func addScatter(p *plot.Plot, name string, x, y []float64, c color.Color, o Options) error {
	s, err := plotter.NewScatter(xys(x, y))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	s.GlyphStyle.Shape = draw.PlusGlyph{}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Radius = vg.Points(2)
	p.Add(s)
	p.Legend.Add(name, s)
	return addSummary(p, x, y, c, o)
}

// addSummary overlays the mean of y and the configured band around it.
// Series without samples get nothing.
func addSummary(p *plot.Plot, x, y []float64, c color.Color, o Options) error {
	if len(x) == 0 || len(y) == 0 || (!o.Mean && o.Band == BandNone) {
		return nil
	}
	var acc stats.Accumulator
	for _, v := range y {
		acc.Add(v)
	}
	snap := acc.MustStats()
	x0, x1 := x[0], x[len(x)-1]

	if w := o.Band.width(snap); o.Band != BandNone && w > 0 {
		lo, hi := snap.Lower(w), snap.Upper(w)
		if _, ok := p.Y.Scale.(plot.LogScale); ok && lo < minLatency {
			lo = minLatency
		}
		band, err := plotter.NewPolygon(plotter.XYs{{X: x0, Y: lo}, {X: x1, Y: lo}, {X: x1, Y: hi}, {X: x0, Y: hi}})
		if err != nil {
			return err
		}
		band.Color = translucent(c)
		band.LineStyle.Width = 0
		p.Add(band)
	}
	if o.Mean {
		mean, err := plotter.NewLine(plotter.XYs{{X: x0, Y: snap.Mean}, {X: x1, Y: snap.Mean}})
		if err != nil {
			return err
		}
		mean.Color = c
		mean.Width = vg.Points(0.8)
		mean.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(mean)
	}
	return nil
}

// render draws onto a canvas sized w by h and writes it to path
func render(path string, w, h vg.Length, fn func(dc draw.Canvas) error) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if format == "" {
		return fmt.Errorf("%s: cannot infer the figure format without an extension", path)
	}
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := fn(draw.New(c)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// stack draws plots on top of each other, each taking a share of the height
// proportional to its weight
func stack(dc draw.Canvas, plots []*plot.Plot, weights []float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	height := dc.Max.Y - dc.Min.Y
	top := vg.Length(0)
	for i, p := range plots {
		h := height * vg.Length(weights[i]/total)
		// Crop moves the bottom edge up and the top edge down
		c := draw.Crop(dc, 0, 0, height-top-h, -top)
		p.Draw(c)
		top += h
	}
}

// grid draws rows of plots, all panels the same size
func grid(dc draw.Canvas, rows [][]*plot.Plot) {
	if len(rows) == 0 {
		return
	}
	t := draw.Tiles{
		Rows:      len(rows),
		Cols:      len(rows[0]),
		PadX:      vg.Millimeter * 8,
		PadY:      vg.Millimeter * 8,
		PadTop:    vg.Millimeter * 4,
		PadBottom: vg.Millimeter * 4,
		PadLeft:   vg.Millimeter * 4,
		PadRight:  vg.Millimeter * 4,
	}
	canvases := plot.Align(rows, t, dc)
	for i := range rows {
		for j, p := range rows[i] {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}
}
