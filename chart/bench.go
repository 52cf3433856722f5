package chart

import (
	"fmt"
	"image/color"

	"github.com/cbs-sched/schedtools/bench"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// errorPoints are the averages of one metric with their 99% confidence
type errorPoints struct {
	xys  plotter.XYs
	errs []float64
}

func (e errorPoints) Len() int { return len(e.xys) }

func (e errorPoints) XY(i int) (float64, float64) { return e.xys[i].X, e.xys[i].Y }

func (e errorPoints) YError(i int) (float64, float64) { return e.errs[i], e.errs[i] }

func metricPoints(results []bench.Result, label string) errorPoints {
	pts := errorPoints{
		xys:  make(plotter.XYs, len(results)),
		errs: make([]float64, len(results)),
	}
	for i, r := range results {
		s := r.Stats[label]
		pts.xys[i].X = float64(r.Instances)
		pts.xys[i].Y = s.Mean
		pts.errs[i] = s.CI99
	}
	return pts
}

// Benchmark draws the task and run times of a benchmark report against the number
// of instances, with their 99% confidence as error bars, above the unfairness
// index of every number of instances.
func Benchmark(rep bench.Report, path string, o Options) error {
	if len(rep.Results) == 0 {
		return fmt.Errorf("%s: no results", rep.DataFile)
	}
	title := rep.Test.Label
	if rep.Test.Policy != "" {
		title = fmt.Sprintf("%s (%s)", title, rep.Test.Policy)
	}

	times := newPanel(title, "Instances", "[s]", o)
	for _, m := range []struct {
		label, name string
		c           color.Color
	}{
		{bench.TaskTime, "Task time", blue},
		{bench.RunTime, "Run time", red},
	} {
		pts := metricPoints(rep.Results, m.label)
		l, s, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
		l.Color = m.c
		s.GlyphStyle.Color = m.c
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		bars, err := plotter.NewYErrorBars(pts)
		if err != nil {
			return fmt.Errorf("%s: %w", m.name, err)
		}
		bars.LineStyle.Color = m.c
		times.Add(l, s, bars)
		times.Legend.Add(m.name, l, s)
	}

	fairness := newPanel("Unfairness index (1 - tt/rt)", "Instances", "", o)
	for _, r := range rep.Results {
		bar, err := plotter.NewBarChart(plotter.Values{r.Unfairness()}, vg.Points(8))
		if err != nil {
			return err
		}
		bar.XMin = float64(r.Instances)
		bar.Color = colorFor(rep.Test.Label)
		bar.LineStyle.Color = gray
		fairness.Add(bar)
	}

	return render(path, o.Width, 2*o.RowSize, func(dc draw.Canvas) error {
		stack(dc, []*plot.Plot{times, fairness}, []float64{2, 1})
		return nil
	})
}
