package chart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/cbs-sched/schedtools/trace"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// latency axes are clamped to this range, in ns
const (
	minLatency = 1
	maxLatency = 1e9
)

// series is one metric of one key, on a time axis relative to the start of the trace
type series struct {
	name string
	x, y []float64
}

func column(t *trace.Table, key, label string) (series, error) {
	y, ok := t.Column(key, label)
	if !ok {
		return series{}, fmt.Errorf("layout %q has no metric %q", t.Layout.Name, label)
	}
	start := t.Start()
	raw := t.Time(key)
	x := make([]float64, len(raw))
	for i, v := range raw {
		x[i] = v - start
	}
	name := label
	if m, ok := t.Layout.Metric(label); ok && m.Name != "" {
		name = m.Name
	}
	return series{name: name, x: x, y: y}, nil
}

func timeLabel(t *trace.Table) string {
	if m, ok := t.Layout.Metric(t.Layout.TimeLabel); ok && m.Name != "" {
		return m.Name
	}
	return t.Layout.TimeLabel
}

// panelOf builds one panel with a line per label.
// A nil colour picks the colour of the series key.
func panelOf(t *trace.Table, key, title, yLabel string, labels []string, colors []color.Color, o Options) (*plot.Plot, error) {
	p := newPanel(title, timeLabel(t), yLabel, o)
	for i, label := range labels {
		s, err := column(t, key, label)
		if err != nil {
			return nil, err
		}
		c := colors[i]
		if c == nil {
			c = colorFor(key)
		}
		if err := addLine(p, s.name, s.x, s.y, c, o); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func keyTitle(t *trace.Table, key string) string {
	if key == "" {
		return ""
	}
	name := t.Layout.KeyName
	if name == "" {
		name = "Key"
	}
	return fmt.Sprintf("%s %s", name, key)
}

func checkEmpty(t *trace.Table) error {
	if t.Len() == 0 {
		return fmt.Errorf("%s: no %s records", t.Source, t.Layout.Name)
	}
	return nil
}

// Rounds draws the round time set point against the measured round time,
// the round error and the round correction, stacked over a shared time axis.
func Rounds(t *trace.Table, path string, o Options) error {
	if err := checkEmpty(t); err != nil {
		return err
	}
	key := t.Keys()[0]
	top, err := panelOf(t, key, "Round time", "[tq]", []string{"Sp_next", "Rt_prev"}, []color.Color{green, blue}, o)
	if err != nil {
		return err
	}
	mid, err := panelOf(t, key, "Round error", "[tq]", []string{"Re_prev"}, []color.Color{red}, o)
	if err != nil {
		return err
	}
	bottom, err := panelOf(t, key, "Round correction", "[tq]", []string{"Co_next"}, []color.Color{red}, o)
	if err != nil {
		return err
	}
	return render(path, o.Width, 3*o.RowSize, func(dc draw.Canvas) error {
		stack(dc, []*plot.Plot{top, mid, bottom}, []float64{2, 1, 1})
		return nil
	})
}

// Bursts draws, per task, the burst set point against the measured burst and the
// burst error against the next burst.
func Bursts(t *trace.Table, path string, o Options) error {
	if err := checkEmpty(t); err != nil {
		return err
	}
	var rows [][]*plot.Plot
	for _, key := range t.Keys() {
		left, err := panelOf(t, key, keyTitle(t, key), "[tq]", []string{"Tb_sp", "Tb"}, []color.Color{green, nil}, o)
		if err != nil {
			return err
		}
		right, err := panelOf(t, key, keyTitle(t, key), "[tq]", []string{"Tb_error", "Tb_next"}, []color.Color{red, blue}, o)
		if err != nil {
			return err
		}
		rows = append(rows, []*plot.Plot{left, right})
	}
	return render(path, o.Width, rowsHeight(len(rows), o), func(dc draw.Canvas) error {
		grid(dc, rows)
		return nil
	})
}

// Latencies draws, per task, the run queue delays and the CPU slices as scatter plots
// on a logarithmic axis.
func Latencies(t *trace.Table, path string, o Options) error {
	if err := checkEmpty(t); err != nil {
		return err
	}
	var rows [][]*plot.Plot
	for _, key := range t.Keys() {
		p := newPanel(keyTitle(t, key), timeLabel(t), "[ns]", o)
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Y.Min, p.Y.Max = minLatency, maxLatency

		for i, label := range []string{"Delay", "Slice"} {
			s, err := column(t, key, label)
			if err != nil {
				return err
			}
			clampLatencies(s.y)
			if err := addScatter(p, s.name, s.x, s.y, []color.Color{red, blue}[i], o); err != nil {
				return err
			}
		}
		// scatter ranges would widen the axis again
		p.Y.Min, p.Y.Max = minLatency, maxLatency
		rows = append(rows, []*plot.Plot{p})
	}
	return render(path, o.Width, rowsHeight(len(rows), o), func(dc draw.Canvas) error {
		grid(dc, rows)
		return nil
	})
}

// Migrations draws, per CPU, the migration delays as a scatter plot.
func Migrations(t *trace.Table, path string, o Options) error {
	if err := checkEmpty(t); err != nil {
		return err
	}
	var rows [][]*plot.Plot
	for _, key := range t.Keys() {
		p := newPanel(keyTitle(t, key), timeLabel(t), "[ns]", o)
		s, err := column(t, key, "Delay")
		if err != nil {
			return err
		}
		if err := addScatter(p, s.name, s.x, s.y, colorFor(key), o); err != nil {
			return err
		}
		rows = append(rows, []*plot.Plot{p})
	}
	return render(path, o.Width, rowsHeight(len(rows), o), func(dc draw.Canvas) error {
		grid(dc, rows)
		return nil
	})
}

// clampLatencies keeps values inside the plotted range; the log scale cannot show 0
func clampLatencies(v []float64) {
	for i := range v {
		v[i] = math.Max(minLatency, math.Min(maxLatency, v[i]))
	}
}

func rowsHeight(n int, o Options) vg.Length {
	h := vg.Length(n) * o.RowSize
	if min := 2 * o.RowSize; h < min {
		return min
	}
	return h
}
