// Package trace reads the whitespace-delimited record files written by the CBS
// scheduler instrumentation (rounds, bursts, latencies, migrations) into tables
// keyed by task name or CPU id.
package trace

import (
	"fmt"
	"sort"
)

// NoKey marks a layout whose records all belong to a single series
const NoKey = -1

// Metric describes one numeric column of a record
type Metric struct {
	Label       string // short identifier used on the command line and in code
	Name        string // display name
	Description string
	Column      int // zero-based field index in the record
}

// Layout describes which fields of a record hold which metric.
// Field 0 always holds the record tag.
type Layout struct {
	Name      string
	Tag       string // expected value of field 0, e.g. "Burst". empty accepts any
	KeyColumn int    // field holding the series key, or NoKey
	KeyName   string // what the key denotes, e.g. "Task" or "CPU"
	TimeLabel string // label of the metric used as x axis
	Metrics   []Metric
}

// Index returns the position of metric label within the layout's metrics, or -1
func (l Layout) Index(label string) int {
	for i, m := range l.Metrics {
		if m.Label == label {
			return i
		}
	}
	return -1
}

// Metric returns the metric with the given label
func (l Layout) Metric(label string) (Metric, bool) {
	i := l.Index(label)
	if i < 0 {
		return Metric{}, false
	}
	return l.Metrics[i], true
}

// Labels returns the labels of all metrics, in layout order
func (l Layout) Labels() []string {
	out := make([]string, len(l.Metrics))
	for i, m := range l.Metrics {
		out[i] = m.Label
	}
	return out
}

// minFields returns how many fields a record needs to satisfy the layout
func (l Layout) minFields() int {
	max := l.KeyColumn
	for _, m := range l.Metrics {
		if m.Column > max {
			max = m.Column
		}
	}
	return max + 1
}

// Validate checks the layout for duplicate labels, bad columns and a missing time metric
func (l Layout) Validate() error {
	if len(l.Metrics) == 0 {
		return fmt.Errorf("layout %q: no metrics", l.Name)
	}
	seen := make(map[string]struct{}, len(l.Metrics))
	for _, m := range l.Metrics {
		if m.Label == "" {
			return fmt.Errorf("layout %q: metric without label", l.Name)
		}
		if _, ok := seen[m.Label]; ok {
			return fmt.Errorf("layout %q: duplicate metric %q", l.Name, m.Label)
		}
		seen[m.Label] = struct{}{}
		if m.Column < 1 {
			return fmt.Errorf("layout %q: metric %q: column must be >= 1, got %d", l.Name, m.Label, m.Column)
		}
		if m.Column == l.KeyColumn {
			return fmt.Errorf("layout %q: metric %q reads the key column %d", l.Name, m.Label, m.Column)
		}
	}
	if l.KeyColumn != NoKey && l.KeyColumn < 1 {
		return fmt.Errorf("layout %q: key column must be >= 1 or %d, got %d", l.Name, NoKey, l.KeyColumn)
	}
	if l.Index(l.TimeLabel) < 0 {
		return fmt.Errorf("layout %q: time metric %q not defined", l.Name, l.TimeLabel)
	}
	return nil
}

func (l Layout) clone() Layout {
	c := l
	c.Metrics = append([]Metric(nil), l.Metrics...)
	return c
}

// Layouts is a set of named layouts
type Layouts map[string]Layout

// Get returns the named layout
func (ls Layouts) Get(name string) (Layout, error) {
	l, ok := ls[name]
	if !ok {
		return Layout{}, fmt.Errorf("unknown layout %q", name)
	}
	return l, nil
}

// Names returns the layout names, sorted
func (ls Layouts) Names() []string {
	names := make([]string, 0, len(ls))
	for n := range ls {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultLayouts returns the layouts of the records written by the scheduler trace points
func DefaultLayouts() Layouts {
	ls := Layouts{
		"rounds": {
			Name:      "rounds",
			Tag:       "Round",
			KeyColumn: NoKey,
			TimeLabel: "Time",
			Metrics: []Metric{
				{"Time", "Time [s]", "Workload completion time [s]", 1},
				{"RQ_time", "RQ run time", "", 2},
				{"Lw_prev", "RQ weight (previous)", "", 3},
				{"Rt_prev", "Round time", "", 4},
				{"Re_prev", "Round error", "", 6},
				{"Nr_next", "SE next round", "", 8},
				{"Lw_next", "RQ weight (next)", "", 9},
				{"Sp_next", "Round time SP", "", 10},
				{"Co_next", "Round correction", "", 12},
				{"Cd_next", "Round correction old", "", 13},
				{"Rt_next", "Round time next", "", 14},
				{"Rt_start", "Round time start", "", 15},
				{"Rt_end", "Round time (exp) end", "", 16},
			},
		},
		"bursts": {
			Name:      "bursts",
			Tag:       "Burst",
			KeyColumn: 1,
			KeyName:   "Task",
			TimeLabel: "Time",
			Metrics: []Metric{
				{"Time", "Time [s]", "Burst completion time [s]", 2},
				{"Tr_quota", "Round quota", "", 5},
				{"Tb_sp", "Burst SP", "", 7},
				{"Tb_error", "Burst error", "", 8},
				{"Tb_next", "Burst next", "", 9},
				{"Tb_timer", "Burst assigned", "", 10},
				{"Tb", "Burst measured", "", 12},
				{"Tb_start", "Burst time start", "", 13},
				{"Tb_stop", "Burst time (exp) end", "", 14},
			},
		},
		"latencies": {
			Name:      "latencies",
			KeyColumn: 1,
			KeyName:   "Task",
			TimeLabel: "Time",
			Metrics: []Metric{
				{"Time", "Time [s]", "Burst completion time [s]", 2},
				{"Delay", "Delay [ns]", "Ready task RQ delay [ns]", 3},
				{"Slice", "Slice [ns]", "Running task CPU slice [ns]", 4},
			},
		},
		"migrations": {
			Name:      "migrations",
			KeyColumn: 1,
			KeyName:   "CPU",
			TimeLabel: "Time",
			Metrics: []Metric{
				{"Time", "Time [s]", "Migration time [s]", 2},
				{"Src", "Source CPU", "CPU the task was pulled from", 3},
				{"Dst", "Destination CPU", "CPU the task was pushed to", 4},
				{"Delay", "Delay [ns]", "Migration delay [ns]", 5},
			},
		},
	}

	// the single-file tool predates the SETime split and writes one field less
	v1 := ls["bursts"].clone()
	v1.Name = "bursts-v1"
	for i := range v1.Metrics {
		switch v1.Metrics[i].Label {
		case "Tb":
			v1.Metrics[i].Column = 11
		case "Tb_start":
			v1.Metrics[i].Column = 12
		case "Tb_stop":
			v1.Metrics[i].Column = 13
		}
	}
	ls[v1.Name] = v1
	return ls
}
