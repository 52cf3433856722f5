package trace

import (
	"sort"

	"github.com/cbs-sched/schedtools/stats"
	"github.com/cbs-sched/schedtools/util"
)

// Row holds the values of one record, in the order of its layout's metrics
type Row []float64

// Table holds the records of one trace file grouped by series key, in file order.
// Layouts without a key column put every record under the empty key.
type Table struct {
	Layout  Layout
	Source  string // file the records were read from, if any
	Skipped int    // records ignored because their tag did not match the layout

	rows  map[string][]Row
	start float64
	empty bool
}

func newTable(layout Layout, source string) *Table {
	return &Table{
		Layout: layout,
		Source: source,
		rows:   make(map[string][]Row),
		empty:  true,
	}
}

func (t *Table) append(key string, row Row) {
	if t.empty {
		t.start = row[t.Layout.Index(t.Layout.TimeLabel)]
		t.empty = false
	}
	t.rows[key] = append(t.rows[key], row)
}

// Keys returns the series keys in natural order
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Sort(util.NaturalSortStringSlice(keys))
	return keys
}

// Len returns the total number of records
func (t *Table) Len() int {
	n := 0
	for _, rows := range t.rows {
		n += len(rows)
	}
	return n
}

// Rows returns the records of series key
func (t *Table) Rows(key string) []Row {
	return t.rows[key]
}

// Column returns the values of metric label for series key.
// ok is false when the layout has no such metric.
func (t *Table) Column(key, label string) (values []float64, ok bool) {
	idx := t.Layout.Index(label)
	if idx < 0 {
		return nil, false
	}
	rows := t.rows[key]
	values = make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r[idx]
	}
	return values, true
}

// Time returns the x axis values of series key
func (t *Table) Time(key string) []float64 {
	values, _ := t.Column(key, t.Layout.TimeLabel)
	return values
}

// Start returns the time of the first record in the file, or 0 for an empty table
func (t *Table) Start() float64 {
	return t.start
}

// Summarize accumulates the given metrics of every series.
// The result holds one Set per metric label, each with one accumulator per key.
// Labels unknown to the layout are ignored.
func Summarize(t *Table, labels []string) map[string]*stats.Set {
	out := make(map[string]*stats.Set, len(labels))
	for _, label := range labels {
		idx := t.Layout.Index(label)
		if idx < 0 {
			continue
		}
		set := stats.NewSet()
		for key, rows := range t.rows {
			acc := set.Get(key)
			for _, r := range rows {
				acc.Add(r[idx])
			}
		}
		out[label] = set
	}
	return out
}
