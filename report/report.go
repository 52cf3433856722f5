// Package report renders statistics snapshots as fixed-width text, both the
// condensed console form (average and 99% confidence per metric) and the full
// six-statistics rows of benchmark data files.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cbs-sched/schedtools/stats"
	"github.com/cbs-sched/schedtools/util"
)

// Precision of the printed statistics
const (
	Seconds = 9 // timings, in seconds
	Counts  = 1 // event counters
	Nanos   = 1 // trace values, in ns or scheduler time quanta
)

// Column is one metric of a data row
type Column struct {
	Label     string
	Precision int
}

// statNames is the order of the statistics in a full row
var statNames = []string{"avg", "var", "std", "ste", "c95", "c99"}

// FullHeader returns the header of a data file with one leading integer column
// named first, followed by the six statistics of every column.
func FullHeader(first string, cols []Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %5.5s", first)
	for _, c := range cols {
		fmt.Fprintf(&b, " %8.7s_%s", c.Label, statNames[0])
		for _, s := range statNames[1:] {
			fmt.Fprintf(&b, " %7.6s_%s", c.Label, s)
		}
	}
	return b.String()
}

// BriefHeader returns the console header: average and 99% confidence per column
func BriefHeader(first string, cols []Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %5.5s", first)
	for _, c := range cols {
		fmt.Fprintf(&b, " %8.7s_avg %7.6s_c99", c.Label, c.Label)
	}
	return b.String()
}

// Rule returns a '#' rule as wide as header
func Rule(header string) string {
	if len(header) < 2 {
		return "#"
	}
	return "#" + strings.Repeat("=", len(header)-1)
}

// Full formats all six statistics of s
func Full(s stats.Snapshot, precision int) string {
	p := precision
	return fmt.Sprintf("%12.*f %11.*f %11.*f %11.*f %11.*f %11.*f ",
		p, s.Mean, p, s.Variance, p, s.StdDev, p, s.StdErr, p, s.CI95, p, s.CI99)
}

// Brief formats the average and 99% confidence of s
func Brief(s stats.Snapshot, precision int) string {
	return fmt.Sprintf("%12.*f %11.*f ", precision, s.Mean, precision, s.CI99)
}

// Field is one line of a banner
type Field struct {
	Key   string
	Value interface{}
}

// WriteBanner writes fields as "# key : value" comment lines, framed by rules
func WriteBanner(w io.Writer, fields []Field) error {
	rule := "#" + strings.Repeat("#", 79)
	if _, err := fmt.Fprintln(w, rule); err != nil {
		return err
	}
	for _, f := range fields {
		var err error
		if f.Key == "" {
			_, err = fmt.Fprintf(w, "#    %v\n", f.Value)
		} else {
			_, err = fmt.Fprintf(w, "# %-22s : %v\n", f.Key, f.Value)
		}
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "#")
	return err
}

// AllKey names the summary row merging every series
const AllKey = "(all)"

// WriteSummary writes one line per series key with the average and 99% confidence
// of every metric in labels. sums maps a metric label to its per-key accumulators,
// as returned by trace.Summarize. A series with no samples for a metric shows "-".
// With more than one series, a last AllKey row summarizes all samples together.
func WriteSummary(w io.Writer, keyName string, labels []string, sums map[string]*stats.Set, precision int) error {
	keys := summaryKeys(sums)
	width := len(keyName)
	if len(keys) > 1 {
		width = len(AllKey)
	}
	for _, k := range keys {
		if len(k) > width {
			width = len(k)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %-*s", width, keyName)
	for _, l := range labels {
		fmt.Fprintf(&b, " %12.12s %11.11s", l+"_avg", l+"_c99")
	}
	header := b.String()
	if _, err := fmt.Fprintf(w, "%s\n%s\n", header, Rule(header)); err != nil {
		return err
	}

	snaps := make(map[string]map[string]stats.Snapshot, len(labels))
	for _, l := range labels {
		if set := sums[l]; set != nil {
			snaps[l] = set.Snapshots()
		}
	}
	writeRow := func(name string, lookup func(label string) (stats.Snapshot, bool)) error {
		b.Reset()
		fmt.Fprintf(&b, "  %-*s", width, name)
		for _, l := range labels {
			snap, ok := lookup(l)
			if !ok {
				fmt.Fprintf(&b, " %12s %11s", "-", "-")
				continue
			}
			fmt.Fprintf(&b, " %12.*f %11.*f", precision, snap.Mean, precision, snap.CI99)
		}
		_, err := fmt.Fprintln(w, b.String())
		return err
	}

	for _, k := range keys {
		name := k
		if name == "" {
			name = "*"
		}
		err := writeRow(name, func(label string) (stats.Snapshot, bool) {
			snap, ok := snaps[label][k]
			return snap, ok
		})
		if err != nil {
			return err
		}
	}
	if len(keys) < 2 {
		return nil
	}
	return writeRow(AllKey, func(label string) (stats.Snapshot, bool) {
		set := sums[label]
		if set == nil {
			return stats.Snapshot{}, false
		}
		snap, err := set.Total().Stats()
		return snap, err == nil
	})
}

func summaryKeys(sums map[string]*stats.Set) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, set := range sums {
		for _, k := range set.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Sort(util.NaturalSortStringSlice(keys))
	return keys
}
