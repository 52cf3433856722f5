package stats

import (
	"sort"

	"github.com/cbs-sched/schedtools/util"
)

// Set holds one Accumulator per series key (task name, CPU id, test label, ...).
// It is owned by whoever parses the samples and handed by reference to the
// reporting and charting code.
type Set struct {
	accs map[string]*Accumulator
}

// NewSet returns an empty Set
func NewSet() *Set {
	return &Set{
		accs: make(map[string]*Accumulator),
	}
}

// Get returns the accumulator for key, creating it on first use
func (s *Set) Get(key string) *Accumulator {
	acc, ok := s.accs[key]
	if !ok {
		acc = &Accumulator{}
		s.accs[key] = acc
	}
	return acc
}

// Lookup returns the accumulator for key, if any
func (s *Set) Lookup(key string) (*Accumulator, bool) {
	acc, ok := s.accs[key]
	return acc, ok
}

// Add records sample x for the series key
func (s *Set) Add(key string, x float64) {
	s.Get(key).Add(x)
}

// Len returns the number of series
func (s *Set) Len() int {
	return len(s.accs)
}

// Keys returns the series keys in natural order
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.accs))
	for k := range s.accs {
		keys = append(keys, k)
	}
	sort.Sort(util.NaturalSortStringSlice(keys))
	return keys
}

// Total merges all series into a single accumulator
func (s *Set) Total() Accumulator {
	var total Accumulator
	for _, acc := range s.accs {
		total.Merge(*acc)
	}
	return total
}

// Snapshots returns the statistics of every series that has at least one sample.
// Empty series are left out rather than reported as zero.
func (s *Set) Snapshots() map[string]Snapshot {
	out := make(map[string]Snapshot, len(s.accs))
	for k, acc := range s.accs {
		snap, err := acc.Stats()
		if err != nil {
			continue
		}
		out[k] = snap
	}
	return out
}
