// Package stats accumulates summary statistics over streams of samples without
// retaining the samples themselves.
//
// The variance is the population variance (divided by the sample count) and the
// confidence half-widths use fixed Gaussian critical values, whatever the sample
// count. Reports written earlier were computed the same way and must stay comparable.
package stats

import (
	"errors"
	"math"
)

const (
	// Z95 is the critical value used for the 95% confidence half-width
	Z95 = 1.96
	// Z99 is the critical value used for the 99% confidence half-width
	Z99 = 2.58
)

// ErrNoSamples is returned when statistics are requested from an accumulator
// that has not seen any sample. Every derived value would be a division by zero.
var ErrNoSamples = errors.New("stats: no samples")

// Accumulator keeps the running count, sum and sum of squares of a sample stream.
// The zero value is an empty accumulator, ready to use.
// It is not safe for concurrent use.
type Accumulator struct {
	count int
	sum   float64
	sumSq float64
}

// Snapshot holds the statistics derived from an Accumulator at one point in time.
type Snapshot struct {
	Count    int
	Mean     float64
	Variance float64 // population variance
	StdDev   float64
	StdErr   float64
	CI95     float64 // half-width of the 95% confidence interval around Mean
	CI99     float64 // half-width of the 99% confidence interval around Mean
}

// Add records one sample
func (a *Accumulator) Add(x float64) {
	a.count++
	a.sum += x
	a.sumSq += x * x
}

// SetData replaces the running totals with precomputed aggregates,
// e.g. to restore state that was summed elsewhere.
func (a *Accumulator) SetData(sum, sumSq float64, count int) {
	a.sum = sum
	a.sumSq = sumSq
	a.count = count
}

// Merge adds the running totals of o, as if all of its samples had been added to a.
func (a *Accumulator) Merge(o Accumulator) {
	a.count += o.count
	a.sum += o.sum
	a.sumSq += o.sumSq
}

// Count returns the number of samples seen so far
func (a Accumulator) Count() int {
	return a.count
}

// Sum returns the running sum
func (a Accumulator) Sum() float64 {
	return a.sum
}

// SumSq returns the running sum of squares
func (a Accumulator) SumSq() float64 {
	return a.sumSq
}

// Stats derives all statistics from the running totals.
// It returns ErrNoSamples when nothing was added.
func (a Accumulator) Stats() (Snapshot, error) {
	if a.count == 0 {
		return Snapshot{}, ErrNoSamples
	}
	n := float64(a.count)
	mean := a.sum / n
	variance := a.sumSq/n - mean*mean
	// cancellation can leave a tiny negative residue for constant streams
	if variance < 0 {
		variance = 0
	}
	stdDev := math.Sqrt(variance)
	stdErr := stdDev / math.Sqrt(n)
	return Snapshot{
		Count:    a.count,
		Mean:     mean,
		Variance: variance,
		StdDev:   stdDev,
		StdErr:   stdErr,
		CI95:     Z95 * stdErr,
		CI99:     Z99 * stdErr,
	}, nil
}

// MustStats is like Stats but panics when there are no samples.
func (a Accumulator) MustStats() Snapshot {
	s, err := a.Stats()
	if err != nil {
		panic(err.Error())
	}
	return s
}

// Lower returns Mean-width
func (s Snapshot) Lower(width float64) float64 {
	return s.Mean - width
}

// Upper returns Mean+width
func (s Snapshot) Upper(width float64) float64 {
	return s.Mean + width
}
