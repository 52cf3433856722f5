package bench

import (
	"github.com/cbs-sched/schedtools/report"
	"github.com/cbs-sched/schedtools/stats"
)

// Metric labels of a benchmark row
const (
	TaskTime  = "tt" // per instance elapsed time [s]
	RunTime   = "rt" // wall time of a whole run [s]
	Forced    = "tf" // involuntary context switches per instance
	Voluntary = "tv" // voluntary context switches per instance
	Signals   = "ts" // signals delivered per instance
)

// Columns are the metrics of a data file row, in order
var Columns = []report.Column{
	{Label: TaskTime, Precision: report.Seconds},
	{Label: RunTime, Precision: report.Seconds},
	{Label: Forced, Precision: report.Counts},
	{Label: Voluntary, Precision: report.Counts},
	{Label: Signals, Precision: report.Counts},
}

// Result holds the statistics of all runs with the same number of instances
type Result struct {
	Instances int
	Stats     map[string]stats.Snapshot
}

// Unfairness returns 1 - tt/rt: how far the average instance finished ahead of
// the whole run. 0 means every instance got an even share.
func (r Result) Unfairness() float64 {
	rt := r.Stats[RunTime].Mean
	if rt == 0 {
		return 0
	}
	return 1 - r.Stats[TaskTime].Mean/rt
}

// Report is the outcome of one test
type Report struct {
	Test     Test
	DataFile string
	Results  []Result
}

// Last returns the result with the most instances
func (r Report) Last() (Result, bool) {
	if len(r.Results) == 0 {
		return Result{}, false
	}
	return r.Results[len(r.Results)-1], true
}
