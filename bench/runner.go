package bench

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cbs-sched/schedtools/platform"
	"github.com/cbs-sched/schedtools/report"
	"github.com/cbs-sched/schedtools/stats"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Runner runs tests and writes their data files
type Runner struct {
	Launcher Launcher
	Tools    Tools
	Host     platform.Info
	OutDir   string    // directory of the data files
	Console  io.Writer // receives the banner and the live rows. nil discards them
	Now      func() time.Time

	stats []*Stat
}

func NewRunner(host platform.Info, outDir string) *Runner {
	return &Runner{
		Launcher: ExecLauncher{},
		Tools:    DefaultTools(),
		Host:     host,
		OutDir:   outDir,
		Console:  os.Stdout,
		Now:      time.Now,
	}
}

// Run runs t with 1 up to t.Instances concurrent instances, t.Runs times each.
// Every completed number of instances adds a row to the data file, so an aborted
// test still leaves the rows it completed.
func (r *Runner) Run(ctx context.Context, t Test) (Report, error) {
	ncpu := r.Host.CPUs
	if ncpu <= 0 {
		ncpu = runtime.NumCPU()
	}
	t = t.WithDefaults(ncpu)
	if err := t.Validate(); err != nil {
		return Report{}, err
	}
	console := r.Console
	if console == nil {
		console = ioutil.Discard
	}

	now := r.Now()
	rep := Report{Test: t, DataFile: filepath.Join(r.OutDir, DataFileName(t, now))}
	f, err := os.Create(rep.DataFile)
	if err != nil {
		return rep, err
	}
	defer f.Close()
	log.Infof("running test %s, data in %s", t.Label, rep.DataFile)

	if err := WriteHeader(f, t, r.Host, now); err != nil {
		return rep, fmt.Errorf("failed to write %s: %w", rep.DataFile, err)
	}
	if err := WriteBanner(console, t, r.Host, now); err != nil {
		return rep, err
	}
	fmt.Fprintln(console, consoleHeader())

	stat := NewStat(t.Label)
	r.stats = append(r.stats, stat)
	progress := NewProgress(console)
	defer progress.Done()

	argv := r.Tools.CommandLine(t)
	log.Debugf("test %s launches %q", t.Label, argv)

	for n := 1; n <= t.Instances; n++ {
		accs := make(map[string]*stats.Accumulator, len(Columns))
		for _, c := range Columns {
			accs[c.Label] = &stats.Accumulator{}
		}
		for run := 0; run < t.Runs; run++ {
			progress.Status("%7d ... run %d/%d", n, run+1, t.Runs)
			samples, elapsed, err := r.runOnce(ctx, t, argv, n)
			if err != nil {
				return rep, fmt.Errorf("test %s, %d instances, run %d: %w", t.Label, n, run+1, err)
			}
			for _, s := range samples {
				accs[TaskTime].Add(s.Real)
				accs[Forced].Add(s.Forced)
				accs[Voluntary].Add(s.Voluntary)
				accs[Signals].Add(s.Signals)
				stat.Add(time.Duration(s.Real * float64(time.Second)))
			}
			accs[RunTime].Add(elapsed.Seconds())
		}

		res := Result{Instances: n, Stats: make(map[string]stats.Snapshot, len(Columns))}
		for label, acc := range accs {
			res.Stats[label] = acc.MustStats()
		}
		rep.Results = append(rep.Results, res)

		if _, err := fmt.Fprintln(f, FormatRow(res)); err != nil {
			return rep, fmt.Errorf("failed to write %s: %w", rep.DataFile, err)
		}
		progress.Row(FormatBrief(res))
	}
	return rep, f.Close()
}

// runOnce starts n instances together and waits for all of them.
// The first failure cancels the remaining instances.
func (r *Runner) runOnce(ctx context.Context, t Test, argv []string, n int) ([]Sample, time.Duration, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	samples := make([]Sample, n)
	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			s, err := r.Launcher.Launch(gctx, argv)
			if err != nil {
				return fmt.Errorf("instance %d: %w", i+1, err)
			}
			samples[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return samples, time.Since(start), nil
}

// Report writes the task time distribution of every test run so far
func (r *Runner) Report(w io.Writer) error {
	for _, s := range r.stats {
		if err := s.Report(w); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// RunSuite runs the tests in order, stopping at the first failure.
// The reports of the tests run so far are returned along with the error,
// including the failed one when it completed at least one row.
func (r *Runner) RunSuite(ctx context.Context, tests []Test) ([]Report, error) {
	var reps []Report
	for _, t := range tests {
		rep, err := r.Run(ctx, t)
		if err != nil {
			if len(rep.Results) > 0 {
				reps = append(reps, rep)
			}
			return reps, err
		}
		reps = append(reps, rep)
	}
	return reps, nil
}

// consoleHeader is what Run prints above the live rows
func consoleHeader() string {
	h := report.BriefHeader("insts", Columns)
	return h + "\n" + report.Rule(h)
}
