package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/cbs-sched/schedtools/bench"
	"github.com/cbs-sched/schedtools/chart"
	"github.com/cbs-sched/schedtools/conf"
	"github.com/cbs-sched/schedtools/logger"
	"github.com/cbs-sched/schedtools/platform"
	"github.com/cbs-sched/schedtools/trace"
	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
)

func main() {
	flags := NewFlags()
	flags.Parse(os.Args[1:])

	if err := logger.Configure("sched-bench", flags.LogLevel, nil); err != nil {
		log.Fatalf("failed to parse log-level %q: %s", flags.LogLevel, err.Error())
	}

	if flags.Plot {
		if err := plot(flags, flags.Args()); err != nil {
			log.Fatal(err.Error())
		}
		return
	}

	suite, err := loadSuite(flags)
	if err != nil {
		log.Fatal(err.Error())
	}

	host, err := platform.Describe(flags.ProcRoot, flags.SysRoot)
	if err != nil {
		log.Warnf("failed to describe the host, reports will lack its details: %s", err.Error())
		host = platform.Info{CPUs: runtime.NumCPU()}
	}
	if flags.Verbose {
		spew.Dump(host, suite)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-sigChan
		log.Infof("Received signal %q. Shutting down", sig)
		cancel()
	}()

	restore := switchGovernor(ctx, flags, host)

	runner := bench.NewRunner(host, flags.OutDir)
	reports, runErr := runner.RunSuite(ctx, suite)
	restore()
	cancel()

	if err := runner.Report(os.Stdout); err != nil {
		log.Errorf("failed to write the report: %s", err.Error())
	}
	if flags.Textfile != "" && len(reports) > 0 {
		if err := bench.ExportTextfile(flags.Textfile, reports); err != nil {
			log.Errorf("failed to export to %s: %s", flags.Textfile, err.Error())
		} else {
			log.Infof("results exported to %s", flags.Textfile)
		}
	}
	if flags.Format != "" {
		var files []string
		for _, rep := range reports {
			files = append(files, rep.DataFile)
		}
		if err := plot(flags, files); err != nil {
			log.Error(err.Error())
		}
	}

	if runErr != nil {
		log.Fatal(runErr.Error())
	}
}

// loadSuite reads the suite and applies the command line overrides
func loadSuite(flags *Flags) (conf.Suite, error) {
	suite := conf.DefaultSuite()
	if flags.Suite != "" {
		var err error
		suite, err = conf.ReadSuite(flags.Suite)
		if err != nil {
			return nil, err
		}
	}
	if labels := flags.TestLabels(); len(labels) > 0 {
		var err error
		suite, err = suite.Select(labels)
		if err != nil {
			return nil, err
		}
	}
	for i := range suite {
		if flags.Runs > 0 {
			suite[i].Runs = flags.Runs
		}
		if flags.Instances > 0 {
			suite[i].Instances = flags.Instances
		}
		if flags.CBS {
			suite[i].Policy = bench.CBS
		}
		if !flags.TargetCPUs.Empty() {
			suite[i].TargetCPUs = flags.TargetCPUs
		}
	}
	return suite, nil
}

// switchGovernor selects the configured cpufreq governor and returns the function
// restoring the previous one. Without root privileges it only warns.
func switchGovernor(ctx context.Context, flags *Flags, host platform.Info) func() {
	noop := func() {}
	if flags.Governor == "" || flags.Governor == host.Governor {
		return noop
	}
	if host.Governor == "" {
		log.Warnf("no cpufreq support, governor %q not set", flags.Governor)
		return noop
	}
	if os.Geteuid() != 0 {
		log.Warnf("not running as root, keeping governor %q instead of %q", host.Governor, flags.Governor)
		return noop
	}
	gov := platform.NewGovernor(host.CPUs)
	if err := gov.Set(ctx, flags.Governor); err != nil {
		log.Warnf("keeping governor %q: %s", host.Governor, err.Error())
		return noop
	}
	log.Infof("governor %q selected, was %q", flags.Governor, host.Governor)
	return func() {
		// ctx may be cancelled by now
		if err := gov.Set(context.Background(), host.Governor); err != nil {
			log.Errorf("failed to restore governor %q: %s", host.Governor, err.Error())
		}
	}
}

// plot renders one benchmark figure per data file, next to it
func plot(flags *Flags, files []string) error {
	format := flags.Format
	if format == "" {
		format = "pdf"
	}
	opts := chart.DefaultOptions()

	for _, f := range files {
		if !strings.HasSuffix(f, ".dat") {
			log.Warnf("%s: not a data file, skipped", f)
			continue
		}
		rep, err := bench.ReadDataFile(f)
		if err != nil {
			return err
		}
		path := trace.FigurePath(f, format)
		if err := chart.Benchmark(rep, path, opts); err != nil {
			return err
		}
		log.Infof("%s written", path)
	}
	return nil
}
