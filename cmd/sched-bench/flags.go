package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cbs-sched/schedtools/platform"
	"github.com/cbs-sched/schedtools/util"
	"github.com/grafana/globalconf"
	log "github.com/sirupsen/logrus"
)

type Flags struct {
	flagSet *flag.FlagSet

	Config     string
	Suite      string
	Tests      string
	Runs       int
	Instances  int
	CBS        bool
	TargetCPUs util.CPUList
	OutDir     string
	Plot       bool
	Format     string
	Textfile   string
	LogLevel   string
	Verbose    bool

	// platform section of the config file
	Governor string
	ProcRoot string
	SysRoot  string
}

func NewFlags() *Flags {
	var flags Flags

	flags.flagSet = flag.NewFlagSet("application flags", flag.ExitOnError)
	flags.flagSet.StringVar(&flags.Config, "config", "/etc/sched-bench/sched-bench.ini", "configuration file path")
	flags.flagSet.StringVar(&flags.Suite, "suite", "", "suite file defining the benchmarks. If unset, the perf scheduler benchmarks are run")
	flags.flagSet.StringVar(&flags.Tests, "tests", "", "comma separated labels of the tests of the suite to run (default all)")
	flags.flagSet.IntVar(&flags.Runs, "runs", 0, "override the number of runs of every test")
	flags.flagSet.IntVar(&flags.Instances, "instances", 0, "override the maximum number of concurrent instances of every test")
	flags.flagSet.BoolVar(&flags.CBS, "cbs", false, "run every test under the CBS scheduling policy")
	flags.flagSet.Var(&flags.TargetCPUs, "target-cpus", "pin every test on these cpus, e.g. 0-3,6")
	flags.flagSet.StringVar(&flags.OutDir, "out-dir", ".", "directory of the data files")
	flags.flagSet.BoolVar(&flags.Plot, "plot", false, "plot the data files given as arguments instead of running benchmarks")
	flags.flagSet.StringVar(&flags.Format, "format", "", "also plot every data file written, in this format: pdf|svg|png")
	flags.flagSet.StringVar(&flags.Textfile, "textfile", "", "write the results in the prometheus text format to this file, e.g. for the node exporter textfile collector")
	flags.flagSet.StringVar(&flags.LogLevel, "log-level", "info", "log level. panic|fatal|error|warning|info|debug")
	flags.flagSet.BoolVar(&flags.Verbose, "verbose", false, "dump the tests and the host description before running")

	flags.flagSet.Usage = flags.Usage
	return &flags
}

// platformSetup registers the settings that depend on the host, so they can live in the config file
func (flags *Flags) platformSetup() {
	fs := flag.NewFlagSet("platform", flag.ExitOnError)
	fs.StringVar(&flags.Governor, "governor", "performance", "cpufreq governor selected while benchmarking, restored afterwards. empty disables")
	fs.StringVar(&flags.ProcRoot, "proc-root", platform.DefaultProcRoot, "mount point of the proc filesystem")
	fs.StringVar(&flags.SysRoot, "sys-root", platform.DefaultSysRoot, "mount point of the sys filesystem")
	globalconf.Register("platform", fs, flag.ExitOnError)
}

func (flags *Flags) Parse(args []string) {
	err := flags.flagSet.Parse(args)
	if err != nil {
		log.Fatalf("failed to parse application flags %v: %s", args, err.Error())
	}

	path := ""
	if _, err := os.Stat(flags.Config); err == nil {
		path = flags.Config
	}
	config, err := globalconf.NewWithOptions(&globalconf.Options{
		Filename:  path,
		EnvPrefix: "SCHED_",
	})
	if err != nil {
		log.Fatalf("error with configuration file: %s", err.Error())
	}
	flags.platformSetup()
	config.Parse()

	if flags.Runs < 0 {
		log.Fatalf("-runs must not be negative")
	}
	if flags.Instances < 0 {
		log.Fatalf("-instances must not be negative")
	}
	if flags.Plot && flags.flagSet.NArg() == 0 {
		log.Fatalf("-plot needs at least one data file")
	}
	switch flags.Format {
	case "", "pdf", "svg", "png":
	default:
		log.Fatalf("-format must be one of pdf, svg or png")
	}
}

// Args returns the arguments left after the flags
func (flags *Flags) Args() []string {
	return flags.flagSet.Args()
}

// TestLabels returns the labels given with -tests
func (flags *Flags) TestLabels() []string {
	if strings.TrimSpace(flags.Tests) == "" {
		return nil
	}
	var out []string
	for _, l := range strings.Split(flags.Tests, ",") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

func (flags *Flags) Usage() {
	fmt.Fprintln(os.Stderr, "sched-bench")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Runs scheduler benchmarks with an increasing number of concurrent instances and records")
	fmt.Fprintln(os.Stderr, "per instance task times, run times and context switches")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "# Mechanism")
	fmt.Fprintln(os.Stderr, "* for every test, N goes from 1 to the maximum number of instances")
	fmt.Fprintln(os.Stderr, "* each run starts N instances of the command at once, under /usr/bin/time and chrt, optionally pinned with taskset")
	fmt.Fprintln(os.Stderr, "* tt is the elapsed time of one instance, rt the wall time of the whole run")
	fmt.Fprintln(os.Stderr, "* one row per N is appended to test_<POLICY>_<date>_<label>.dat with the average and 99% confidence of every metric")
	fmt.Fprintln(os.Stderr, "* the cpufreq governor is switched for the duration of the suite when running as root")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  sched-bench [flags]")
	fmt.Fprintln(os.Stderr, "  sched-bench -plot [flags] <data file>...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Suite file:")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "  [PerfPIPE]")
	fmt.Fprintln(os.Stderr, "  description = Perf PIPE benchmark")
	fmt.Fprintln(os.Stderr, "  command = perf bench --format=simple sched pipe -l1000000")
	fmt.Fprintln(os.Stderr, "  instances = 0      # 0 means 4 per cpu")
	fmt.Fprintln(os.Stderr, "  runs = 10")
	fmt.Fprintln(os.Stderr, "  policy = CBS       # CFS (default) or CBS")
	fmt.Fprintln(os.Stderr, "  target-cpus = 0-3")
	fmt.Fprintln(os.Stderr, "  timeout = 5min")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Fields:")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "  insts:  number of concurrent instances")
	fmt.Fprintln(os.Stderr, "  tt:     elapsed time of an instance [s]")
	fmt.Fprintln(os.Stderr, "  rt:     wall time of a run [s]")
	fmt.Fprintln(os.Stderr, "  tf:     involuntary context switches of an instance")
	fmt.Fprintln(os.Stderr, "  tv:     voluntary context switches of an instance")
	fmt.Fprintln(os.Stderr, "  ts:     signals delivered to an instance")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flags.flagSet.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Config file sections:")
	fmt.Fprintln(os.Stderr, "  [platform] governor, proc-root, sys-root (env: SCHED_PLATFORM_GOVERNOR, ...)")
}
