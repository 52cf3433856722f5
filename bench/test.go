// Package bench runs a workload repeatedly under a scheduling policy, with an
// increasing number of concurrent instances, and records the statistics of the
// task and run times in a data file.
package bench

import (
	"fmt"
	"strings"
	"time"

	"github.com/cbs-sched/schedtools/util"
)

// Policy is the scheduling class the workload runs in
type Policy string

const (
	CFS Policy = "CFS"
	CBS Policy = "CBS"
)

// ParsePolicy parses a policy name, case insensitive. The empty string is CFS.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "CFS", "OTHER":
		return CFS, nil
	case "CBS":
		return CBS, nil
	}
	return "", fmt.Errorf("unknown scheduling policy %q, must be CFS or CBS", s)
}

// chrtSwitch returns the chrt option selecting the policy
func (p Policy) chrtSwitch() string {
	if p == CBS {
		return "-c"
	}
	return "-o"
}

// Test describes one benchmark
type Test struct {
	Label       string
	Description string
	Command     string // workload command line, split on white space
	Instances   int    // maximum number of concurrent instances. <= 0 means 4 per CPU
	Runs        int    // repetitions per number of instances
	Policy      Policy
	TargetCPUs  util.CPUList  // CPUs the instances are pinned to. empty means no pinning
	Timeout     time.Duration // per run. 0 means none
}

// WithDefaults returns t with unset fields filled in for a host with ncpu CPUs
func (t Test) WithDefaults(ncpu int) Test {
	if t.Instances <= 0 {
		t.Instances = 4 * ncpu
	}
	if t.Runs <= 0 {
		t.Runs = 1
	}
	if t.Policy == "" {
		t.Policy = CFS
	}
	return t
}

// Validate checks the test can be run
func (t Test) Validate() error {
	if t.Label == "" {
		return fmt.Errorf("test has no label")
	}
	if strings.ContainsAny(t.Label, "/ \t") {
		return fmt.Errorf("test %q: label must not contain slashes or spaces", t.Label)
	}
	if len(strings.Fields(t.Command)) == 0 {
		return fmt.Errorf("test %q: empty command", t.Label)
	}
	if t.Policy != CFS && t.Policy != CBS {
		return fmt.Errorf("test %q: unknown policy %q", t.Label, t.Policy)
	}
	return nil
}

// TimeFormat makes /usr/bin/time print, in order: elapsed real seconds,
// involuntary context switches, voluntary context switches and signals delivered
const TimeFormat = "%e %c %w %k"

// Tools locates the programs wrapped around the workload
type Tools struct {
	Taskset string
	Time    string
	Chrt    string // must know the -c switch to run a CBS workload
}

// DefaultTools looks the tools up in the PATH, except time which must be the
// standalone program rather than the shell keyword
func DefaultTools() Tools {
	return Tools{
		Taskset: "taskset",
		Time:    "/usr/bin/time",
		Chrt:    "chrt",
	}
}

// CommandLine returns the argv launching one instance of t:
//
//	taskset -c <cpus> /usr/bin/time -f "%e %c %w %k" chrt <switch> 0 <command...>
//
// taskset is left out when t has no target CPUs.
func (tl Tools) CommandLine(t Test) []string {
	var argv []string
	if !t.TargetCPUs.Empty() {
		argv = append(argv, tl.Taskset, "-c", t.TargetCPUs.String())
	}
	argv = append(argv, tl.Time, "-f", TimeFormat, tl.Chrt, t.Policy.chrtSwitch(), "0")
	return append(argv, strings.Fields(t.Command)...)
}
