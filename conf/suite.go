package conf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alyu/configparser"
	"github.com/cbs-sched/schedtools/bench"
	"github.com/cbs-sched/schedtools/util"
	"github.com/raintank/dur"
)

// Suite is an ordered list of benchmarks
type Suite []bench.Test

// DefaultSuite returns the perf scheduler benchmarks, run when no suite file is given
func DefaultSuite() Suite {
	return Suite{
		{
			Label:       "PerfPIPE",
			Description: "Perf PIPE benchmark: tasks pairs exchanging messages over a pipe",
			Command:     "perf bench --format=simple sched pipe -l1000000",
			Runs:        10,
			Policy:      bench.CFS,
		},
		{
			Label:       "PerfMESSAGING",
			Description: "Perf MESSAGING benchmark: groups of senders and receivers over pipes",
			Command:     "perf bench --format=simple sched messaging -p -g1 -l5000",
			Instances:   2,
			Runs:        10,
			Policy:      bench.CFS,
		},
	}
}

// Labels returns the test labels, in order
func (s Suite) Labels() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = t.Label
	}
	return out
}

// Select returns the tests whose label is in labels, keeping the suite order.
// An unknown label is an error.
func (s Suite) Select(labels []string) (Suite, error) {
	want := make(map[string]bool, len(labels))
	for _, l := range labels {
		want[l] = false
	}
	var out Suite
	for _, t := range s {
		if _, ok := want[t.Label]; ok {
			want[t.Label] = true
			out = append(out, t)
		}
	}
	for l, found := range want {
		if !found {
			return nil, fmt.Errorf("no test %q in suite %v", l, s.Labels())
		}
	}
	return out, nil
}

// ReadSuite returns the benchmarks defined in a suite file, e.g.
//
//	[PerfPIPE]
//	description = Perf PIPE benchmark
//	command = perf bench --format=simple sched pipe -l1000000
//	instances = 0
//	runs = 10
//	policy = CBS
//	target-cpus = 0-3
//	timeout = 5min
//
// Sections whose name starts with # are skipped.
func ReadSuite(file string) (Suite, error) {
	config, err := configparser.Read(file)
	if err != nil {
		return nil, err
	}
	sections, err := config.AllSections()
	if err != nil {
		return nil, err
	}

	var result Suite
	seen := make(map[string]bool)

	for _, s := range sections {
		item := bench.Test{}
		item.Label = strings.Trim(strings.SplitN(s.String(), "\n", 2)[0], " []")
		if item.Label == "" || strings.HasPrefix(item.Label, "#") {
			continue
		}
		if seen[item.Label] {
			return nil, fmt.Errorf("[%s]: duplicate test", item.Label)
		}
		seen[item.Label] = true

		item.Description = s.ValueOf("description")
		item.Command = strings.TrimSpace(s.ValueOf("command"))
		if item.Command == "" {
			return nil, fmt.Errorf("[%s]: missing command", item.Label)
		}
		item.Instances, err = intOf(s, "instances")
		if err != nil {
			return nil, fmt.Errorf("[%s]: %s", item.Label, err.Error())
		}
		item.Runs, err = intOf(s, "runs")
		if err != nil {
			return nil, fmt.Errorf("[%s]: %s", item.Label, err.Error())
		}
		item.Policy, err = bench.ParsePolicy(s.ValueOf("policy"))
		if err != nil {
			return nil, fmt.Errorf("[%s]: %s", item.Label, err.Error())
		}
		item.TargetCPUs, err = util.ParseCPUList(s.ValueOf("target-cpus"))
		if err != nil {
			return nil, fmt.Errorf("[%s]: failed to parse target-cpus %q: %s", item.Label, s.ValueOf("target-cpus"), err.Error())
		}
		if timeout := strings.TrimSpace(s.ValueOf("timeout")); timeout != "" {
			duration, err := dur.ParseDuration(timeout)
			if err != nil {
				return nil, fmt.Errorf("[%s]: failed to parse timeout %q: %s", item.Label, timeout, err.Error())
			}
			item.Timeout = time.Duration(duration) * time.Second
		}
		if err := item.Validate(); err != nil {
			return nil, err
		}

		result = append(result, item)
	}

	return result, nil
}

// intOf parses an optional integer option. A missing option is 0.
func intOf(s *configparser.Section, key string) (int, error) {
	v := strings.TrimSpace(s.ValueOf(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s %q: %s", key, v, err.Error())
	}
	return n, nil
}
