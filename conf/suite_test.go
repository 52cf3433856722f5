package conf

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbs-sched/schedtools/bench"
	"github.com/cbs-sched/schedtools/util"
	"github.com/google/go-cmp/cmp"
)

func TestReadSuite(t *testing.T) {
	cases := []struct {
		in       string
		expErr   bool
		expSuite Suite
	}{
		{
			in: `
[PerfPIPE]
description = Perf PIPE benchmark
command = perf bench --format=simple sched pipe -l1000000
runs = 10
`,
			expErr: false,
			expSuite: Suite{
				{
					Label:       "PerfPIPE",
					Description: "Perf PIPE benchmark",
					Command:     "perf bench --format=simple sched pipe -l1000000",
					Runs:        10,
					Policy:      bench.CFS,
				},
			},
		},
		{
			in: `
[hackbench]
command = hackbench -p -l 100
instances = 16
runs = 5
policy = cbs
target-cpus = 0-3,6
timeout = 5min

[#disabled]
command = sleep 1

[PerfMESSAGING]
command = perf bench --format=simple sched messaging -p -g1 -l5000
instances = 2
timeout = 1h30min
`,
			expErr: false,
			expSuite: Suite{
				{
					Label:      "hackbench",
					Command:    "hackbench -p -l 100",
					Instances:  16,
					Runs:       5,
					Policy:     bench.CBS,
					TargetCPUs: util.CPUList{0, 1, 2, 3, 6},
					Timeout:    5 * time.Minute,
				},
				{
					Label:     "PerfMESSAGING",
					Command:   "perf bench --format=simple sched messaging -p -g1 -l5000",
					Instances: 2,
					Policy:    bench.CFS,
					Timeout:   90 * time.Minute,
				},
			},
		},
		{
			in:     "[nocommand]\nruns = 3\n",
			expErr: true,
		},
		{
			in:     "[x]\ncommand = true\nruns = many\n",
			expErr: true,
		},
		{
			in:     "[x]\ncommand = true\npolicy = fifo\n",
			expErr: true,
		},
		{
			in:     "[x]\ncommand = true\ntarget-cpus = 3-1\n",
			expErr: true,
		},
		{
			in:     "[x]\ncommand = true\ntimeout = soon\n",
			expErr: true,
		},
	}
	dir := t.TempDir()
	for i, c := range cases {
		path := filepath.Join(dir, "suite.ini")
		err := ioutil.WriteFile(path, []byte(c.in), 0644)
		if err != nil {
			panic(err)
		}
		suite, err := ReadSuite(path)
		if (err != nil) != c.expErr {
			t.Fatalf("case %d, exp err %t, got err %v", i, c.expErr, err)
		}
		if err == nil {
			if diff := cmp.Diff(c.expSuite, suite); diff != "" {
				t.Errorf("case %d: suite mismatch (-want +got):\n%s", i, diff)
			}
		}
	}
}

func TestDefaultSuite(t *testing.T) {
	s := DefaultSuite()
	if diff := cmp.Diff([]string{"PerfPIPE", "PerfMESSAGING"}, s.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
	for _, test := range s {
		if err := test.Validate(); err != nil {
			t.Errorf("default test %s is invalid: %s", test.Label, err)
		}
	}
	if s[1].Instances != 2 {
		t.Errorf("expected PerfMESSAGING to run up to 2 instances, got %d", s[1].Instances)
	}
}

func TestSuiteSelect(t *testing.T) {
	s := DefaultSuite()
	got, err := s.Select([]string{"PerfMESSAGING"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(got) != 1 || got[0].Label != "PerfMESSAGING" {
		t.Fatalf("unexpected selection %v", got.Labels())
	}
	if _, err := s.Select([]string{"PerfPIPE", "nope"}); err == nil {
		t.Fatal("expected an error for an unknown test")
	}
}
