package cmd

import (
	"path/filepath"
	"testing"

	"github.com/cbs-sched/schedtools/trace"
	"github.com/spf13/viper"
)

func TestKindsMatchDefaultLayouts(t *testing.T) {
	ls := trace.DefaultLayouts()
	for _, k := range kinds {
		l, err := ls.Get(k.layout)
		if err != nil {
			t.Fatalf("%s: %s", k.name, err)
		}
		for _, label := range k.summary {
			if l.Index(label) < 0 {
				t.Errorf("%s: layout %s has no metric %s", k.name, l.Name, label)
			}
		}
		if _, err := filepath.Match(k.glob, "x"); err != nil {
			t.Errorf("%s: bad glob %q: %s", k.name, k.glob, err)
		}
	}
}

func TestFigurePath(t *testing.T) {
	defer viper.Reset()

	viper.Set("format", "svg")
	if got := figurePath("traces/cbs_trace_1_bursts.dat"); got != "traces/cbs_trace_1_bursts.svg" {
		t.Fatalf("unexpected path %q", got)
	}
	viper.Set("out-dir", "figs")
	if got := figurePath("traces/cbs_trace_1_bursts.dat"); got != filepath.Join("figs", "cbs_trace_1_bursts.svg") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestKeyName(t *testing.T) {
	if got := keyName(trace.Layout{}); got != "Key" {
		t.Fatalf("expected Key, got %q", got)
	}
	if got := keyName(trace.Layout{KeyName: "CPU"}); got != "CPU" {
		t.Fatalf("expected CPU, got %q", got)
	}
}
