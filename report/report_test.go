package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cbs-sched/schedtools/stats"
	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"
)

func snap(samples ...float64) stats.Snapshot {
	var a stats.Accumulator
	for _, s := range samples {
		a.Add(s)
	}
	return a.MustStats()
}

func TestFull(t *testing.T) {
	got := Full(snap(1, 2, 3, 4, 5), Counts)
	exp := "         3.0         2.0         1.4         0.6         1.2         1.6 "
	if got != exp {
		t.Fatalf("expected %q, got %q", exp, got)
	}
}

func TestBrief(t *testing.T) {
	got := Brief(snap(0.5), Seconds)
	exp := " 0.500000000 0.000000000 "
	if got != exp {
		t.Fatalf("expected %q, got %q", exp, got)
	}
}

func TestHeaders(t *testing.T) {
	cols := []Column{{"tt", Seconds}, {"tf", Counts}}

	full := strings.Fields(FullHeader("insts", cols))
	exp := []string{"#", "insts",
		"tt_avg", "tt_var", "tt_std", "tt_ste", "tt_c95", "tt_c99",
		"tf_avg", "tf_var", "tf_std", "tf_ste", "tf_c95", "tf_c99"}
	if diff := cmp.Diff(exp, full); diff != "" {
		t.Errorf("full header mismatch (-want +got):\n%s", diff)
	}

	brief := BriefHeader("insts", cols)
	if diff := cmp.Diff([]string{"#", "insts", "tt_avg", "tt_c99", "tf_avg", "tf_c99"}, strings.Fields(brief)); diff != "" {
		t.Errorf("brief header mismatch (-want +got):\n%s", diff)
	}

	rule := Rule(brief)
	if len(rule) != len(brief) || rule[0] != '#' || strings.Trim(rule[1:], "=") != "" {
		t.Errorf("bad rule %q for header %q", rule, brief)
	}
}

func TestWriteBanner(t *testing.T) {
	var buf bytes.Buffer
	err := WriteBanner(&buf, []Field{
		{"Benchmark", "PerfPIPE"},
		{"", "Perf PIPE benchmark"},
		{"Number of runs", 10},
	})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	exp := []string{
		strings.Repeat("#", 80),
		"# Benchmark              : PerfPIPE",
		"#    Perf PIPE benchmark",
		"# Number of runs         : 10",
		"#",
	}
	if diff := cmp.Diff(exp, lines); diff != "" {
		t.Errorf("banner mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteSummary(t *testing.T) {
	Convey("When summarizing two metrics over three tasks", t, func() {
		delay := stats.NewSet()
		delay.Add("wlg-1", 1500)
		delay.Add("wlg-1", 2500)
		delay.Add("wlg-10", 10)
		slice := stats.NewSet()
		slice.Add("wlg-1", 400000)
		slice.Add("cpu_hog-7", 1000000)

		var buf bytes.Buffer
		err := WriteSummary(&buf, "Task", []string{"Delay", "Slice"}, map[string]*stats.Set{
			"Delay": delay,
			"Slice": slice,
		}, Nanos)
		So(err, ShouldBeNil)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		So(lines, ShouldHaveLength, 6)

		Convey("the header names every metric", func() {
			So(strings.Fields(lines[0]), ShouldResemble, []string{"#", "Task", "Delay_avg", "Delay_c99", "Slice_avg", "Slice_c99"})
			So(lines[1], ShouldStartWith, "#===")
		})

		Convey("rows follow natural order and show gaps", func() {
			So(strings.Fields(lines[2]), ShouldResemble, []string{"cpu_hog-7", "-", "-", "1000000.0", "0.0"})
			So(strings.Fields(lines[3])[:2], ShouldResemble, []string{"wlg-1", "2000.0"})
			So(strings.Fields(lines[4]), ShouldResemble, []string{"wlg-10", "10.0", "0.0", "-", "-"})
		})

		Convey("a last row merges every task", func() {
			fields := strings.Fields(lines[5])
			So(fields[0], ShouldEqual, AllKey)
			So(fields[1], ShouldEqual, "1336.7")
			So(fields[3], ShouldEqual, "700000.0")
		})
	})

	Convey("When summarizing a single series", t, func() {
		rounds := stats.NewSet()
		rounds.Add("", 3)
		var buf bytes.Buffer
		So(WriteSummary(&buf, "Key", []string{"Rt_prev"}, map[string]*stats.Set{"Rt_prev": rounds}, 3), ShouldBeNil)
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		So(lines, ShouldHaveLength, 3)
		So(strings.Fields(lines[2]), ShouldResemble, []string{"*", "3.000", "0.000"})
	})
}
