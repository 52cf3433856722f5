package trace

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	. "github.com/smartystreets/goconvey/convey"
)

const burstsData = `# Burst                Task       Time[s]    SETime[ns] |   Rquota  Reinit  Tt_SP       Te       Tn       Tb   Tt  Tm  Start  Stop
Burst wlg-10  1.000100 1000 | 5000 0 4000 -100 4100 4100 0 3900 10 4110
Burst wlg-2   1.000200 1000 | 5000 0 2000   50 1950 1950 0 2050 20 1970

# second round
Burst wlg-10  1.010100 1000 | 5000 0 4000  200 3800 3800 0 4200 30 3830
`

const roundsData = `# Round       Time[s]    RQTime[ns]       Lw       Rt  Rc   Re |  Nr       Lw    Rt_SP  Sa   Rt_corr  Cd  Rt_next Start End
Round 0.5 100 1024 9000 9000 -100 | 2 1024 8900 0 10 0 8910 1 2
Round 1.0 200 2048 9100 9100  100 | 2 2048 8900 0 -5 0 8895 3 4
`

func mustLayout(name string) Layout {
	l, err := DefaultLayouts().Get(name)
	if err != nil {
		panic(err)
	}
	return l
}

func TestParseBursts(t *testing.T) {
	Convey("When parsing a bursts trace", t, func() {
		table, err := Parse(strings.NewReader(burstsData), mustLayout("bursts"))
		So(err, ShouldBeNil)

		Convey("records are grouped per task in natural order", func() {
			So(table.Keys(), ShouldResemble, []string{"wlg-2", "wlg-10"})
			So(table.Len(), ShouldEqual, 3)
			So(table.Rows("wlg-10"), ShouldHaveLength, 2)
		})

		Convey("columns follow the layout", func() {
			tb, ok := table.Column("wlg-10", "Tb")
			So(ok, ShouldBeTrue)
			So(tb, ShouldResemble, []float64{3900, 4200})
			sp, _ := table.Column("wlg-10", "Tb_sp")
			So(sp, ShouldResemble, []float64{4000, 4000})
			So(table.Time("wlg-2"), ShouldResemble, []float64{1.0002})
			So(table.Start(), ShouldEqual, 1.0001)
		})

		Convey("unknown metrics are reported", func() {
			_, ok := table.Column("wlg-10", "nope")
			So(ok, ShouldBeFalse)
		})

		Convey("summaries hold one accumulator per task", func() {
			sums := Summarize(table, []string{"Tb_error", "nope"})
			So(sums, ShouldHaveLength, 1)
			acc, ok := sums["Tb_error"].Lookup("wlg-10")
			So(ok, ShouldBeTrue)
			s := acc.MustStats()
			So(s.Count, ShouldEqual, 2)
			So(s.Mean, ShouldEqual, 50.0)
			So(s.Variance, ShouldEqual, 22500.0)
		})
	})

	Convey("When parsing with the older bursts layout", t, func() {
		table, err := Parse(strings.NewReader(burstsData), mustLayout("bursts-v1"))
		So(err, ShouldBeNil)
		tb, _ := table.Column("wlg-2", "Tb")
		So(tb, ShouldResemble, []float64{0})
	})
}

func TestParseRounds(t *testing.T) {
	table, err := Parse(strings.NewReader(roundsData), mustLayout("rounds"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if diff := cmp.Diff([]string{""}, table.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	want := map[string][]float64{
		"Sp_next": {8900, 8900},
		"Rt_prev": {9000, 9100},
		"Re_prev": {-100, 100},
		"Co_next": {10, -5},
		"Rt_end":  {2, 4},
	}
	for label, exp := range want {
		got, _ := table.Column("", label)
		if diff := cmp.Diff(exp, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", label, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		line int
	}{
		{"short record", "Burst wlg-1 1.0 10 | 5\n", 1},
		{"bad number", "# header\nBurst wlg-1 1.0 10 | 5000 0 x -100 4100 4100 0 3900 10 4110\n", 2},
	}
	for _, c := range cases {
		_, err := Parse(strings.NewReader(c.in), mustLayout("bursts"))
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("case %q: expected a ParseError, got %v", c.name, err)
		}
		if perr.Line != c.line {
			t.Errorf("case %q: expected line %d, got %d", c.name, c.line, perr.Line)
		}
	}

	_, err := Parse(strings.NewReader("Burst wlg-1 1.0 10 | 5000 0 x -100 4100 4100 0 3900 10 4110\n"), mustLayout("bursts"))
	var numErr *strconv.NumError
	if !errors.As(err, &numErr) {
		t.Fatalf("expected the number error to be wrapped, got %v", err)
	}
}

func TestParseSkipsForeignTags(t *testing.T) {
	in := roundsData + "Burst wlg-1 1.0 10 | 5000 0 1 2 3 4 5 6 7 8\n"
	table, err := Parse(strings.NewReader(in), mustLayout("rounds"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if table.Skipped != 1 || table.Len() != 2 {
		t.Fatalf("expected 2 records and 1 skipped, got %d and %d", table.Len(), table.Skipped)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cbs_trace_01_latencies.dat")
	data := "Latency wlg-1 0.1 1500 400000\nLatency wlg-1 0.2 2500 380000\nLatency cpu_hog-7 0.2 50 1000000\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	matches, err := Glob(filepath.Join(dir, "*_trace_*_latencies.dat"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one match, got %v (%v)", matches, err)
	}
	table, err := ParseFile(matches[0], mustLayout("latencies"))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if table.Source != path {
		t.Errorf("expected source %q, got %q", path, table.Source)
	}
	delay, _ := table.Column("wlg-1", "Delay")
	if diff := cmp.Diff([]float64{1500, 2500}, delay); diff != "" {
		t.Errorf("delay mismatch (-want +got):\n%s", diff)
	}

	_, err = ParseFile(filepath.Join(dir, "missing.dat"), mustLayout("latencies"))
	if !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestFigurePath(t *testing.T) {
	cases := []struct{ in, ext, exp string }{
		{"cbs_trace_01_rounds.dat", "pdf", "cbs_trace_01_rounds.pdf"},
		{"out/test_CBS_20130502_140304_PerfPIPE.dat", ".svg", "out/test_CBS_20130502_140304_PerfPIPE.svg"},
		{"rounds.txt", "png", "rounds.txt.png"},
	}
	for _, c := range cases {
		if got := FigurePath(c.in, c.ext); got != c.exp {
			t.Errorf("FigurePath(%q, %q): expected %q, got %q", c.in, c.ext, c.exp, got)
		}
	}
}
