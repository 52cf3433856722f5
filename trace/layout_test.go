package trace

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultLayoutsValidate(t *testing.T) {
	for name, l := range DefaultLayouts() {
		if err := l.Validate(); err != nil {
			t.Errorf("layout %q: %s", name, err)
		}
		if l.Name != name {
			t.Errorf("layout %q carries name %q", name, l.Name)
		}
	}
}

func TestBurstsV1DoesNotAlterBursts(t *testing.T) {
	ls := DefaultLayouts()
	tb, _ := ls["bursts"].Metric("Tb")
	tbV1, _ := ls["bursts-v1"].Metric("Tb")
	if tb.Column != 12 || tbV1.Column != 11 {
		t.Fatalf("expected Tb in columns 12 and 11, got %d and %d", tb.Column, tbV1.Column)
	}
}

func TestLayoutValidate(t *testing.T) {
	cases := []struct {
		name string
		l    Layout
	}{
		{"no metrics", Layout{Name: "x", KeyColumn: NoKey, TimeLabel: "Time"}},
		{"duplicate", Layout{Name: "x", KeyColumn: NoKey, TimeLabel: "Time", Metrics: []Metric{{Label: "Time", Column: 1}, {Label: "Time", Column: 2}}}},
		{"tag column", Layout{Name: "x", KeyColumn: NoKey, TimeLabel: "Time", Metrics: []Metric{{Label: "Time", Column: 0}}}},
		{"key clash", Layout{Name: "x", KeyColumn: 1, TimeLabel: "Time", Metrics: []Metric{{Label: "Time", Column: 1}}}},
		{"no time", Layout{Name: "x", KeyColumn: NoKey, TimeLabel: "Time", Metrics: []Metric{{Label: "Delay", Column: 1}}}},
	}
	for _, c := range cases {
		if err := c.l.Validate(); err == nil {
			t.Errorf("case %q: expected an error", c.name)
		}
	}
}

func TestParseLayouts(t *testing.T) {
	Convey("When overriding layouts from TOML", t, func() {
		ls, err := ParseLayouts(`
[bursts]
extends = "bursts-v1"

[[bursts.metric]]
label = "Tb_error"
column = 6

[[bursts.metric]]
label = "Tt"
name = "Thread time"
column = 11

[wakeups]
key-column = 1
key-name = "Task"
tag = "Wakeup"

[[wakeups.metric]]
label = "Time"
column = 2

[[wakeups.metric]]
label = "Latency"
name = "Wakeup latency [ns]"
column = 3
`)
		So(err, ShouldBeNil)

		Convey("existing metrics are moved and new ones appended", func() {
			b := ls["bursts"]
			So(b.Name, ShouldEqual, "bursts")
			tb, _ := b.Metric("Tb")
			So(tb.Column, ShouldEqual, 11)
			te, _ := b.Metric("Tb_error")
			So(te.Column, ShouldEqual, 6)
			So(te.Name, ShouldEqual, "Burst error")
			tt, ok := b.Metric("Tt")
			So(ok, ShouldBeTrue)
			So(tt.Name, ShouldEqual, "Thread time")
		})

		Convey("the built-in layouts are left untouched", func() {
			te, _ := DefaultLayouts()["bursts"].Metric("Tb_error")
			So(te.Column, ShouldEqual, 8)
		})

		Convey("new layouts can be defined", func() {
			w, err := ls.Get("wakeups")
			So(err, ShouldBeNil)
			So(w.KeyColumn, ShouldEqual, 1)
			So(w.Tag, ShouldEqual, "Wakeup")
			So(w.Labels(), ShouldResemble, []string{"Time", "Latency"})
		})
	})

	Convey("When a layout extends an unknown one", t, func() {
		_, err := ParseLayouts("[x]\nextends = \"nope\"\n")
		So(err, ShouldNotBeNil)
	})

	Convey("When a metric has no label", t, func() {
		_, err := ParseLayouts("[bursts]\n[[bursts.metric]]\ncolumn = 3\n")
		So(err, ShouldNotBeNil)
	})
}

func TestLoadLayouts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.toml")
	if err := os.WriteFile(path, []byte("[latencies]\n[[latencies.metric]]\nlabel = \"Slice\"\ncolumn = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ls, err := LoadLayouts(path)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	slice, _ := ls["latencies"].Metric("Slice")
	if slice.Column != 5 {
		t.Fatalf("expected Slice in column 5, got %d", slice.Column)
	}
	if _, err := LoadLayouts(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
