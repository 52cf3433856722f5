package stats

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	Convey("When adding samples for several tasks", t, func() {
		set := NewSet()
		set.Add("wlg-10", 4)
		set.Add("wlg-2", 1)
		set.Add("wlg-2", 3)
		set.Add("hb_ctl-1", 7)
		set.Get("idle")

		Convey("keys come back in natural order", func() {
			So(set.Keys(), ShouldResemble, []string{"hb_ctl-1", "idle", "wlg-2", "wlg-10"})
			So(set.Len(), ShouldEqual, 4)
		})

		Convey("each task gets its own accumulator", func() {
			acc, ok := set.Lookup("wlg-2")
			So(ok, ShouldBeTrue)
			So(acc.Count(), ShouldEqual, 2)
			So(acc.MustStats().Mean, ShouldEqual, 2.0)
		})

		Convey("series without samples are left out of the snapshots", func() {
			snaps := set.Snapshots()
			So(snaps, ShouldHaveLength, 3)
			So(snaps, ShouldNotContainKey, "idle")
			So(snaps["wlg-10"].Mean, ShouldEqual, 4.0)
		})

		Convey("the total covers every sample", func() {
			total := set.Total()
			So(total.Count(), ShouldEqual, 4)
			So(total.Sum(), ShouldEqual, 15.0)
		})
	})
}
