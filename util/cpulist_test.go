package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCPUList(t *testing.T) {
	Convey("When setting a CPUList to an empty string", t, func(c C) {
		l := CPUList{}
		err := l.Set("")
		c.So(err, ShouldBeNil)
		c.So(l, ShouldHaveLength, 0)
		c.So(l.Empty(), ShouldBeTrue)
	})

	Convey("When setting a CPUList to single cpus and ranges", t, func(c C) {
		l, err := ParseCPUList("0-3, 6,8-9")
		c.So(err, ShouldBeNil)
		c.So(l, ShouldResemble, CPUList{0, 1, 2, 3, 6, 8, 9})
		c.So(l.String(), ShouldEqual, "0-3,6,8-9")
	})

	Convey("When a CPUList has repeated commas", t, func(c C) {
		l, err := ParseCPUList(",,2,")
		c.So(err, ShouldBeNil)
		c.So(l, ShouldResemble, CPUList{2})
		c.So(l.String(), ShouldEqual, "2")
	})

	Convey("When a CPUList is invalid", t, func(c C) {
		_, err := ParseCPUList("foo")
		c.So(err, ShouldNotBeNil)
		_, err = ParseCPUList("3-1")
		c.So(err, ShouldNotBeNil)
		_, err = ParseCPUList("-1")
		c.So(err, ShouldNotBeNil)
	})
}
