package sorter

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/binworks/gosortrig/sorter/serlink"
)

func TestPositionSelfTest(t *testing.T) {
	Convey("the self test jumps full range then visits every bin angle", t, func() {
		s, acts, _, logBuf := testSorter(testConfig(), nil)
		So(s.Home(), ShouldBeNil)

		So(s.PositionSelfTest(), ShouldBeNil)

		expected := []int{RestAngle}
		for i := 0; i < 3; i++ {
			expected = append(expected, 0, 180, 0)
		}
		expected = append(expected, 0, 45, 90, 135, 180, RestAngle)
		So(position(acts).Writes, ShouldResemble, expected)

		Convey("the flap never moves", func() {
			So(flap(acts).Writes, ShouldResemble, []int{FlapClosed})
		})

		Convey("output is marked as diagnostic", func() {
			for _, line := range strings.Split(strings.TrimSpace(logBuf.String()), "\n") {
				if strings.Contains(line, "self-test") {
					So(line, ShouldContainSubstring, "[diag]")
				}
			}
		})
	})
}

func TestFlapSweepTest(t *testing.T) {
	Convey("the standalone sweep ramps open and closed", t, func() {
		s, acts, _, logBuf := testSorter(testConfig(), nil)
		So(s.Home(), ShouldBeNil)

		So(s.FlapSweepTest(), ShouldBeNil)

		writes := flap(acts).Writes[1:]
		So(writes[0], ShouldBeGreaterThan, 0)
		So(acts.Flap.Angle(), ShouldEqual, FlapClosed)

		max := 0
		for _, angle := range writes {
			if angle > max {
				max = angle
			}
		}
		So(max, ShouldEqual, 180)

		Convey("progress is logged about every 30 degrees", func() {
			So(strings.Count(logBuf.String(), "flap at"), ShouldBeGreaterThanOrEqualTo, 6)
			So(logBuf.String(), ShouldContainSubstring, "[diag]")
		})

		Convey("the positioning servo is untouched", func() {
			So(position(acts).Writes, ShouldResemble, []int{RestAngle})
		})
	})
}

func TestDetachTest(t *testing.T) {
	Convey("detach test releases, reacquires and re-homes the axis", t, func() {
		s, acts, _, _ := testSorter(testConfig(), nil)
		So(s.Home(), ShouldBeNil)

		So(s.DetachTest(), ShouldBeNil)

		So(position(acts).Detaches, ShouldEqual, 1)
		So(position(acts).Attaches, ShouldEqual, 2) // home + reattach
		So(acts.Position.Angle(), ShouldEqual, RestAngle)
	})
}

func TestDiagnosticsNeverAck(t *testing.T) {
	Convey("diagnostic routines complete without an ACK byte on the link", t, func() {
		link := new(fakeLink)
		s, _, _, _ := testSorter(testConfig(), link)
		So(s.Home(), ShouldBeNil)

		for _, code := range []byte{'R', 'F', 'S', 'D'} {
			s.Dispatch(code)
		}

		So(bytes.Count(link.out.Bytes(), []byte{serlink.ACK}), ShouldEqual, 0)

		Convey("while a sort on the same link still acks once", func() {
			s.Dispatch('G')
			So(bytes.Count(link.out.Bytes(), []byte{serlink.ACK}), ShouldEqual, 1)
		})
	})
}

func TestReset(t *testing.T) {
	Convey("reset is safe regardless of prior state", t, func() {
		s, acts, _, _ := testSorter(testConfig(), nil)
		So(s.Home(), ShouldBeNil)

		So(acts.Position.Write(0), ShouldBeNil)
		So(acts.Flap.Write(180), ShouldBeNil)

		So(s.Reset(), ShouldBeNil)

		pos, fl := s.State()
		So(pos, ShouldEqual, RestAngle)
		So(fl, ShouldEqual, FlapClosed)
	})
}
