package hardware

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	deverrors "github.com/binworks/gosortrig/sorter/errors"
)

type fakeServo struct {
	name     string
	angle    int
	attached bool
	writes   []int
	writeErr error
}

func (f *fakeServo) Name() string { return f.name }
func (f *fakeServo) Angle() int   { return f.angle }

func (f *fakeServo) Attach() error {
	f.attached = true
	return nil
}

func (f *fakeServo) Detach() error {
	f.attached = false
	return nil
}

func (f *fakeServo) Write(angle int) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, angle)
	f.angle = angle
	return nil
}

// stuckServo reports a measured position that never follows the writes,
// simulating a mechanically bound axis on a feedback-capable servo.
type stuckServo struct {
	fakeServo
	stuckAt int
}

func (f *stuckServo) Position() (int, error) {
	return f.stuckAt, nil
}

func TestWriteVerified(t *testing.T) {
	Convey("open loop write with the no-op verifier", t, func() {
		servo := &fakeServo{name: "position"}

		So(WriteVerified(servo, 135, NoopVerifier{}), ShouldBeNil)

		Convey("issues exactly one write", func() {
			So(servo.writes, ShouldResemble, []int{135})
		})

		Convey("nil verifier behaves the same", func() {
			So(WriteVerified(servo, 45, nil), ShouldBeNil)
			So(servo.writes, ShouldResemble, []int{135, 45})
		})
	})

	Convey("verified write against a stuck axis", t, func() {
		servo := &stuckServo{fakeServo: fakeServo{name: "position"}, stuckAt: 10}

		err := WriteVerified(servo, 135, FeedbackVerifier{Tolerance: 3})

		Convey("retries up to the limit then reports the failure", func() {
			So(err, ShouldEqual, ERR_MAX_RETRIES)
			So(len(servo.writes), ShouldEqual, WRITE_MAX_RETRIES)
		})
	})

	Convey("verified write against a healthy axis", t, func() {
		servo := &stuckServo{fakeServo: fakeServo{name: "position"}, stuckAt: 136}

		So(WriteVerified(servo, 135, FeedbackVerifier{Tolerance: 3}), ShouldBeNil)
		So(servo.writes, ShouldResemble, []int{135})
	})

	Convey("feedback verifier degrades to open loop without a reader", t, func() {
		servo := &fakeServo{name: "flap"}

		So(WriteVerified(servo, 180, FeedbackVerifier{}), ShouldBeNil)
		So(servo.writes, ShouldResemble, []int{180})
	})

	Convey("out of range targets are rejected before any write", t, func() {
		So(checkAngle("flap", 181), ShouldResemble, deverrors.AngleRangeError{Name: "flap", Angle: 181})
		So(checkAngle("flap", -1), ShouldResemble, deverrors.AngleRangeError{Name: "flap", Angle: -1})
		So(checkAngle("flap", 0), ShouldBeNil)
		So(checkAngle("flap", 180), ShouldBeNil)
	})
}
