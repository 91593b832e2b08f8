package hardware

import (
	"testing"

	"github.com/kraman/go-firmata"
	. "github.com/smartystreets/goconvey/convey"

	deverrors "github.com/binworks/gosortrig/sorter/errors"
)

type fakeBoard struct {
	pinModes      map[uint8]firmata.PinMode
	analogWrites  []byte
	digitalStates map[uint8]bool
	closed        bool
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{
		pinModes:      make(map[uint8]firmata.PinMode),
		digitalStates: make(map[uint8]bool),
	}
}

func (b *fakeBoard) SetPinMode(pin uint8, mode firmata.PinMode) error {
	b.pinModes[pin] = mode
	return nil
}

func (b *fakeBoard) AnalogWrite(pin uint, val byte) error {
	b.analogWrites = append(b.analogWrites, val)
	return nil
}

func (b *fakeBoard) DigitalWrite(pin uint8, val bool) error {
	b.digitalStates[pin] = val
	return nil
}

func (b *fakeBoard) Close() {
	b.closed = true
}

func TestFirmataServo(t *testing.T) {
	Convey("firmata backed servo", t, func() {
		board := newFakeBoard()
		rig := &FirmataRig{conn: board}
		servo := rig.Servo("position", 9)

		Convey("writes before attach are refused", func() {
			err := servo.Write(90)
			So(err, ShouldResemble, deverrors.DetachedError{Name: "position"})
			So(board.analogWrites, ShouldBeEmpty)
		})

		Convey("attach selects servo pin mode", func() {
			So(servo.Attach(), ShouldBeNil)
			So(board.pinModes[9], ShouldEqual, firmata.Servo)

			Convey("writes carry the angle and update the echoed value", func() {
				So(servo.Write(135), ShouldBeNil)
				So(board.analogWrites, ShouldResemble, []byte{135})
				So(servo.Angle(), ShouldEqual, 135)
			})

			Convey("detach releases the pin", func() {
				So(servo.Detach(), ShouldBeNil)
				So(board.pinModes[9], ShouldEqual, firmata.Input)
				So(servo.Write(90), ShouldResemble, deverrors.DetachedError{Name: "position"})
			})
		})
	})

	Convey("closing the rig closes the board", t, func() {
		board := newFakeBoard()
		rig := &FirmataRig{conn: board}

		So(rig.Close(), ShouldBeNil)
		So(board.closed, ShouldBeTrue)
	})

	Convey("indicator drives its digital pin", t, func() {
		board := newFakeBoard()
		rig := &FirmataRig{conn: board}

		led, err := rig.Indicator(13)
		So(err, ShouldBeNil)
		So(board.pinModes[13], ShouldEqual, firmata.Output)

		So(led.Set(true), ShouldBeNil)
		So(board.digitalStates[13], ShouldBeTrue)
		So(led.Set(false), ShouldBeNil)
		So(board.digitalStates[13], ShouldBeFalse)
	})
}

func TestFeetechScaling(t *testing.T) {
	Convey("degree to count mapping is centered and reversible", t, func() {
		So(degreesToCounts(90), ShouldEqual, 2048)
		So(countsToDegrees(2048), ShouldEqual, 90)

		Convey("counts stay integer-valued, matching the bus position map", func() {
			So(degreesToCounts(0), ShouldEqual, 1024)
			So(degreesToCounts(45), ShouldEqual, 1536)
			So(degreesToCounts(180), ShouldEqual, 3072)
		})

		Convey("round trips survive the rounding at every whole degree", func() {
			for angle := 0; angle <= 180; angle++ {
				So(countsToDegrees(degreesToCounts(angle)), ShouldEqual, angle)
			}
		})
	})
}
