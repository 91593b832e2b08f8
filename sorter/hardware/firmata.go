package hardware

import (
	"github.com/kraman/go-firmata"

	deverrors "github.com/binworks/gosortrig/sorter/errors"
)

// firmataConn is the slice of the firmata client the servos actually use,
// so tests can run against a fake board. Close carries no error because the
// client's own Close returns nothing.
type firmataConn interface {
	SetPinMode(pin uint8, mode firmata.PinMode) error
	AnalogWrite(pin uint, val byte) error
	DigitalWrite(pin uint8, val bool) error
	Close()
}

var _ firmataConn = (*firmata.FirmataClient)(nil)

// FirmataRig is the default hardware backend: an Arduino running stock
// Firmata, with each servo on a PWM-capable pin and the indicator LED on a
// digital pin. Replaces the original custom sketch entirely.
type FirmataRig struct {
	conn firmataConn
}

func NewFirmataRig(device string, baud int) (r *FirmataRig, err error) {
	client, err := firmata.NewClient(device, baud)
	if err != nil {
		return nil, err
	}

	return &FirmataRig{conn: client}, nil
}

func (r *FirmataRig) Servo(name string, pin uint8) *FirmataServo {
	return &FirmataServo{name: name, pin: pin, conn: r.conn}
}

func (r *FirmataRig) Indicator(pin uint8) (*FirmataIndicator, error) {
	if err := r.conn.SetPinMode(pin, firmata.Output); err != nil {
		return nil, err
	}
	return &FirmataIndicator{pin: pin, conn: r.conn}, nil
}

func (r *FirmataRig) Close() error {
	r.conn.Close()
	return nil
}

type FirmataServo struct {
	name     string
	pin      uint8
	conn     firmataConn
	angle    int
	attached bool
}

func (s *FirmataServo) Name() string {
	return s.name
}

func (s *FirmataServo) Attach() error {
	if err := s.conn.SetPinMode(s.pin, firmata.Servo); err != nil {
		return err
	}
	s.attached = true
	return nil
}

// Detach drops the control signal by releasing the pin, so the horn can be
// turned by hand during the detach/reattach diagnostic.
func (s *FirmataServo) Detach() error {
	if err := s.conn.SetPinMode(s.pin, firmata.Input); err != nil {
		return err
	}
	s.attached = false
	return nil
}

func (s *FirmataServo) Write(angle int) error {
	if err := checkAngle(s.name, angle); err != nil {
		return err
	}
	if !s.attached {
		return deverrors.DetachedError{Name: s.name}
	}

	// in servo pin mode an analog write carries the angle in degrees
	if err := s.conn.AnalogWrite(uint(s.pin), byte(angle)); err != nil {
		return err
	}

	s.angle = angle
	return nil
}

func (s *FirmataServo) Angle() int {
	return s.angle
}

type FirmataIndicator struct {
	pin  uint8
	conn firmataConn
}

func (i *FirmataIndicator) Set(on bool) error {
	return i.conn.DigitalWrite(i.pin, on)
}
