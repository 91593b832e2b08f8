package hardware

import (
	"errors"

	deverrors "github.com/binworks/gosortrig/sorter/errors"
)

const (
	ANGLE_MIN = 0
	ANGLE_MAX = 180

	WRITE_MAX_RETRIES = 5
)

var (
	ERR_MAX_RETRIES = errors.New("WRITE_MAX_RETRIES reached without a verified position")
)

// Actuator is a single hobby servo axis. Angle returns the last commanded
// value, not a measurement; plain PWM servos echo writes and report nothing.
type Actuator interface {
	Name() string
	Write(angle int) error
	Angle() int
	Attach() error
	Detach() error
}

// PositionReader is implemented by backends that can measure the real shaft
// position (smart bus servos). PWM backends do not implement it.
type PositionReader interface {
	Position() (angle int, err error)
}

func checkAngle(name string, angle int) error {
	if angle < ANGLE_MIN || angle > ANGLE_MAX {
		return deverrors.AngleRangeError{Name: name, Angle: angle}
	}
	return nil
}

// WriteVerified issues a write and, when the verifier can observe the axis,
// re-issues it until the position checks out or WRITE_MAX_RETRIES is hit.
// With the no-op verifier this collapses to a single open-loop write.
func WriteVerified(a Actuator, angle int, v PositionVerifier) error {
	if v == nil {
		v = NoopVerifier{}
	}

	var err error
	for i := 0; i < WRITE_MAX_RETRIES; i++ {
		if err = a.Write(angle); err != nil {
			return err
		}

		if err = v.Verify(a, angle); err == nil {
			return nil
		}
	}

	return ERR_MAX_RETRIES
}
