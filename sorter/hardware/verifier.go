package hardware

import "fmt"

// PositionVerifier decides whether an actuator actually reached a target.
// The rig ships with open-loop servos, so the default is the no-op; a
// feedback-capable backend can plug in FeedbackVerifier without touching
// the sequencer.
type PositionVerifier interface {
	Verify(a Actuator, target int) error
}

type NoopVerifier struct{}

func (NoopVerifier) Verify(a Actuator, target int) error {
	return nil
}

type FeedbackVerifier struct {
	Tolerance int // degrees of acceptable error either side of target
}

func (v FeedbackVerifier) Verify(a Actuator, target int) error {
	r, ok := a.(PositionReader)
	if !ok {
		// nothing to measure against, behave like the no-op
		return nil
	}

	pos, err := r.Position()
	if err != nil {
		return err
	}

	tol := v.Tolerance
	if tol <= 0 {
		tol = 3
	}

	if pos < target-tol || pos > target+tol {
		return fmt.Errorf("actuator %s at %d°, expected %d°±%d", a.Name(), pos, target, tol)
	}

	return nil
}
