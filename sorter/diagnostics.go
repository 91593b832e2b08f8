package sorter

// Operator-triggered routines for isolating a faulty servo, pin or wiring
// run without the classification pipeline. None of these run automatically,
// and all of their output carries the [diag] marker.

var materialOrder = []Material{Paper, Metal, Plastic, Glass, Trash}

// Reset drives both servos back to their rest positions. Safe at any time.
func (s *Sorter) Reset() error {
	s.console.Diagf("reset: homing both servos")

	if err := s.acts.Position.Write(RestAngle); err != nil {
		return err
	}
	if err := s.acts.Flap.Write(FlapClosed); err != nil {
		return err
	}
	sleep(s.timing.HomeSettle)

	s.console.Diagf("reset complete")
	return nil
}

// PositionSelfTest first slams the positioning servo through full-range
// jumps to knock a bound axis loose, then stops at every bin angle long
// enough to eyeball it. Angles reported are the commanded values; the
// hardware cannot confirm them.
func (s *Sorter) PositionSelfTest() error {
	s.console.Diagf("position self-test: full range jumps")

	for i := 0; i < 3; i++ {
		for _, angle := range []int{0, 180, 0} {
			if err := s.acts.Position.Write(angle); err != nil {
				return err
			}
			sleep(s.timing.PositionSettle)
		}
	}

	s.console.Diagf("position self-test: stepping through bin angles")
	for _, m := range materialOrder {
		angle := BinAngles[m]
		if err := s.acts.Position.Write(angle); err != nil {
			return err
		}
		s.console.Diagf("position at %d deg (%s), nominal", angle, m)
		sleep(s.timing.DiagDwell)
	}

	if err := s.acts.Position.Write(RestAngle); err != nil {
		return err
	}
	sleep(s.timing.HomeSettle)

	s.console.Diagf("position self-test complete")
	return nil
}

// FlapSweepTest runs the same ramp the sorting sequence uses, standalone,
// so flap trouble can be separated from positioning trouble.
func (s *Sorter) FlapSweepTest() error {
	s.console.Diagf("flap sweep test: 0 -> %d -> 0", s.flapOpen)

	if err := s.ramp(s.acts.Flap, s.flapOpen, s.console.Diagf); err != nil {
		return err
	}
	sleep(s.timing.OpenDwell)

	if err := s.ramp(s.acts.Flap, FlapClosed, s.console.Diagf); err != nil {
		return err
	}
	sleep(s.timing.CloseSettle)

	s.console.Diagf("flap sweep test complete")
	return nil
}

// DetachTest releases the positioning servo's control signal so the horn
// can be moved by hand, then reacquires it and re-homes. Distinguishes a
// wedged controller from a dead or stuck servo.
func (s *Sorter) DetachTest() error {
	s.console.Diagf("detach test: releasing positioning servo, move it by hand")

	if err := s.acts.Position.Detach(); err != nil {
		return err
	}
	sleep(s.timing.DetachPause)

	s.console.Diagf("detach test: reattaching and homing")
	if err := s.acts.Position.Attach(); err != nil {
		return err
	}
	if err := s.acts.Position.Write(RestAngle); err != nil {
		return err
	}
	sleep(s.timing.HomeSettle)

	s.console.Diagf("detach test complete")
	return nil
}

// State reports the last commanded angles, for the operator shell.
func (s *Sorter) State() (position, flap int) {
	return s.acts.Position.Angle(), s.acts.Flap.Angle()
}
