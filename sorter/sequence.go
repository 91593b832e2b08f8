package sorter

import (
	"time"

	"github.com/binworks/gosortrig/sorter/hardware"
)

type StepTarget int

const (
	TargetPosition StepTarget = iota
	TargetFlap
)

// Step is one actuator move plus the settle time that must elapse before
// the next move may start. Sequences are built per command, run to
// completion and thrown away; timing lives in config, not in code.
type Step struct {
	Target StepTarget
	Angle  int
	Dwell  time.Duration
	Ramp   bool
	Note   string
}

func (s *Sorter) sortSequence(m Material) []Step {
	t := s.timing
	return []Step{
		{TargetPosition, BinAngles[m], t.PositionSettle.std(), false, "select " + string(m) + " bin"},
		{TargetFlap, s.flapOpen, t.OpenDwell.std(), true, "open flap, dropping item"},
		{TargetFlap, FlapClosed, t.CloseSettle.std(), true, "close flap"},
		{TargetPosition, RestAngle, t.HomeSettle.std(), false, "return to rest"},
	}
}

// runSequence executes steps strictly in order, blocking through each dwell.
// The indicator stays on for the whole sequence. A positioning write that
// fails verification is retried by WriteVerified; when the retries run out
// the sequence still continues, matching the open-loop hardware's behavior.
func (s *Sorter) runSequence(steps []Step) error {
	if s.led != nil {
		s.led.Set(true)
		defer s.led.Set(false)
	}

	for i, step := range steps {
		act := s.actuator(step.Target)
		s.console.Printf("step %d/%d: %s -> %d deg (%s)", i+1, len(steps), act.Name(), step.Angle, step.Note)

		var err error
		if step.Ramp {
			err = s.ramp(act, step.Angle, s.console.Printf)
		} else {
			err = hardware.WriteVerified(act, step.Angle, s.verifier)
			if err == hardware.ERR_MAX_RETRIES {
				s.console.Printf("%s did not verify at %d deg, continuing open loop", act.Name(), step.Angle)
				err = nil
			}
		}
		if err != nil {
			return err
		}

		time.Sleep(step.Dwell)
	}

	return nil
}

// ramp sweeps an actuator to the target in 2 degree increments with a short
// delay per increment, logging roughly every 30 degrees of travel. Slower
// than a single write but far easier on the mechanism and the item.
func (s *Sorter) ramp(act hardware.Actuator, target int, logf func(string, ...interface{})) error {
	const increment = 2
	delay := s.timing.FlapStep.std()

	angle := act.Angle()
	dir := increment
	if target < angle {
		dir = -increment
	}

	for angle != target {
		next := angle + dir
		if (dir > 0 && next > target) || (dir < 0 && next < target) {
			next = target
		}

		if err := act.Write(next); err != nil {
			return err
		}
		if next%30 == 0 || next == target {
			logf("  %s at %d deg", act.Name(), next)
		}

		angle = next
		if angle != target {
			time.Sleep(delay)
		}
	}

	return nil
}

func (d Duration) std() time.Duration {
	return time.Duration(d)
}

func sleep(d Duration) {
	time.Sleep(time.Duration(d))
}
