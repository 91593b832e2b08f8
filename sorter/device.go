package sorter

import (
	"fmt"
	"log"
	"strings"

	"github.com/binworks/gosortrig/sorter/hardware"
	"github.com/binworks/gosortrig/sorter/serlink"
)

type Indicator interface {
	Set(on bool) error
}

// Actuators is the pair of servo handles the whole rig runs on. Exactly one
// owner (the control loop or a shell session) drives them at a time.
type Actuators struct {
	Position hardware.Actuator
	Flap     hardware.Actuator
}

type Sorter struct {
	acts     Actuators
	led      Indicator
	verifier hardware.PositionVerifier
	timing   TimingConfig
	flapOpen int
	link     serlink.Link
	console  *serlink.Console
}

// New builds the device around an already-constructed actuator pair. link
// may be nil when commands come from the operator shell instead.
func New(cfg SorterConfig, acts Actuators, led Indicator, link serlink.Link, lg *log.Logger) *Sorter {
	var verifier hardware.PositionVerifier = hardware.NoopVerifier{}
	if cfg.Verify.Enabled {
		verifier = hardware.FeedbackVerifier{Tolerance: cfg.Verify.Tolerance}
	}

	return &Sorter{
		acts:     acts,
		led:      led,
		verifier: verifier,
		timing:   cfg.Timing,
		flapOpen: cfg.FlapOpen,
		link:     link,
		console:  serlink.NewConsole(link, lg),
	}
}

// Home attaches both servos and moves them to their rest positions. Called
// once at startup and never implicitly after that.
func (s *Sorter) Home() error {
	if err := s.acts.Position.Attach(); err != nil {
		return err
	}
	if err := s.acts.Flap.Attach(); err != nil {
		return err
	}

	if err := s.acts.Position.Write(RestAngle); err != nil {
		return err
	}
	if err := s.acts.Flap.Write(FlapClosed); err != nil {
		return err
	}
	sleep(s.timing.HomeSettle)

	return nil
}

// Run is the production loop: poll one byte, dispatch, repeat. A command
// arriving while a sequence runs sits in the OS serial buffer or is lost;
// the host is expected to wait for the ACK before sending the next one.
func (s *Sorter) Run() error {
	s.banner()

	for {
		b, ok, err := s.link.PollByte()
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		s.Dispatch(b)
	}
}

func (s *Sorter) banner() {
	s.console.Printf("Garbage sorter ready")
	s.console.Printf("Commands: P(paper) M(metal) L(plastic) G(glass) T(trash) R(reset) F(flap test) S(position test) D(detach test)")
}

// Dispatch decodes one input byte and runs its handler to completion.
// Actuator faults are logged and swallowed: staying available for a reset or
// diagnostic command beats halting.
func (s *Sorter) Dispatch(b byte) {
	switch b {
	case '\r', '\n', '\t', ' ', 0:
		// line-buffered hosts send trailing newlines; not commands
		return
	}

	cmd, err := ParseCommand(b)
	if err != nil {
		s.console.Printf("Unknown command %q", string(b))
		return
	}

	switch cmd.Kind {
	case KindSort:
		err = s.Sort(cmd.Material)

	case KindDiagnostic:
		switch cmd.Routine {
		case RoutineReset:
			err = s.Reset()
		case RoutineFlapTest:
			err = s.FlapSweepTest()
		case RoutinePositionTest:
			err = s.PositionSelfTest()
		case RoutineDetachTest:
			err = s.DetachTest()
		}
	}

	if err != nil {
		s.console.Printf("command %q failed: %v", string(cmd.Code), err)
	}
}

// Sort runs the full four-phase sequence for one material and emits exactly
// one ACK byte once it completes.
func (s *Sorter) Sort(m Material) error {
	if _, ok := BinAngles[m]; !ok {
		return fmt.Errorf("no bin angle for material %q", m)
	}

	s.console.Printf("Sorting to %s bin", strings.ToUpper(string(m)))

	if err := s.runSequence(s.sortSequence(m)); err != nil {
		return err
	}

	s.console.Printf("%s sorted, sequence complete - ready for next item", titleCase(string(m)))
	s.console.Ack()
	return nil
}

func (s *Sorter) actuator(t StepTarget) hardware.Actuator {
	if t == TargetFlap {
		return s.acts.Flap
	}
	return s.acts.Position
}

func titleCase(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
