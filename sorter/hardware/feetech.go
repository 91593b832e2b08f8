package hardware

import (
	"context"
	"fmt"

	"github.com/hipsterbrown/feetech-servo/feetech"

	deverrors "github.com/binworks/gosortrig/sorter/errors"
)

// STS servos count 4096 positions over a full turn, centered at 2048.
const (
	feetechCountsPerRev = 4096
	feetechCenterCount  = 2048
)

// FeetechRig drives STS-series bus servos. Unlike the PWM backend these
// report their measured shaft position, so servos from this rig also satisfy
// PositionReader and work with FeedbackVerifier.
type FeetechRig struct {
	bus *feetech.Bus
}

func NewFeetechRig(port string, baud int) (r *FeetechRig, err error) {
	bus, err := feetech.NewBus(feetech.BusConfig{
		Port:     port,
		BaudRate: baud,
		Protocol: feetech.ProtocolSTS,
	})
	if err != nil {
		return nil, fmt.Errorf("open bus: %w", err)
	}

	return &FeetechRig{bus: bus}, nil
}

func (r *FeetechRig) Servo(name string, id int) *FeetechServo {
	return &FeetechServo{
		name:  name,
		id:    id,
		group: feetech.NewServoGroupByIDs(r.bus, id),
	}
}

func (r *FeetechRig) Close() error {
	return r.bus.Close()
}

type FeetechServo struct {
	name     string
	id       int
	group    *feetech.ServoGroup
	angle    int
	attached bool
}

func (s *FeetechServo) Name() string {
	return s.name
}

func (s *FeetechServo) Attach() error {
	if err := s.group.EnableAll(context.Background()); err != nil {
		return fmt.Errorf("enable torque: %w", err)
	}
	s.attached = true
	return nil
}

func (s *FeetechServo) Detach() error {
	if err := s.group.DisableAll(context.Background()); err != nil {
		return fmt.Errorf("disable torque: %w", err)
	}
	s.attached = false
	return nil
}

func (s *FeetechServo) Write(angle int) error {
	if err := checkAngle(s.name, angle); err != nil {
		return err
	}
	if !s.attached {
		return deverrors.DetachedError{Name: s.name}
	}

	raw := feetech.PositionMap{s.id: degreesToCounts(angle)}
	if err := s.group.SetPositions(context.Background(), raw); err != nil {
		return fmt.Errorf("write position: %w", err)
	}

	s.angle = angle
	return nil
}

func (s *FeetechServo) Angle() int {
	return s.angle
}

// Position reads the measured shaft angle back from the servo.
func (s *FeetechServo) Position() (int, error) {
	raw, err := s.group.Positions(context.Background())
	if err != nil {
		return 0, fmt.Errorf("read position: %w", err)
	}

	counts, ok := raw[s.id]
	if !ok {
		return 0, fmt.Errorf("servo %d missing from position reply", s.id)
	}

	return countsToDegrees(counts), nil
}

func degreesToCounts(angle int) int {
	return feetechCenterCount + divRound((angle-90)*feetechCountsPerRev, 360)
}

func countsToDegrees(counts int) int {
	return 90 + divRound((counts-feetechCenterCount)*360, feetechCountsPerRev)
}

// divRound divides rounding half away from zero; plain integer division
// would bias every converted angle toward center.
func divRound(n, d int) int {
	if n < 0 {
		return -((-n + d/2) / d)
	}
	return (n + d/2) / d
}
