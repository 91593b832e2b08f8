package sorter

import (
	deverrors "github.com/binworks/gosortrig/sorter/errors"
)

// SimulatedActuator records every write so the whole control loop can run
// with no hardware attached (-sim flag and the test suite). It echoes its
// commanded angle as the measured position, i.e. it is a perfect servo.
type SimulatedActuator struct {
	name     string
	angle    int
	attached bool

	Writes   []int
	Attaches int
	Detaches int
}

func NewSimulatedActuator(name string) *SimulatedActuator {
	return &SimulatedActuator{name: name}
}

func (a *SimulatedActuator) Name() string {
	return a.name
}

func (a *SimulatedActuator) Attach() error {
	a.attached = true
	a.Attaches++
	return nil
}

func (a *SimulatedActuator) Detach() error {
	a.attached = false
	a.Detaches++
	return nil
}

func (a *SimulatedActuator) Write(angle int) error {
	if angle < 0 || angle > 180 {
		return deverrors.AngleRangeError{Name: a.name, Angle: angle}
	}
	if !a.attached {
		return deverrors.DetachedError{Name: a.name}
	}

	a.Writes = append(a.Writes, angle)
	a.angle = angle
	return nil
}

func (a *SimulatedActuator) Angle() int {
	return a.angle
}

func (a *SimulatedActuator) Position() (int, error) {
	return a.angle, nil
}

func NewSimulatedActuators() Actuators {
	return Actuators{
		Position: NewSimulatedActuator("position"),
		Flap:     NewSimulatedActuator("flap"),
	}
}

type SimulatedIndicator struct {
	On      bool
	Changes []bool
}

func (i *SimulatedIndicator) Set(on bool) error {
	i.On = on
	i.Changes = append(i.Changes, on)
	return nil
}
