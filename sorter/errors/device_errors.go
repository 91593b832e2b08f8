package errors

import "fmt"

type UnknownCommandError struct {
	Code byte
}

func (err UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", err.Code)
}

type AngleRangeError struct {
	Name  string
	Angle int
}

func (err AngleRangeError) Error() string {
	if len(err.Name) == 0 {
		err.Name = "UNKOWN"
	}

	return fmt.Sprintf("angle %d out of range 0-180 for actuator %s", err.Angle, err.Name)
}

type DetachedError struct {
	Name string
}

func (err DetachedError) Error() string {
	return fmt.Sprintf("actuator %s is detached", err.Name)
}
