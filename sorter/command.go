package sorter

import (
	deverrors "github.com/binworks/gosortrig/sorter/errors"
)

type Material string

const (
	Paper   Material = "paper"
	Metal   Material = "metal"
	Plastic Material = "plastic"
	Glass   Material = "glass"
	Trash   Material = "trash"
)

// BinAngles is the wire contract with the classification host: one letter per
// material, one fixed positioning angle per letter. Changing these angles
// means re-mounting the bins, not just editing config.
var BinAngles = map[Material]int{
	Paper:   0,
	Metal:   45,
	Plastic: 90,
	Glass:   135,
	Trash:   180,
}

const (
	RestAngle  = 90 // positioning servo neutral between sorts
	FlapClosed = 0
)

type CommandKind int

const (
	KindSort CommandKind = iota
	KindDiagnostic
)

type Routine int

const (
	RoutineReset Routine = iota
	RoutineFlapTest
	RoutinePositionTest
	RoutineDetachTest
)

// Command is one decoded input byte. Sort and diagnostic commands share the
// serial channel but are kept apart here so handlers never have to sniff
// raw bytes again.
type Command struct {
	Code     byte
	Kind     CommandKind
	Material Material // valid when Kind == KindSort
	Routine  Routine  // valid when Kind == KindDiagnostic
}

// ParseCommand decodes a single byte, case-insensitively.
func ParseCommand(b byte) (cmd Command, err error) {
	c := b
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}

	cmd.Code = c

	switch c {
	case 'P':
		cmd.Material = Paper
	case 'M':
		cmd.Material = Metal
	case 'L':
		cmd.Material = Plastic
	case 'G':
		cmd.Material = Glass
	case 'T':
		cmd.Material = Trash

	case 'R':
		cmd.Kind = KindDiagnostic
		cmd.Routine = RoutineReset
	case 'F':
		cmd.Kind = KindDiagnostic
		cmd.Routine = RoutineFlapTest
	case 'S':
		cmd.Kind = KindDiagnostic
		cmd.Routine = RoutinePositionTest
	case 'D':
		cmd.Kind = KindDiagnostic
		cmd.Routine = RoutineDetachTest

	default:
		err = deverrors.UnknownCommandError{Code: b}
	}

	return
}
