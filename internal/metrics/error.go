package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/diffdrive/internal/drivetrain"
)

type ErrorKind int

const (
	DriveError ErrorKind = iota
	TurnError
)

func (k ErrorKind) String() string {
	if k == TurnError {
		return "turn"
	}
	return "drive"
}

// RMSError is the root mean square of one loop's error over the run.
type RMSError struct {
	kind    ErrorKind
	squares []float64
}

func NewRMSError(kind ErrorKind) *RMSError { return &RMSError{kind: kind} }

func (m *RMSError) Name() string { return m.kind.String() + "_rms_error" }

func (m *RMSError) Observe(s drivetrain.Sample) {
	e := s.DriveError
	if m.kind == TurnError {
		e = s.TurnError
	}
	m.squares = append(m.squares, e*e)
}

func (m *RMSError) Value() float64 {
	if len(m.squares) == 0 {
		return 0
	}
	return math.Sqrt(stat.Mean(m.squares, nil))
}

// Peak is the largest absolute error observed.
func (m *RMSError) Peak() float64 {
	if len(m.squares) == 0 {
		return 0
	}
	return math.Sqrt(floats.Max(m.squares))
}

func (m *RMSError) Reset() { m.squares = m.squares[:0] }
