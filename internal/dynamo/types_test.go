package dynamo

import (
	"errors"
	"math"
	"testing"
)

type twoState struct{}

func (twoState) Derive(x State, u Control, t float64) State { return State{0, 0} }
func (twoState) StateDim() int                              { return 2 }
func (twoState) ControlDim() int                            { return 0 }

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		x    State
		want error
	}{
		{"valid", State{1, 2}, nil},
		{"short", State{1}, ErrDimensionMismatch},
		{"nan", State{math.NaN(), 0}, ErrInvalidState},
		{"inf", State{0, math.Inf(1)}, ErrInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(twoState{}, tt.x, 1.5)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Check() = %v, want %v", err, tt.want)
			}
			var se *StepError
			if tt.want != nil && (!errors.As(err, &se) || se.Time != 1.5) {
				t.Errorf("expected StepError at t=1.5, got %v", err)
			}
		})
	}
}

func TestClone(t *testing.T) {
	x := State{1, 2, 3}
	c := x.Clone()
	c[0] = 9
	if x[0] != 1 {
		t.Errorf("Clone shares backing array")
	}
}
