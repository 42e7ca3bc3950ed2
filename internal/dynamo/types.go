package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Check validates x against dyn's dimension and rejects non-finite values.
func Check(dyn System, x State, t float64) error {
	if len(x) != dyn.StateDim() {
		return &StepError{Time: t, State: x, Wrapped: ErrDimensionMismatch}
	}
	if !x.IsValid() {
		return &StepError{Time: t, State: x, Wrapped: ErrInvalidState}
	}
	return nil
}
