package integrators

import "github.com/san-kum/diffdrive/internal/dynamo"

// Euler is the explicit first-order method, kept for cheap bench runs.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + dt*dx[i]
	}
	return next
}

// New returns the integrator registered under name.
func New(name string) (dynamo.Integrator, bool) {
	switch name {
	case "", "rk4":
		return NewRK4(), true
	case "euler":
		return NewEuler(), true
	}
	return nil, false
}
