// Package integrators holds fixed-step solvers for dynamo systems.
package integrators

import "github.com/san-kum/diffdrive/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta method. Stage buffers are
// reused between calls, so an RK4 must not be shared across goroutines.
type RK4 struct {
	k       [4]dynamo.State
	scratch dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.scratch) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.scratch = make(dynamo.State, n)
}

// stage evaluates dyn at x + h*k and stores the derivative in out.
func (r *RK4) stage(dyn dynamo.System, x, k dynamo.State, u dynamo.Control, t, h float64, out dynamo.State) {
	for i := range x {
		r.scratch[i] = x[i] + h*k[i]
	}
	copy(out, dyn.Derive(r.scratch, u, t))
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.resize(len(x))
	half := dt / 2

	copy(r.k[0], dyn.Derive(x, u, t))
	r.stage(dyn, x, r.k[0], u, t+half, half, r.k[1])
	r.stage(dyn, x, r.k[1], u, t+half, half, r.k[2])
	r.stage(dyn, x, r.k[2], u, t+dt, dt, r.k[3])

	next := make(dynamo.State, len(x))
	for i := range x {
		next[i] = x[i] + dt/6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}
