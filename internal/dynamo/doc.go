// Package dynamo provides the numerical primitives behind the simulated
// drivetrain plant.
//
//   - [State]: vector representing system state
//   - [System]: ODE right-hand side (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator
//   - [Configurable]: runtime-tunable parameters
//
// None of the types here are safe for concurrent use.
package dynamo
