// Package physics provides the dynamical models the simulated plant steps.
//
// [DiffDrive] implements [dynamo.System] and [dynamo.Configurable]: a
// planar differential drive whose wheel speeds follow each side's
// commanded voltage through a first-order lag.
package physics
