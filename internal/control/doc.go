// Package control provides the feedback primitives of the drivetrain:
//
//   - [PID]: gated-integral, anti-windup PID law
//   - [Settler]: consecutive in-tolerance cycle counter
//
// # Usage
//
//	pid := control.NewPID(control.Gains{KP: 4.24, KD: 0.06})
//	out := pid.Update(err, 0.01) // error, seconds since last call
//
// PID implements live tuning through GetParams/SetParam.
package control
