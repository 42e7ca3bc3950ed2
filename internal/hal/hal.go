// Package hal defines the actuation and sensing surface the drivetrain
// consumes. Implementations live in internal/plant (simulation) and
// internal/hal/serialbridge (a motor-controller board on a serial port).
package hal

// Side selects one half of a differential drive.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// MaxVoltage is the actuator command magnitude limit.
const MaxVoltage = 12.0

// Encoder reports cumulative shaft rotation in degrees.
type Encoder interface {
	Rotation() float64
	ResetRotation()
}

// Motor is one side's motor group. Its built-in encoder doubles as the
// wheel sensor when no dedicated tracking encoder is fitted.
type Motor interface {
	Encoder
	SetVoltage(volts float64)
}

// IMU is an inertial sensor reporting a clockwise-positive heading in
// degrees within [0, 360).
type IMU interface {
	// Heading returns false when no reading is available.
	Heading() (float64, bool)
	Installed() bool
	Calibrating() bool
	// Calibrate starts calibration; Calibrating reports progress.
	Calibrate()
	ResetHeading()
}
