package drivetrain

import "errors"

var (
	// ErrInvalidConfig rejects geometry or limits that would make the
	// control loop undefined.
	ErrInvalidConfig = errors.New("drivetrain: invalid configuration")

	// ErrNotTracking is returned by blocking calls while the tracking loop
	// is not running, or when it stops during the wait.
	ErrNotTracking = errors.New("drivetrain: tracking is not running")

	ErrAlreadyTracking = errors.New("drivetrain: tracking already running")

	ErrEmptyPath = errors.New("drivetrain: path has no waypoints")

	// ErrIMUUnavailable is returned when calibration is requested with no
	// IMU attached or plugged in.
	ErrIMUUnavailable = errors.New("drivetrain: IMU not installed")
)
