package odometry

import (
	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/hal"
)

// Logger receives the one diagnostic the estimator emits.
type Logger interface {
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Errorf(string, ...any) {}

// headingSource prefers the IMU and permanently falls back to wheel-derived
// heading the first time a configured IMU reports itself missing.
type headingSource struct {
	imu     hal.IMU
	lost    bool
	lastIMU float64
	start   float64
	log     Logger
}

func (h *headingSource) usingIMU() bool { return h.imu != nil && !h.lost }

func (h *headingSource) heading(left, right, trackWidth float64) float64 {
	if h.imu != nil && !h.lost && !h.imu.Installed() {
		h.lost = true
		h.log.Errorf("IMU was unplugged, switching to wheel-derived heading for the rest of the session")
	}

	if h.usingIMU() {
		if raw, ok := h.imu.Heading(); ok {
			h.lastIMU = geom.NormalizeDegrees(360 - raw + h.start)
		}
		return h.lastIMU
	}

	// (right - left) / track width is the counter-clockwise rotation in radians.
	return geom.NormalizeDegrees(geom.Degrees((right-left)/trackWidth) + h.start)
}

func (h *headingSource) reset(heading float64) {
	if h.imu != nil {
		h.imu.ResetHeading()
	}
	h.start = heading
	h.lastIMU = geom.NormalizeDegrees(heading)
}
