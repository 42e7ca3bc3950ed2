package plant

import (
	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/hal"
	"github.com/san-kum/diffdrive/internal/physics"
)

type motor struct {
	p    *Plant
	side hal.Side
}

func (m motor) SetVoltage(volts float64) {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	m.p.volts[m.side] = geom.Clamp(volts, -hal.MaxVoltage, hal.MaxVoltage)
}

func (m motor) Rotation() float64 {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	return m.p.rotation(m.p.travel[m.side] - m.p.travelZero[m.side])
}

func (m motor) ResetRotation() {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	m.p.travelZero[m.side] = m.p.travel[m.side]
}

func (p *Plant) Left() hal.Motor  { return motor{p: p, side: hal.Left} }
func (p *Plant) Right() hal.Motor { return motor{p: p, side: hal.Right} }

// lateralEncoder rolls only when the body rotates about its centre, so its
// reading is LateralOffset times the heading change.
type lateralEncoder struct{ p *Plant }

func (e lateralEncoder) Rotation() float64 {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	dTheta := e.p.x[physics.StateTheta] - e.p.lateralRef
	return e.p.rotation(e.p.cfg.LateralOffset * dTheta)
}

func (e lateralEncoder) ResetRotation() {
	e.p.mu.Lock()
	defer e.p.mu.Unlock()
	e.p.lateralRef = e.p.x[physics.StateTheta]
}

// LateralEncoder returns nil when the plant has no lateral wheel.
func (p *Plant) LateralEncoder() hal.Encoder {
	if p.cfg.LateralOffset == 0 {
		return nil
	}
	return lateralEncoder{p: p}
}

type imu struct{ p *Plant }

// Heading reports clockwise-positive degrees from the last reset.
func (i imu) Heading() (float64, bool) {
	i.p.mu.Lock()
	defer i.p.mu.Unlock()
	if !i.p.imuInstalled || i.p.t < i.p.calibratingTo {
		return 0, false
	}
	ccw := geom.Degrees(i.p.x[physics.StateTheta] - i.p.imuRef)
	return geom.NormalizeDegrees(-ccw), true
}

func (i imu) Installed() bool {
	i.p.mu.Lock()
	defer i.p.mu.Unlock()
	return i.p.imuInstalled
}

func (i imu) Calibrating() bool {
	i.p.mu.Lock()
	defer i.p.mu.Unlock()
	return i.p.imuInstalled && i.p.t < i.p.calibratingTo
}

func (i imu) Calibrate() {
	i.p.mu.Lock()
	defer i.p.mu.Unlock()
	i.p.calibratingTo = i.p.t + i.p.cfg.Calibration.Seconds()
}

func (i imu) ResetHeading() {
	i.p.mu.Lock()
	defer i.p.mu.Unlock()
	i.p.imuRef = i.p.x[physics.StateTheta]
}

// IMU returns nil when the plant was configured without one.
func (p *Plant) IMU() hal.IMU {
	if !p.cfg.HasIMU {
		return nil
	}
	return imu{p: p}
}

// Unplug makes the IMU report itself missing, as a disconnected cable would.
func (p *Plant) Unplug() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.imuInstalled = false
}

func (p *Plant) Plug() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.imuInstalled = p.cfg.HasIMU
}
