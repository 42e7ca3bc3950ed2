package serialbridge

import "github.com/san-kum/diffdrive/internal/hal"

type encoder struct {
	b    *Bridge
	ch   int
	code string
}

func (e encoder) Rotation() float64 { return e.b.Status().Rotation[e.ch] }

func (e encoder) ResetRotation() { e.b.exec("RE " + e.code) }

type motor struct {
	b    *Bridge
	side hal.Side
}

func (m *motor) SetVoltage(v float64) {
	m.b.setVoltage(m.side, v)
}

func (m *motor) Rotation() float64 { return m.b.Status().Rotation[m.side] }

func (m *motor) ResetRotation() {
	code := "L"
	if m.side == hal.Right {
		code = "R"
	}
	m.b.exec("RE " + code)
}

type imu struct{ b *Bridge }

func (i imu) Heading() (float64, bool) {
	st := i.b.Status()
	return st.IMUHeading, st.Installed && st.IMUValid
}

func (i imu) Installed() bool   { return i.b.Status().Installed }
func (i imu) Calibrating() bool { return i.b.Status().Calibrating }
func (i imu) Calibrate()        { i.b.exec("CAL") }
func (i imu) ResetHeading()     { i.b.exec("RH") }
