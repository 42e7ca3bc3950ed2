package control

import (
	"fmt"
	"math"

	"github.com/san-kum/diffdrive/internal/geom"
)

// Gains are the PID constants. IThreshold gates integration to errors
// smaller than it; zero disables gating.
type Gains struct {
	KP         float64 `yaml:"kp" json:"kp"`
	KI         float64 `yaml:"ki" json:"ki"`
	KD         float64 `yaml:"kd" json:"kd"`
	IThreshold float64 `yaml:"i_threshold" json:"i_threshold"`
}

type PID struct {
	gains    Gains
	integral float64
	prevErr  float64
	first    bool
}

func NewPID(g Gains) *PID {
	return &PID{
		gains: g,
		first: true,
	}
}

// Update advances the controller by dt seconds and returns its output.
// dt must be positive.
func (p *PID) Update(err, dt float64) float64 {
	if p.first {
		p.prevErr = err
		p.first = false
	}

	if p.gains.IThreshold == 0 || math.Abs(err) < p.gains.IThreshold {
		p.integral += err * dt
	}

	// Overshoot: drop accumulated windup once the error crosses zero.
	if geom.Sign(err) != geom.Sign(p.prevErr) {
		p.integral = 0
	}

	derivative := (err - p.prevErr) / dt
	u := p.gains.KP*err + p.gains.KI*p.integral + p.gains.KD*derivative

	p.prevErr = err
	return u
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

func (p *PID) Gains() Gains { return p.gains }

// SetGains swaps the constants without touching runtime state.
func (p *PID) SetGains(g Gains) { p.gains = g }

func (p *PID) Integral() float64 { return p.integral }

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":          p.gains.KP,
		"ki":          p.gains.KI,
		"kd":          p.gains.KD,
		"i_threshold": p.gains.IThreshold,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.gains.KP = value
	case "ki":
		p.gains.KI = value
	case "kd":
		p.gains.KD = value
	case "i_threshold":
		if value < 0 {
			return fmt.Errorf("i_threshold must be non-negative, got %f", value)
		}
		p.gains.IThreshold = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
