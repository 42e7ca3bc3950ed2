package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/diffdrive/internal/dynamo"
)

// State layout: x, y (inches), theta (radians, counter-clockwise from +x),
// left and right wheel surface speed (inches/second).
const (
	StateX = iota
	StateY
	StateTheta
	StateVLeft
	StateVRight
	diffDriveDim
)

const (
	DefaultTrackWidth = 13.75
	DefaultSpeedGain  = 5.0 // in/s per volt
	DefaultTimeConst  = 0.08
)

type DiffDrive struct {
	TrackWidth float64
	// SpeedGain is the free-running wheel speed per volt.
	SpeedGain float64
	// TimeConst is the first-order lag of wheel speed behind the command.
	TimeConst float64
	// Deadband is subtracted from each voltage magnitude, modelling static
	// friction.
	Deadband float64
}

func NewDiffDrive() *DiffDrive {
	return &DiffDrive{
		TrackWidth: DefaultTrackWidth,
		SpeedGain:  DefaultSpeedGain,
		TimeConst:  DefaultTimeConst,
	}
}

func (d *DiffDrive) StateDim() int   { return diffDriveDim }
func (d *DiffDrive) ControlDim() int { return 2 }

func (d *DiffDrive) effective(volts float64) float64 {
	mag := math.Abs(volts) - d.Deadband
	if mag <= 0 {
		return 0
	}
	return math.Copysign(mag, volts)
}

func (d *DiffDrive) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	theta := x[StateTheta]
	vl, vr := x[StateVLeft], x[StateVRight]

	var ul, ur float64
	if len(u) >= 2 {
		ul, ur = d.effective(u[0]), d.effective(u[1])
	}

	v := (vl + vr) / 2
	omega := (vr - vl) / d.TrackWidth

	return dynamo.State{
		v * math.Cos(theta),
		v * math.Sin(theta),
		omega,
		(d.SpeedGain*ul - vl) / d.TimeConst,
		(d.SpeedGain*ur - vr) / d.TimeConst,
	}
}

func (d *DiffDrive) GetParams() map[string]float64 {
	return map[string]float64{
		"track_width": d.TrackWidth,
		"speed_gain":  d.SpeedGain,
		"time_const":  d.TimeConst,
		"deadband":    d.Deadband,
	}
}

func (d *DiffDrive) SetParam(name string, value float64) error {
	switch name {
	case "track_width", "speed_gain", "time_const":
		if value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %f", dynamo.ErrParameterBounds, name, value)
		}
	case "deadband":
		if value < 0 {
			return fmt.Errorf("%w: deadband cannot be negative, got %f", dynamo.ErrParameterBounds, value)
		}
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}

	switch name {
	case "track_width":
		d.TrackWidth = value
	case "speed_gain":
		d.SpeedGain = value
	case "time_const":
		d.TimeConst = value
	case "deadband":
		d.Deadband = value
	}
	return nil
}
