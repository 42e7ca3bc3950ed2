package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/integrators"
)

func run(d *DiffDrive, x dynamo.State, u dynamo.Control, seconds float64) dynamo.State {
	rk4 := integrators.NewRK4()
	dt := 0.001
	for i := 0; i < int(seconds/dt); i++ {
		x = rk4.Step(d, x, u, float64(i)*dt, dt)
	}
	return x
}

func TestDiffDriveStraight(t *testing.T) {
	d := NewDiffDrive()
	x := dynamo.State{0, 0, math.Pi / 2, 0, 0}
	x = run(d, x, dynamo.Control{6, 6}, 2)

	if math.Abs(x[StateX]) > 1e-9 {
		t.Errorf("drifted sideways: x=%.6f", x[StateX])
	}
	if x[StateY] <= 0 {
		t.Errorf("expected forward travel along +y, got y=%.3f", x[StateY])
	}
	if math.Abs(x[StateVLeft]-6*d.SpeedGain) > 1e-3 {
		t.Errorf("wheel speed should settle at %.3f, got %.3f", 6*d.SpeedGain, x[StateVLeft])
	}
}

func TestDiffDriveSpin(t *testing.T) {
	d := NewDiffDrive()
	x := run(d, dynamo.State{1, 2, 0, 0, 0}, dynamo.Control{-4, 4}, 1)

	if math.Abs(x[StateX]-1) > 1e-9 || math.Abs(x[StateY]-2) > 1e-9 {
		t.Errorf("spin in place moved the robot to (%.6f, %.6f)", x[StateX], x[StateY])
	}
	if x[StateTheta] <= 0 {
		t.Errorf("right-forward spin should turn counter-clockwise, theta=%.3f", x[StateTheta])
	}
}

func TestDiffDriveDeadband(t *testing.T) {
	d := NewDiffDrive()
	d.Deadband = 1
	x := run(d, make(dynamo.State, 5), dynamo.Control{0.5, -0.9}, 0.5)
	for i, v := range x {
		if v != 0 {
			t.Errorf("state[%d] = %f, expected no motion under deadband", i, v)
		}
	}
}

func TestDiffDriveParams(t *testing.T) {
	d := NewDiffDrive()
	if err := d.SetParam("speed_gain", 3); err != nil {
		t.Fatalf("SetParam: %v", err)
	}
	if got := d.GetParams()["speed_gain"]; got != 3 {
		t.Errorf("speed_gain = %f, expected 3", got)
	}
	if err := d.SetParam("time_const", 0); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if err := d.SetParam("mass", 1); !errors.Is(err, dynamo.ErrUnknownParameter) {
		t.Errorf("expected ErrUnknownParameter, got %v", err)
	}
}
