package automation

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/diffdrive/internal/geom"
)

// Robot is the command surface a scenario drives. *drivetrain.Drivetrain
// implements it.
type Robot interface {
	Drive(ctx context.Context, distance float64, blocking bool) error
	TurnTo(ctx context.Context, heading float64, blocking bool) error
	TurnToPoint(ctx context.Context, point geom.Vector2, blocking bool) error
	MoveTo(ctx context.Context, point geom.Vector2, blocking bool) error
	FollowPath(ctx context.Context, path []geom.Vector2) error
	HoldPosition()
	WaitUntilSettled(ctx context.Context) error
	CalibrateIMU(ctx context.Context) error

	SetDriveTolerance(tol float64) error
	SetTurnTolerance(tol float64) error
	SetLookaheadDistance(dist float64) error
	SetMaxDrivePower(power float64) error
	SetMaxTurnPower(power float64) error
}

// Hooks reach past the drivetrain into the environment, e.g. the
// simulator. Unset hooks make their actions fail.
type Hooks struct {
	UnplugIMU func()
	PlugIMU   func()
}

type Logger interface {
	Infof(format string, args ...any)
}

type action func(ctx context.Context, r Robot, h Hooks, s Step) error

var actions = map[string]action{
	"drive": func(ctx context.Context, r Robot, _ Hooks, s Step) error {
		return r.Drive(ctx, s.Distance, s.blocking())
	},
	"turn_to": func(ctx context.Context, r Robot, _ Hooks, s Step) error {
		return r.TurnTo(ctx, s.Heading, s.blocking())
	},
	"turn_to_point": func(ctx context.Context, r Robot, _ Hooks, s Step) error {
		return r.TurnToPoint(ctx, s.Point, s.blocking())
	},
	"move_to": func(ctx context.Context, r Robot, _ Hooks, s Step) error {
		return r.MoveTo(ctx, s.Point, s.blocking())
	},
	"follow_path": func(ctx context.Context, r Robot, _ Hooks, s Step) error {
		return r.FollowPath(ctx, s.Path)
	},
	"hold": func(_ context.Context, r Robot, _ Hooks, _ Step) error {
		r.HoldPosition()
		return nil
	},
	"settle": func(ctx context.Context, r Robot, _ Hooks, _ Step) error {
		return r.WaitUntilSettled(ctx)
	},
	"wait": func(ctx context.Context, _ Robot, _ Hooks, s Step) error {
		t := time.NewTimer(s.Duration)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	},
	"calibrate": func(ctx context.Context, r Robot, _ Hooks, _ Step) error {
		return r.CalibrateIMU(ctx)
	},
	"set": func(_ context.Context, r Robot, _ Hooks, s Step) error {
		return setParam(r, s.Param, s.Value)
	},
	"unplug_imu": func(_ context.Context, _ Robot, h Hooks, _ Step) error {
		if h.UnplugIMU == nil {
			return fmt.Errorf("unplug_imu is only available in simulation")
		}
		h.UnplugIMU()
		return nil
	},
	"plug_imu": func(_ context.Context, _ Robot, h Hooks, _ Step) error {
		if h.PlugIMU == nil {
			return fmt.Errorf("plug_imu is only available in simulation")
		}
		h.PlugIMU()
		return nil
	},
}

func setParam(r Robot, name string, value float64) error {
	switch name {
	case "drive_tolerance":
		return r.SetDriveTolerance(value)
	case "turn_tolerance":
		return r.SetTurnTolerance(value)
	case "lookahead":
		return r.SetLookaheadDistance(value)
	case "max_drive_power":
		return r.SetMaxDrivePower(value)
	case "max_turn_power":
		return r.SetMaxTurnPower(value)
	}
	return fmt.Errorf("unknown param: %s", name)
}

// Run executes every step in order and stops at the first failure.
func Run(ctx context.Context, sc *Scenario, r Robot, h Hooks, log Logger) error {
	for i, step := range sc.Steps {
		act, ok := actions[step.Action]
		if !ok {
			return fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, step.Action)
		}
		if log != nil {
			log.Infof("step %d/%d: %s", i+1, len(sc.Steps), step)
		}

		stepCtx, cancel := ctx, context.CancelFunc(func() {})
		if sc.StepTimeout > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, sc.StepTimeout)
		}
		err := act(stepCtx, r, h, step)
		cancel()
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
	}
	return nil
}
