package drivetrain

import (
	"fmt"

	"github.com/san-kum/diffdrive/internal/control"
)

func (d *Drivetrain) DriveGains() control.Gains {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.DriveGains
}

// SetDriveGains retunes the drive controller without resetting it.
func (d *Drivetrain) SetDriveGains(g control.Gains) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.DriveGains = g
	d.drivePID.SetGains(g)
}

func (d *Drivetrain) TurnGains() control.Gains {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.TurnGains
}

func (d *Drivetrain) SetTurnGains(g control.Gains) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.TurnGains = g
	d.turnPID.SetGains(g)
}

func (d *Drivetrain) DriveTolerance() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.DriveTolerance
}

func (d *Drivetrain) SetDriveTolerance(tol float64) error {
	if tol < 0 {
		return fmt.Errorf("%w: drive tolerance cannot be negative, got %f", ErrInvalidConfig, tol)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.DriveTolerance = tol
	return nil
}

func (d *Drivetrain) TurnTolerance() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.TurnTolerance
}

func (d *Drivetrain) SetTurnTolerance(tol float64) error {
	if tol < 0 {
		return fmt.Errorf("%w: turn tolerance cannot be negative, got %f", ErrInvalidConfig, tol)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.TurnTolerance = tol
	return nil
}

func (d *Drivetrain) LookaheadDistance() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.LookaheadDistance
}

func (d *Drivetrain) SetLookaheadDistance(dist float64) error {
	if dist <= 0 {
		return fmt.Errorf("%w: lookahead distance must be positive, got %f", ErrInvalidConfig, dist)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.LookaheadDistance = dist
	return nil
}

func (d *Drivetrain) TrackWidth() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.TrackWidth
}

func (d *Drivetrain) SetTrackWidth(width float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.odom.SetTrackWidth(width); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	d.cfg.TrackWidth = width
	return nil
}

func (d *Drivetrain) WheelDiameter() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.WheelDiameter
}

// SetWheelDiameter applies to every tracking wheel.
func (d *Drivetrain) SetWheelDiameter(diameter float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.wheels {
		if err := w.SetDiameter(diameter); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	d.cfg.WheelDiameter = diameter
	return nil
}

func (d *Drivetrain) Gearing() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.Gearing
}

func (d *Drivetrain) SetGearing(gearing float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.wheels {
		if err := w.SetGearing(gearing); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	d.cfg.Gearing = gearing
	return nil
}

func (d *Drivetrain) MaxDrivePower() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.MaxDrivePower
}

// SetMaxDrivePower caps drive output, in percent.
func (d *Drivetrain) SetMaxDrivePower(power float64) error {
	if power < 0 {
		return fmt.Errorf("%w: max drive power cannot be negative, got %f", ErrInvalidConfig, power)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.MaxDrivePower = power
	return nil
}

func (d *Drivetrain) MaxTurnPower() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.MaxTurnPower
}

func (d *Drivetrain) SetMaxTurnPower(power float64) error {
	if power < 0 {
		return fmt.Errorf("%w: max turn power cannot be negative, got %f", ErrInvalidConfig, power)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.MaxTurnPower = power
	return nil
}
