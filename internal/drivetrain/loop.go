package drivetrain

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/hal"
)

const (
	telemetryPeriod = time.Second
	calibrationPoll = 100 * time.Millisecond
)

// StartTracking resets odometry to origin/heading and starts the tracking
// and telemetry tasks. ctx bounds only the reset; the tasks run until
// StopTracking.
func (d *Drivetrain) StartTracking(ctx context.Context, origin geom.Vector2, heading float64) error {
	d.life.Lock()
	defer d.life.Unlock()

	if d.IsTracking() {
		return ErrAlreadyTracking
	}
	if err := d.ResetTracking(ctx, origin, heading); err != nil {
		return err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(loopCtx)

	d.mu.Lock()
	d.tracking = true
	d.stopped = make(chan struct{})
	d.elapsed = 0
	period := d.cfg.Period
	d.mu.Unlock()

	d.cancel = cancel
	d.group = g
	g.Go(func() error { return d.track(gctx, period) })
	g.Go(func() error { return d.telemetry(gctx) })
	return nil
}

// StopTracking ends both tasks and returns once the motors have been
// commanded to zero.
func (d *Drivetrain) StopTracking() error {
	d.life.Lock()
	defer d.life.Unlock()

	d.mu.Lock()
	if !d.tracking {
		d.mu.Unlock()
		return ErrNotTracking
	}
	d.tracking = false
	close(d.stopped)
	d.mu.Unlock()

	d.cancel()
	err := d.group.Wait()
	d.cancel, d.group = nil, nil
	return err
}

// ResetTracking zeroes the sensors and places the estimate at
// origin/heading with a hold target. It waits for an in-progress IMU
// calibration to finish.
func (d *Drivetrain) ResetTracking(ctx context.Context, origin geom.Vector2, heading float64) error {
	if d.imu != nil {
		for d.imu.Calibrating() {
			if err := sleep(ctx, calibrationPoll); err != nil {
				return err
			}
		}
	}

	d.mu.Lock()
	uncalibrated := d.imu != nil && d.odom.UsingIMU() && !d.calibrated

	d.left.ResetRotation()
	d.right.ResetRotation()
	d.odom.Reset(origin, heading)

	d.pose = d.odom.Pose()
	d.forward = 0
	d.setTargetLocked(Relative{Distance: 0, Heading: d.pose.Heading}, true)
	d.mu.Unlock()

	if uncalibrated {
		d.log.Warnf("IMU has not been calibrated, heading may drift")
	}
	return nil
}

// CalibrateIMU runs the IMU calibration routine, blocking until it ends.
func (d *Drivetrain) CalibrateIMU(ctx context.Context) error {
	if d.imu == nil || !d.imu.Installed() {
		d.log.Errorf("IMU calibration skipped, no IMU installed")
		return ErrIMUUnavailable
	}

	d.log.Infof("calibrating IMU")
	if err := sleep(ctx, 250*time.Millisecond); err != nil {
		return err
	}
	d.imu.Calibrate()
	if err := sleep(ctx, calibrationPoll); err != nil {
		return err
	}
	for d.imu.Calibrating() {
		if err := sleep(ctx, 10*time.Millisecond); err != nil {
			return err
		}
	}
	if err := sleep(ctx, 250*time.Millisecond); err != nil {
		return err
	}

	d.mu.Lock()
	d.calibrated = true
	d.mu.Unlock()
	d.log.Infof("IMU calibrated")
	return nil
}

func (d *Drivetrain) track(ctx context.Context, period time.Duration) error {
	d.log.Infof("tracking started")
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Leave nothing running at a stale command.
			d.left.SetVoltage(0)
			d.right.SetVoltage(0)
			d.log.Infof("tracking stopped")
			return nil
		case <-ticker.C:
			d.cycle(period.Seconds())
		}
	}
}

// cycle runs one estimate/control/actuate step with a fixed dt.
func (d *Drivetrain) cycle(dt float64) Sample {
	d.mu.Lock()

	d.pose = d.odom.Update()
	d.forward = d.odom.ForwardTravel()
	d.elapsed += dt

	absolute := isAbsolute(d.target)
	driveErr, turnErr := d.target.errors(d.pose, d.forward)
	d.driveErr, d.turnErr = driveErr, turnErr

	drivePower := geom.Clamp(d.drivePID.Update(driveErr, dt), -d.cfg.MaxDrivePower, d.cfg.MaxDrivePower)
	turnPower := geom.Clamp(d.turnPID.Update(turnErr, dt), -d.cfg.MaxTurnPower, d.cfg.MaxTurnPower)
	if absolute {
		drivePower *= math.Cos(geom.Radians(turnErr))
	}
	left, right := mixVoltages(drivePower, turnPower)

	within := math.Abs(driveErr) <= d.cfg.DriveTolerance &&
		(math.Abs(turnErr) <= d.cfg.TurnTolerance || absolute)
	justSettled := d.settler.Observe(within)
	if justSettled {
		if absolute {
			d.target = Relative{Distance: d.forward, Heading: d.pose.Heading}
		}
		close(d.settledCh)
	}

	s := Sample{
		Elapsed:       time.Duration(d.elapsed * float64(time.Second)),
		Pose:          d.pose,
		ForwardTravel: d.forward,
		Target:        d.target,
		DriveError:    driveErr,
		TurnError:     turnErr,
		DrivePower:    drivePower,
		TurnPower:     turnPower,
		LeftVolts:     left,
		RightVolts:    right,
		Settled:       d.settler.Settled(),
	}
	observers := d.observers
	held := d.held.take()
	d.mu.Unlock()

	for _, msg := range held {
		d.log.Errorf("%s", msg)
	}
	if justSettled {
		d.log.Debugf("settled, drive error %.3f, turn error %.3f", driveErr, turnErr)
	}
	d.left.SetVoltage(left)
	d.right.SetVoltage(right)
	for _, o := range observers {
		o.OnCycle(s)
	}
	return s
}

// mixVoltages converts percent powers to side voltages, scaling both down
// together when either would exceed the actuator limit.
func mixVoltages(drivePower, turnPower float64) (left, right float64) {
	left = hal.MaxVoltage * (drivePower + turnPower) / 100
	right = hal.MaxVoltage * (drivePower - turnPower) / 100

	if peak := math.Max(math.Abs(left), math.Abs(right)); peak > hal.MaxVoltage {
		left *= hal.MaxVoltage / peak
		right *= hal.MaxVoltage / peak
	}
	return left, right
}

func (d *Drivetrain) telemetry(ctx context.Context) error {
	ticker := time.NewTicker(telemetryPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			pose := d.Pose()
			d.log.Infof("position %s, heading %.2f°", pose.Position, pose.Heading)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
