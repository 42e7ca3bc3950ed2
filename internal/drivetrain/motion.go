package drivetrain

import (
	"context"
	"time"

	"github.com/san-kum/diffdrive/internal/geom"
)

const pollInterval = 10 * time.Millisecond

// setTargetLocked replaces the target and re-arms the settle detector.
// newMove also resets both controllers so the first cycle of a movement
// has no derivative kick.
func (d *Drivetrain) setTargetLocked(t Target, newMove bool) {
	d.target = t
	if d.settler.Settled() {
		d.settledCh = make(chan struct{})
	}
	d.settler.Clear()
	if newMove {
		d.drivePID.Reset()
		d.turnPID.Reset()
	}
}

// relativeHeadingLocked is the heading a relative command keeps when only
// its distance changes.
func (d *Drivetrain) relativeHeadingLocked() float64 {
	if r, ok := d.target.(Relative); ok {
		return r.Heading
	}
	return d.odom.Heading()
}

func (d *Drivetrain) relativeDistanceLocked() float64 {
	if r, ok := d.target.(Relative); ok {
		return r.Distance
	}
	return d.odom.ForwardTravel()
}

// command applies mutate under the lock, then waits for settle if blocking.
func (d *Drivetrain) command(ctx context.Context, blocking bool, mutate func()) error {
	d.mu.Lock()
	if blocking && !d.tracking {
		d.mu.Unlock()
		return ErrNotTracking
	}
	mutate()
	d.mu.Unlock()

	if !blocking {
		return nil
	}
	return d.WaitUntilSettled(ctx)
}

// Drive moves distance along the current heading target; negative reverses.
func (d *Drivetrain) Drive(ctx context.Context, distance float64, blocking bool) error {
	d.log.Debugf("driving for %.3f", distance)
	return d.command(ctx, blocking, func() {
		target := Relative{
			Distance: d.odom.ForwardTravel() + distance,
			Heading:  d.relativeHeadingLocked(),
		}
		d.setTargetLocked(target, true)
	})
}

// TurnTo rotates in place to an absolute heading in degrees.
func (d *Drivetrain) TurnTo(ctx context.Context, heading float64, blocking bool) error {
	d.log.Debugf("turning to %.2f°", heading)
	return d.command(ctx, blocking, func() {
		target := Relative{
			Distance: d.relativeDistanceLocked(),
			Heading:  geom.NormalizeDegrees(heading),
		}
		d.setTargetLocked(target, true)
	})
}

// TurnToPoint seeks point as an absolute target, so points more than 90°
// off the nose are approached in reverse instead of turned toward.
func (d *Drivetrain) TurnToPoint(ctx context.Context, point geom.Vector2, blocking bool) error {
	d.log.Debugf("turning to %s", point)
	return d.command(ctx, blocking, func() {
		d.setTargetLocked(Absolute{Point: point}, true)
	})
}

// MoveTo drives to point, reversing when it lies behind the robot.
func (d *Drivetrain) MoveTo(ctx context.Context, point geom.Vector2, blocking bool) error {
	d.log.Debugf("moving to %s, distance %.3f", point, d.Position().Distance(point))
	return d.command(ctx, blocking, func() {
		d.setTargetLocked(Absolute{Point: point}, true)
	})
}

// HoldPosition freezes the current travel and heading as the target.
func (d *Drivetrain) HoldPosition() {
	d.mu.Lock()
	target := Relative{Distance: d.odom.ForwardTravel(), Heading: d.odom.Heading()}
	d.setTargetLocked(target, true)
	d.mu.Unlock()
	d.log.Debugf("holding position, forward travel %.3f, heading %.2f°", target.Distance, target.Heading)
}

// WaitUntilSettled blocks until the active target settles. There is no
// timeout besides ctx.
func (d *Drivetrain) WaitUntilSettled(ctx context.Context) error {
	d.mu.Lock()
	if !d.tracking {
		d.mu.Unlock()
		return ErrNotTracking
	}
	if d.settler.Settled() {
		d.mu.Unlock()
		return nil
	}
	settled, stopped := d.settledCh, d.stopped
	d.mu.Unlock()

	select {
	case <-settled:
		return nil
	case <-stopped:
		return ErrNotTracking
	case <-ctx.Done():
		return ctx.Err()
	}
}

// FollowPath steers through waypoints with pure pursuit and blocks until
// the robot settles on the last one.
func (d *Drivetrain) FollowPath(ctx context.Context, path []geom.Vector2) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}

	d.mu.Lock()
	if !d.tracking {
		d.mu.Unlock()
		return ErrNotTracking
	}
	lookahead := d.cfg.LookaheadDistance
	waypoints := append([]geom.Vector2{d.pose.Position}, path...)
	d.drivePID.Reset()
	d.turnPID.Reset()
	d.mu.Unlock()

	d.log.Debugf("following path of %d waypoints", len(path))

	for i := 0; i < len(waypoints)-1; i++ {
		start, end := waypoints[i], waypoints[i+1]
		for {
			d.mu.Lock()
			if !d.tracking {
				d.mu.Unlock()
				return ErrNotTracking
			}
			position := d.pose.Position
			if position.Distance(end) <= lookahead {
				d.mu.Unlock()
				break
			}
			if p, ok := pursuitPoint(position, lookahead, start, end); ok {
				d.setTargetLocked(Absolute{Point: p}, false)
			}
			d.mu.Unlock()

			if err := sleep(ctx, pollInterval); err != nil {
				return err
			}
		}
	}

	d.mu.Lock()
	d.setTargetLocked(Absolute{Point: path[len(path)-1]}, false)
	d.mu.Unlock()
	return d.WaitUntilSettled(ctx)
}
