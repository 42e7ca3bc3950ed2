// Package odometry estimates a differential drive's pose from wheel travel
// and an optional inertial sensor.
//
// Two strategies share the [Estimator] contract: [TwoWheel] for parallel
// left/right wheels and [ThreeWheel], which adds a lateral tracking wheel.
// Neither is safe for concurrent use; the drivetrain serialises access.
package odometry

import (
	"fmt"
	"math"

	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/hal"
)

type Estimator interface {
	// Update samples the sensors once and integrates the pose.
	Update() geom.Pose
	Pose() geom.Pose
	Heading() float64
	ForwardTravel() float64
	// Reset zeroes the sensors and places the robot at origin/heading.
	Reset(origin geom.Vector2, heading float64)
	UsingIMU() bool
	TrackWidth() float64
	SetTrackWidth(width float64) error
}

// Sensors are the devices shared by every strategy. IMU may be nil.
type Sensors struct {
	Left, Right *TrackingWheel
	IMU         hal.IMU
}

type tracker struct {
	left, right *TrackingWheel
	heading     headingSource
	trackWidth  float64

	pose        geom.Pose
	prevHeading float64
	prevForward float64
}

func newTracker(s Sensors, trackWidth float64, log Logger) (tracker, error) {
	if s.Left == nil || s.Right == nil {
		return tracker{}, fmt.Errorf("%w: left and right wheels are required", ErrInvalidGeometry)
	}
	if trackWidth <= 0 {
		return tracker{}, fmt.Errorf("%w: track width must be positive, got %f", ErrInvalidGeometry, trackWidth)
	}
	if log == nil {
		log = nopLogger{}
	}
	return tracker{
		left:       s.Left,
		right:      s.Right,
		heading:    headingSource{imu: s.IMU, log: log},
		trackWidth: trackWidth,
	}, nil
}

func (t *tracker) Pose() geom.Pose { return t.pose }

func (t *tracker) Heading() float64 {
	return t.heading.heading(t.left.Travel(), t.right.Travel(), t.trackWidth)
}

func (t *tracker) ForwardTravel() float64 {
	return (t.left.Travel() + t.right.Travel()) / 2
}

func (t *tracker) UsingIMU() bool { return t.heading.usingIMU() }

func (t *tracker) TrackWidth() float64 { return t.trackWidth }

func (t *tracker) SetTrackWidth(width float64) error {
	if width <= 0 {
		return fmt.Errorf("%w: track width must be positive, got %f", ErrInvalidGeometry, width)
	}
	t.trackWidth = width
	return nil
}

func (t *tracker) reset(origin geom.Vector2, heading float64) {
	t.left.Reset()
	t.right.Reset()
	t.heading.reset(heading)

	t.pose = geom.Pose{Position: origin, Heading: geom.NormalizeDegrees(heading)}
	t.prevHeading = t.pose.Heading
	t.prevForward = 0
}

// advance integrates a local (forward, lateral) displacement over a heading
// change, using the chord of the arc swept between samples and rotating it
// by the average heading.
func (t *tracker) advance(heading, forward, lateral float64) {
	dHeading := geom.SignedDegrees(heading - t.prevHeading)
	avg := t.prevHeading + dHeading/2

	local := geom.Vec(forward, lateral)
	if dHeading != 0 {
		rad := geom.Radians(dHeading)
		local = local.Scale(2 * math.Sin(rad/2) / rad)
	}

	t.pose.Position = t.pose.Position.Add(local.Rotated(geom.Radians(avg)))
	t.pose.Heading = heading
	t.prevHeading = heading
}

// TwoWheel tracks with a left and right wheel only.
type TwoWheel struct {
	tracker
}

func NewTwoWheel(s Sensors, trackWidth float64, log Logger) (*TwoWheel, error) {
	t, err := newTracker(s, trackWidth, log)
	if err != nil {
		return nil, err
	}
	return &TwoWheel{tracker: t}, nil
}

func (o *TwoWheel) Reset(origin geom.Vector2, heading float64) { o.reset(origin, heading) }

func (o *TwoWheel) Update() geom.Pose {
	heading := o.Heading()
	forward := o.ForwardTravel()

	o.advance(heading, forward-o.prevForward, 0)
	o.prevForward = forward
	return o.pose
}

// ThreeWheel adds a lateral wheel mounted LateralOffset ahead of the centre
// of rotation (negative when behind). Its rotation-induced travel is removed
// before integration.
type ThreeWheel struct {
	tracker
	lateral     *TrackingWheel
	offset      float64
	prevLateral float64
}

func NewThreeWheel(s Sensors, lateral *TrackingWheel, lateralOffset, trackWidth float64, log Logger) (*ThreeWheel, error) {
	if lateral == nil {
		return nil, fmt.Errorf("%w: lateral wheel is required", ErrInvalidGeometry)
	}
	if lateralOffset == 0 {
		return nil, fmt.Errorf("%w: lateral wheel offset cannot be 0", ErrInvalidGeometry)
	}
	t, err := newTracker(s, trackWidth, log)
	if err != nil {
		return nil, err
	}
	return &ThreeWheel{tracker: t, lateral: lateral, offset: lateralOffset}, nil
}

func (o *ThreeWheel) Reset(origin geom.Vector2, heading float64) {
	o.lateral.Reset()
	o.prevLateral = 0
	o.reset(origin, heading)
}

func (o *ThreeWheel) LateralOffset() float64 { return o.offset }

func (o *ThreeWheel) Update() geom.Pose {
	heading := o.Heading()
	forward := o.ForwardTravel()
	lateral := o.lateral.Travel()

	dHeading := geom.SignedDegrees(heading - o.prevHeading)
	dLateral := (lateral - o.prevLateral) - geom.Radians(dHeading)*o.offset

	o.advance(heading, forward-o.prevForward, dLateral)
	o.prevForward = forward
	o.prevLateral = lateral
	return o.pose
}

var (
	_ Estimator = (*TwoWheel)(nil)
	_ Estimator = (*ThreeWheel)(nil)
)
