// Package drivetrain closes the loop between odometry and the motors of a
// differential drive.
//
// A [Drivetrain] runs a fixed-period tracking loop that estimates pose,
// computes drive and turn error against the active [Target], and commands
// both motor groups through two PID controllers. Movement methods replace
// the target; blocking variants wait for the settle detector.
//
//	dt, err := drivetrain.New(left, right, cfg, drivetrain.WithIMU(imu))
//	if err != nil {
//	    return err
//	}
//	if err := dt.StartTracking(ctx, geom.Vec(0, 0), 90); err != nil {
//	    return err
//	}
//	defer dt.StopTracking()
//	err = dt.Drive(ctx, 48, true)
//
// All methods are safe for concurrent use.
package drivetrain

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/hal"
	"github.com/san-kum/diffdrive/internal/odometry"
)

type Drivetrain struct {
	left, right hal.Motor
	imu         hal.IMU
	wheels      []*odometry.TrackingWheel
	odom        odometry.Estimator
	log         Logger

	// life serialises StartTracking/StopTracking.
	life   sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group

	mu         sync.Mutex
	cfg        Config
	drivePID   *control.PID
	turnPID    *control.PID
	settler    *control.Settler
	settledCh  chan struct{}
	stopped    chan struct{}
	target     Target
	pose       geom.Pose
	forward    float64
	driveErr   float64
	turnErr    float64
	tracking   bool
	calibrated bool
	elapsed    float64
	observers  []Observer
	// held collects odometry diagnostics raised under mu.
	held heldLog
}

type heldLog struct{ msgs []string }

func (h *heldLog) Errorf(format string, args ...any) {
	h.msgs = append(h.msgs, fmt.Sprintf(format, args...))
}

func (h *heldLog) take() []string {
	msgs := h.msgs
	h.msgs = nil
	return msgs
}

type options struct {
	imu           hal.IMU
	left, right   hal.Encoder
	lateral       hal.Encoder
	lateralOffset float64
	log           Logger
	observers     []Observer
}

type Option func(*options)

func WithIMU(imu hal.IMU) Option {
	return func(o *options) { o.imu = imu }
}

// WithEncoders tracks with dedicated wheels instead of the motors' built-in
// encoders.
func WithEncoders(left, right hal.Encoder) Option {
	return func(o *options) { o.left, o.right = left, right }
}

// WithLateralWheel selects three-wheel odometry. offset is the wheel's
// distance ahead of the centre of rotation and must be non-zero.
func WithLateralWheel(enc hal.Encoder, offset float64) Option {
	return func(o *options) { o.lateral, o.lateralOffset = enc, offset }
}

func WithLogger(l Logger) Option {
	return func(o *options) { o.log = l }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observers = append(o.observers, obs) }
}

// New builds a drivetrain over two motor groups. Invalid geometry is
// rejected with ErrInvalidConfig.
func New(left, right hal.Motor, cfg Config, opts ...Option) (*Drivetrain, error) {
	if left == nil || right == nil {
		return nil, fmt.Errorf("%w: both motor groups are required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = log.New(io.Discard)
	}

	var leftEnc, rightEnc hal.Encoder = left, right
	if o.left != nil && o.right != nil {
		leftEnc, rightEnc = o.left, o.right
	}

	d := &Drivetrain{
		left:      left,
		right:     right,
		imu:       o.imu,
		log:       o.log,
		cfg:       cfg,
		drivePID:  control.NewPID(cfg.DriveGains),
		turnPID:   control.NewPID(cfg.TurnGains),
		settler:   control.NewSettler(cfg.SettleCycles),
		settledCh: make(chan struct{}),
		stopped:   make(chan struct{}),
		target:    Relative{Heading: DefaultStartHeading},
		pose:      geom.Pose{Heading: DefaultStartHeading},
		observers: o.observers,
	}
	close(d.stopped)

	lw, err := d.wheel(leftEnc)
	if err != nil {
		return nil, err
	}
	rw, err := d.wheel(rightEnc)
	if err != nil {
		return nil, err
	}
	sensors := odometry.Sensors{Left: lw, Right: rw, IMU: o.imu}

	if o.lateral != nil {
		lat, err := d.wheel(o.lateral)
		if err != nil {
			return nil, err
		}
		d.odom, err = odometry.NewThreeWheel(sensors, lat, o.lateralOffset, cfg.TrackWidth, &d.held)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	} else {
		d.odom, err = odometry.NewTwoWheel(sensors, cfg.TrackWidth, &d.held)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	d.odom.Reset(geom.Vector2{}, DefaultStartHeading)
	return d, nil
}

func (d *Drivetrain) wheel(enc hal.Encoder) (*odometry.TrackingWheel, error) {
	w, err := odometry.NewTrackingWheel(enc, d.cfg.WheelDiameter, d.cfg.Gearing)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	d.wheels = append(d.wheels, w)
	return w, nil
}

// AddObserver registers obs for every subsequent cycle.
func (d *Drivetrain) AddObserver(obs Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, obs)
}

func (d *Drivetrain) IsTracking() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracking
}

func (d *Drivetrain) IsSettled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settler.Settled()
}

// Pose is the estimate from the most recent tracking cycle.
func (d *Drivetrain) Pose() geom.Pose {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pose
}

func (d *Drivetrain) Position() geom.Vector2 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pose.Position
}

// Heading samples the heading source now, in degrees within [0, 360).
func (d *Drivetrain) Heading() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.odom.Heading()
}

// ForwardTravel samples the average wheel travel since the last reset.
func (d *Drivetrain) ForwardTravel() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.odom.ForwardTravel()
}

func (d *Drivetrain) DriveError() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.driveErr
}

func (d *Drivetrain) TurnError() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.turnErr
}

func (d *Drivetrain) Target() Target {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target
}

// UsingIMU is false once the heading source has fallen back to the wheels.
func (d *Drivetrain) UsingIMU() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.odom.UsingIMU()
}

// Config returns a snapshot of the live tuning.
func (d *Drivetrain) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}
