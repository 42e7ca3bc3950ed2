// Package plant simulates a differential drive behind the hal interfaces so
// the drivetrain can run unmodified against it.
//
// A Plant advances either by explicit [Plant.Step] calls or in real time
// from [Plant.Run]. All methods are safe for concurrent use.
package plant

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/san-kum/diffdrive/internal/dynamo"
	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/hal"
	"github.com/san-kum/diffdrive/internal/integrators"
	"github.com/san-kum/diffdrive/internal/physics"
)

type Config struct {
	// WheelDiameter and Gearing convert wheel travel into the encoder
	// degrees the motors report.
	WheelDiameter float64
	Gearing       float64
	// LateralOffset places the lateral tracking wheel ahead of the centre
	// of rotation. Zero means no lateral wheel is fitted.
	LateralOffset float64
	HasIMU        bool
	Calibration   time.Duration
	// Step bounds the integration timestep.
	Step time.Duration
}

func DefaultConfig() Config {
	return Config{
		WheelDiameter: 3.25,
		Gearing:       0.6,
		HasIMU:        true,
		Calibration:   2 * time.Second,
		Step:          time.Millisecond,
	}
}

type Plant struct {
	mu    sync.Mutex
	cfg   Config
	dyn   *physics.DiffDrive
	integ dynamo.Integrator

	x     dynamo.State
	volts [2]float64
	t     float64

	travel     [2]float64
	travelZero [2]float64
	lateralRef float64

	imuInstalled  bool
	imuRef        float64
	calibratingTo float64
}

func New(dyn *physics.DiffDrive, integ dynamo.Integrator, cfg Config) (*Plant, error) {
	if cfg.WheelDiameter <= 0 || cfg.Gearing == 0 {
		return nil, fmt.Errorf("%w: wheel diameter %f, gearing %f", dynamo.ErrParameterBounds, cfg.WheelDiameter, cfg.Gearing)
	}
	if cfg.Step <= 0 {
		cfg.Step = time.Millisecond
	}
	if dyn == nil {
		dyn = physics.NewDiffDrive()
	}
	if integ == nil {
		integ = integrators.NewRK4()
	}
	return &Plant{
		cfg:          cfg,
		dyn:          dyn,
		integ:        integ,
		x:            make(dynamo.State, dyn.StateDim()),
		imuInstalled: cfg.HasIMU,
	}, nil
}

// Place teleports the robot to pose and stops both wheels. Encoder and IMU
// readings are left untouched.
func (p *Plant) Place(pose geom.Pose) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.x[physics.StateX] = pose.Position.X
	p.x[physics.StateY] = pose.Position.Y
	p.x[physics.StateTheta] = geom.Radians(pose.Heading)
	p.x[physics.StateVLeft] = 0
	p.x[physics.StateVRight] = 0
}

// Pose is the ground-truth pose, heading in degrees within [0, 360).
func (p *Plant) Pose() geom.Pose {
	p.mu.Lock()
	defer p.mu.Unlock()
	return geom.Pose{
		Position: geom.Vec(p.x[physics.StateX], p.x[physics.StateY]),
		Heading:  geom.NormalizeDegrees(geom.Degrees(p.x[physics.StateTheta])),
	}
}

func (p *Plant) State() dynamo.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x.Clone()
}

// Time is the simulated time in seconds.
func (p *Plant) Time() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.t
}

func (p *Plant) Voltages() (left, right float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volts[hal.Left], p.volts[hal.Right]
}

// Step advances the simulation by dt seconds, subdividing into steps no
// longer than the configured integration step.
func (p *Plant) Step(dt float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	maxStep := p.cfg.Step.Seconds()
	for dt > 1e-12 {
		h := math.Min(dt, maxStep)
		if err := p.stepLocked(h); err != nil {
			return err
		}
		dt -= h
	}
	return nil
}

func (p *Plant) stepLocked(h float64) error {
	u := dynamo.Control{p.volts[hal.Left], p.volts[hal.Right]}
	next := p.integ.Step(p.dyn, p.x, u, p.t, h)
	if err := dynamo.Check(p.dyn, next, p.t+h); err != nil {
		return err
	}

	// Trapezoidal wheel travel between samples.
	p.travel[hal.Left] += h * (p.x[physics.StateVLeft] + next[physics.StateVLeft]) / 2
	p.travel[hal.Right] += h * (p.x[physics.StateVRight] + next[physics.StateVRight]) / 2

	p.x = next
	p.t += h
	return nil
}

// Run steps the plant against the wall clock until ctx is done.
func (p *Plant) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Step)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last).Seconds()
			last = now
			if err := p.Step(elapsed); err != nil {
				return err
			}
		}
	}
}

func (p *Plant) GetParams() map[string]float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dyn.GetParams()
}

func (p *Plant) SetParam(name string, value float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dyn.SetParam(name, value)
}

// rotation converts wheel travel in inches to encoder degrees.
func (p *Plant) rotation(travel float64) float64 {
	return travel / (math.Pi * p.cfg.WheelDiameter * p.cfg.Gearing) * 360
}

var _ dynamo.Configurable = (*Plant)(nil)
