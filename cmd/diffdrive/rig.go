package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/diffdrive/internal/automation"
	"github.com/san-kum/diffdrive/internal/config"
	"github.com/san-kum/diffdrive/internal/drivetrain"
	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/hal"
	"github.com/san-kum/diffdrive/internal/hal/serialbridge"
	"github.com/san-kum/diffdrive/internal/integrators"
	"github.com/san-kum/diffdrive/internal/metrics"
	"github.com/san-kum/diffdrive/internal/plant"
	"github.com/san-kum/diffdrive/internal/storage"
)

// rig is a drivetrain wired to either the simulator or a serial board,
// with the run's metrics and trace recorder attached.
type rig struct {
	cfg      *config.Config
	log      *log.Logger
	drive    *drivetrain.Drivetrain
	metrics  *metrics.Set
	recorder *storage.Recorder
	hooks    automation.Hooks
	source   string

	plant  *plant.Plant
	bridge *serialbridge.Bridge
	cancel context.CancelFunc
	group  *errgroup.Group
}

func newRig(cfg *config.Config, logger *log.Logger) (*rig, error) {
	r := &rig{cfg: cfg, log: logger, metrics: metrics.Standard()}

	var (
		left, right hal.Motor
		opts        []drivetrain.Option
		truth       func() geom.Pose
	)

	if cfg.Serial.Port != "" {
		b, err := serialbridge.Open(cfg.Serial.Port, cfg.Serial.Baud, logger)
		if err != nil {
			return nil, err
		}
		r.bridge, r.source = b, "serial:"+cfg.Serial.Port
		left, right = b.Left(), b.Right()
		if cfg.Sensors.IMU {
			opts = append(opts, drivetrain.WithIMU(b.IMU()))
		}
		if cfg.Sensors.LateralOffset != 0 {
			opts = append(opts, drivetrain.WithLateralWheel(b.Lateral(), cfg.Sensors.LateralOffset))
		}
	} else {
		integ, ok := integrators.New(cfg.Plant.Integrator)
		if !ok {
			return nil, fmt.Errorf("unknown integrator: %s", cfg.Plant.Integrator)
		}
		p, err := plant.New(cfg.Physics(), integ, cfg.PlantConfig())
		if err != nil {
			return nil, err
		}
		p.Place(cfg.StartPose())
		r.plant, r.source = p, "sim"
		left, right = p.Left(), p.Right()
		if imu := p.IMU(); imu != nil {
			opts = append(opts, drivetrain.WithIMU(imu))
		}
		if lat := p.LateralEncoder(); lat != nil {
			opts = append(opts, drivetrain.WithLateralWheel(lat, cfg.Sensors.LateralOffset))
		}
		truth = p.Pose
		r.hooks = automation.Hooks{UnplugIMU: p.Unplug, PlugIMU: p.Plug}
	}

	r.recorder = storage.NewRecorder(truth)
	opts = append(opts,
		drivetrain.WithLogger(logger),
		drivetrain.WithObserver(r.metrics),
		drivetrain.WithObserver(r.recorder),
	)

	d, err := drivetrain.New(left, right, cfg.Drivetrain(), opts...)
	if err != nil {
		r.closeBridge()
		return nil, err
	}
	r.drive = d
	return r, nil
}

// start runs the simulator, if any, and begins tracking at the configured
// start pose.
func (r *rig) start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(runCtx)
	r.cancel, r.group = cancel, g
	if r.plant != nil {
		g.Go(func() error { return r.plant.Run(gctx) })
	}

	start := r.cfg.StartPose()
	if err := r.drive.StartTracking(ctx, start.Position, start.Heading); err != nil {
		r.shutdown()
		return err
	}
	r.log.Info("tracking", "source", r.source, "pose", start)
	return nil
}

// shutdown stops tracking, the simulator and the serial link.
func (r *rig) shutdown() error {
	var errs []error
	if r.drive.IsTracking() {
		errs = append(errs, r.drive.StopTracking())
	}
	if r.cancel != nil {
		r.cancel()
		errs = append(errs, r.group.Wait())
	}
	errs = append(errs, r.closeBridge())
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *rig) closeBridge() error {
	if r.bridge == nil {
		return nil
	}
	if err := r.bridge.Err(); err != nil {
		r.log.Warn("serial link reported errors", "last", err)
	}
	return r.bridge.Close()
}

// save stores the recorded trace under name.
func (r *rig) save(st *storage.Store, name, profile string) (string, error) {
	return st.Save(storage.RunMetadata{
		Name:    name,
		Profile: profile,
		Source:  r.source,
		Period:  r.cfg.Controller.Period,
		Metrics: r.metrics.Values(),
	}, r.recorder.Rows())
}
