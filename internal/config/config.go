// Package config loads YAML robot profiles and turns them into drivetrain
// and plant settings.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/diffdrive/internal/control"
	"github.com/san-kum/diffdrive/internal/drivetrain"
	"github.com/san-kum/diffdrive/internal/geom"
	"github.com/san-kum/diffdrive/internal/physics"
	"github.com/san-kum/diffdrive/internal/plant"
)

const (
	DefaultBaud    = 115200
	DefaultLogging = "info"
)

type Config struct {
	Name       string           `yaml:"name"`
	Controller ControllerConfig `yaml:"controller"`
	Geometry   GeometryConfig   `yaml:"geometry"`
	Sensors    SensorConfig     `yaml:"sensors"`
	Plant      PlantConfig      `yaml:"plant"`
	Start      StartConfig      `yaml:"start"`
	Serial     SerialConfig     `yaml:"serial"`
	LogLevel   string           `yaml:"log_level"`
}

type ControllerConfig struct {
	Drive          control.Gains `yaml:"drive"`
	Turn           control.Gains `yaml:"turn"`
	DriveTolerance float64       `yaml:"drive_tolerance"`
	TurnTolerance  float64       `yaml:"turn_tolerance"`
	Lookahead      float64       `yaml:"lookahead"`
	MaxDrivePower  float64       `yaml:"max_drive_power"`
	MaxTurnPower   float64       `yaml:"max_turn_power"`
	Period         time.Duration `yaml:"period"`
	SettleCycles   int           `yaml:"settle_cycles"`
}

type GeometryConfig struct {
	TrackWidth    float64 `yaml:"track_width"`
	WheelDiameter float64 `yaml:"wheel_diameter"`
	Gearing       float64 `yaml:"gearing"`
}

type SensorConfig struct {
	IMU bool `yaml:"imu"`
	// LateralOffset enables three-wheel odometry when non-zero.
	LateralOffset float64 `yaml:"lateral_offset"`
}

// PlantConfig tunes the simulated robot.
type PlantConfig struct {
	Integrator  string        `yaml:"integrator"`
	SpeedGain   float64       `yaml:"speed_gain"`
	TimeConst   float64       `yaml:"time_const"`
	Deadband    float64       `yaml:"deadband"`
	Calibration time.Duration `yaml:"calibration"`
	Step        time.Duration `yaml:"step"`
}

type StartConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
}

// SerialConfig selects a real robot; an empty Port means the simulator.
type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

func DefaultConfig() *Config {
	dc := drivetrain.DefaultConfig()
	pc := plant.DefaultConfig()
	return &Config{
		Name: "default",
		Controller: ControllerConfig{
			Drive:          dc.DriveGains,
			Turn:           dc.TurnGains,
			DriveTolerance: dc.DriveTolerance,
			TurnTolerance:  dc.TurnTolerance,
			Lookahead:      dc.LookaheadDistance,
			MaxDrivePower:  dc.MaxDrivePower,
			MaxTurnPower:   dc.MaxTurnPower,
			Period:         dc.Period,
			SettleCycles:   dc.SettleCycles,
		},
		Geometry: GeometryConfig{
			TrackWidth:    dc.TrackWidth,
			WheelDiameter: dc.WheelDiameter,
			Gearing:       dc.Gearing,
		},
		Sensors: SensorConfig{IMU: true},
		Plant: PlantConfig{
			Integrator:  "rk4",
			SpeedGain:   physics.DefaultSpeedGain,
			TimeConst:   physics.DefaultTimeConst,
			Calibration: pc.Calibration,
			Step:        pc.Step,
		},
		Start:    StartConfig{Heading: drivetrain.DefaultStartHeading},
		Serial:   SerialConfig{Baud: DefaultBaud},
		LogLevel: DefaultLogging,
	}
}

// Load reads path over the defaults, so a profile only needs the fields it
// changes.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	return c.Drivetrain().Validate()
}

func (c *Config) Drivetrain() drivetrain.Config {
	return drivetrain.Config{
		DriveGains:        c.Controller.Drive,
		TurnGains:         c.Controller.Turn,
		DriveTolerance:    c.Controller.DriveTolerance,
		TurnTolerance:     c.Controller.TurnTolerance,
		LookaheadDistance: c.Controller.Lookahead,
		TrackWidth:        c.Geometry.TrackWidth,
		WheelDiameter:     c.Geometry.WheelDiameter,
		Gearing:           c.Geometry.Gearing,
		MaxDrivePower:     c.Controller.MaxDrivePower,
		MaxTurnPower:      c.Controller.MaxTurnPower,
		Period:            c.Controller.Period,
		SettleCycles:      c.Controller.SettleCycles,
	}
}

// PlantConfig is the simulator setup matching this profile's geometry.
func (c *Config) PlantConfig() plant.Config {
	return plant.Config{
		WheelDiameter: c.Geometry.WheelDiameter,
		Gearing:       c.Geometry.Gearing,
		LateralOffset: c.Sensors.LateralOffset,
		HasIMU:        c.Sensors.IMU,
		Calibration:   c.Plant.Calibration,
		Step:          c.Plant.Step,
	}
}

func (c *Config) Physics() *physics.DiffDrive {
	d := physics.NewDiffDrive()
	d.TrackWidth = c.Geometry.TrackWidth
	if c.Plant.SpeedGain > 0 {
		d.SpeedGain = c.Plant.SpeedGain
	}
	if c.Plant.TimeConst > 0 {
		d.TimeConst = c.Plant.TimeConst
	}
	d.Deadband = c.Plant.Deadband
	return d
}

func (c *Config) StartPose() geom.Pose {
	return geom.Pose{Position: geom.Vec(c.Start.X, c.Start.Y), Heading: c.Start.Heading}
}

// Clone returns a deep copy; Config holds no reference types.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
