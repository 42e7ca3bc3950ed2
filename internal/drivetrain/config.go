package drivetrain

import (
	"fmt"
	"time"

	"github.com/san-kum/diffdrive/internal/control"
)

const (
	DefaultPeriod       = 10 * time.Millisecond
	DefaultMaxPower     = 100.0
	DefaultStartHeading = 90.0
)

// Config is the construction-time tuning of a Drivetrain. Distances are in
// the same unit as wheel diameter, headings in degrees, powers in percent.
type Config struct {
	DriveGains control.Gains `yaml:"drive_gains" json:"drive_gains"`
	TurnGains  control.Gains `yaml:"turn_gains" json:"turn_gains"`

	DriveTolerance    float64 `yaml:"drive_tolerance" json:"drive_tolerance"`
	TurnTolerance     float64 `yaml:"turn_tolerance" json:"turn_tolerance"`
	LookaheadDistance float64 `yaml:"lookahead_distance" json:"lookahead_distance"`

	TrackWidth    float64 `yaml:"track_width" json:"track_width"`
	WheelDiameter float64 `yaml:"wheel_diameter" json:"wheel_diameter"`
	Gearing       float64 `yaml:"gearing" json:"gearing"`

	MaxDrivePower float64 `yaml:"max_drive_power" json:"max_drive_power"`
	MaxTurnPower  float64 `yaml:"max_turn_power" json:"max_turn_power"`

	Period       time.Duration `yaml:"period" json:"period"`
	SettleCycles int           `yaml:"settle_cycles" json:"settle_cycles"`
}

func DefaultConfig() Config {
	return Config{
		DriveGains:        control.Gains{KP: 4.24, KD: 0.06},
		TurnGains:         control.Gains{KP: 0.82, KI: 0.003, KD: 0.0875},
		DriveTolerance:    1.0,
		TurnTolerance:     3.0,
		LookaheadDistance: 8.5,
		TrackWidth:        13.75,
		WheelDiameter:     3.25,
		Gearing:           0.6,
		MaxDrivePower:     DefaultMaxPower,
		MaxTurnPower:      DefaultMaxPower,
		Period:            DefaultPeriod,
		SettleCycles:      control.DefaultSettleCycles,
	}
}

func (c Config) Validate() error {
	switch {
	case c.TrackWidth <= 0:
		return fmt.Errorf("%w: track width must be positive, got %f", ErrInvalidConfig, c.TrackWidth)
	case c.WheelDiameter <= 0:
		return fmt.Errorf("%w: wheel diameter must be positive, got %f", ErrInvalidConfig, c.WheelDiameter)
	case c.Gearing == 0:
		return fmt.Errorf("%w: gearing cannot be 0", ErrInvalidConfig)
	case c.DriveTolerance < 0 || c.TurnTolerance < 0:
		return fmt.Errorf("%w: tolerances cannot be negative", ErrInvalidConfig)
	case c.LookaheadDistance <= 0:
		return fmt.Errorf("%w: lookahead distance must be positive, got %f", ErrInvalidConfig, c.LookaheadDistance)
	case c.MaxDrivePower < 0 || c.MaxTurnPower < 0:
		return fmt.Errorf("%w: max power cannot be negative", ErrInvalidConfig)
	case c.Period <= 0:
		return fmt.Errorf("%w: period must be positive, got %s", ErrInvalidConfig, c.Period)
	case c.SettleCycles < 0:
		return fmt.Errorf("%w: settle cycles cannot be negative", ErrInvalidConfig)
	}
	return nil
}
