package drivetrain

import (
	"time"

	"github.com/san-kum/diffdrive/internal/geom"
)

// Sample is one tracking cycle as seen by observers.
type Sample struct {
	Elapsed       time.Duration
	Pose          geom.Pose
	ForwardTravel float64
	Target        Target
	DriveError    float64
	TurnError     float64
	DrivePower    float64
	TurnPower     float64
	LeftVolts     float64
	RightVolts    float64
	Settled       bool
}

// Absolute reports whether the cycle was seeking a point.
func (s Sample) Absolute() bool { return isAbsolute(s.Target) }

// Observer is notified after every tracking cycle, outside the drivetrain
// lock. Implementations must not block.
type Observer interface {
	OnCycle(s Sample)
}

type ObserverFunc func(s Sample)

func (f ObserverFunc) OnCycle(s Sample) { f(s) }

// Logger is the leveled sink for lifecycle and diagnostic events.
// *log.Logger from charmbracelet/log satisfies it.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
