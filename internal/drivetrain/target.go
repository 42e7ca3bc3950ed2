package drivetrain

import (
	"fmt"
	"math"

	"github.com/san-kum/diffdrive/internal/geom"
)

// Target is what the tracking loop is steering toward. It is either
// [Relative] or [Absolute].
type Target interface {
	// errors returns the drive and turn error for the current state.
	errors(pose geom.Pose, forwardTravel float64) (drive, turn float64)
	String() string
}

// Relative holds a cumulative forward travel and a heading.
type Relative struct {
	Distance float64
	Heading  float64
}

func (r Relative) errors(pose geom.Pose, forwardTravel float64) (float64, float64) {
	return r.Distance - forwardTravel, geom.SignedDegrees(pose.Heading - r.Heading)
}

func (r Relative) String() string {
	return fmt.Sprintf("relative(distance=%.3f, heading=%.2f°)", r.Distance, r.Heading)
}

// Absolute seeks a point on the field.
type Absolute struct {
	Point geom.Vector2
}

// errors reverses into points more than 90° off the nose rather than
// turning around.
func (a Absolute) errors(pose geom.Pose, _ float64) (float64, float64) {
	local := a.Point.Sub(pose.Position)
	turn := geom.SignedDegrees(pose.Heading - geom.Degrees(local.Angle()))
	drive := local.Magnitude()

	if math.Abs(turn) >= 90 {
		turn = geom.SignedDegrees(turn - 180)
		drive = -drive
	}
	return drive, turn
}

func (a Absolute) String() string { return "absolute" + a.Point.String() }

func isAbsolute(t Target) bool {
	_, ok := t.(Absolute)
	return ok
}
