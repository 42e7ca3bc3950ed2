package drivetrain

import "github.com/san-kum/diffdrive/internal/geom"

// pursuitPoint intersects the lookahead circle around position with the
// segment start-end. Of two hits it returns the one nearer end. ok is false
// when the circle misses the segment.
func pursuitPoint(position geom.Vector2, lookahead float64, start, end geom.Vector2) (geom.Vector2, bool) {
	hits := geom.LineCircleIntersections(position, lookahead, start, end)
	switch len(hits) {
	case 0:
		return geom.Vector2{}, false
	case 1:
		return hits[0], true
	}
	if hits[0].Distance(end) < hits[1].Distance(end) {
		return hits[0], true
	}
	return hits[1], true
}
