package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineCircleFromSegmentStart(t *testing.T) {
	// Robot at the segment's start: the solution behind it is off the segment.
	pts := LineCircleIntersections(Vec(0, 0), 8.5, Vec(0, 0), Vec(0, 48))
	require.Len(t, pts, 1)
	assert.InDelta(t, 0.0, pts[0].X, eps)
	assert.InDelta(t, 8.5, pts[0].Y, eps)
}

func TestLineCircleTwoPoints(t *testing.T) {
	pts := LineCircleIntersections(Vec(5, 1), 2, Vec(0, 0), Vec(10, 0))
	require.Len(t, pts, 2)
	for _, p := range pts {
		assert.InDelta(t, 0.0, p.Y, eps)
		assert.InDelta(t, 2.0, p.Distance(Vec(5, 1)), eps)
	}
	assert.InDelta(t, 10.0, pts[0].X+pts[1].X, eps)
	assert.InDelta(t, 2*math.Sqrt(3), math.Abs(pts[0].X-pts[1].X), eps)
}

func TestLineCircleRejectsExtension(t *testing.T) {
	// The infinite line crosses the circle, the segment does not.
	pts := LineCircleIntersections(Vec(20, 0), 2, Vec(0, 0), Vec(10, 0))
	assert.Empty(t, pts)
}

func TestLineCircleMiss(t *testing.T) {
	assert.Empty(t, LineCircleIntersections(Vec(0, 10), 2, Vec(-5, 0), Vec(5, 0)))
}

func TestLineCircleTangent(t *testing.T) {
	pts := LineCircleIntersections(Vec(0, 2), 2, Vec(-5, 0), Vec(5, 0))
	require.Len(t, pts, 1)
	assert.InDelta(t, 0.0, pts[0].X, eps)
	assert.InDelta(t, 0.0, pts[0].Y, eps)
}

func TestLineCircleDegenerateSegment(t *testing.T) {
	assert.Empty(t, LineCircleIntersections(Vec(0, 0), 1, Vec(1, 0), Vec(1, 0)))
}

func TestLineCircleDiagonal(t *testing.T) {
	pts := LineCircleIntersections(Vec(0, 0), 5, Vec(0, 0), Vec(24, 24))
	require.Len(t, pts, 1)
	assert.InDelta(t, 5.0, pts[0].Magnitude(), 1e-9)
	assert.InDelta(t, pts[0].X, pts[0].Y, 1e-9)
}
