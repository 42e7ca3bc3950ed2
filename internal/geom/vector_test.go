package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestVectorArithmetic(t *testing.T) {
	a, b := Vec(3, 4), Vec(1, -2)

	assert.Equal(t, Vec(4, 2), a.Add(b))
	assert.Equal(t, Vec(2, 6), a.Sub(b))
	assert.Equal(t, Vec(6, 8), a.Scale(2))
	assert.Equal(t, Vec(3, -8), a.Mul(b))
	assert.Equal(t, Vec(3, -2), a.Div(b))
	assert.Equal(t, Vec(1.5, 2), a.DivScalar(2))
	assert.InDelta(t, 5.0, a.Magnitude(), eps)
	assert.InDelta(t, -5.0, a.Dot(b), eps)
	assert.InDelta(t, -10.0, a.Cross(b), eps)
	assert.InDelta(t, math.Sqrt(40), a.Distance(b), eps)
}

func TestVectorAngle(t *testing.T) {
	assert.InDelta(t, math.Pi/4, Vec(24, 24).Angle(), eps)
	assert.InDelta(t, math.Pi, Vec(-1, 0).Angle(), eps)
	assert.InDelta(t, -math.Pi/2, Vec(0, -3).Angle(), eps)
}

func TestRotatedUsesArgument(t *testing.T) {
	// A vector already at 90° rotated by 90° must land at 180°, not 270°.
	r := Vec(0, 2).Rotated(math.Pi / 2)
	assert.InDelta(t, -2.0, r.X, eps)
	assert.InDelta(t, 0.0, r.Y, eps)

	r = Vec(1, 0).Rotated(Radians(30))
	assert.InDelta(t, math.Cos(Radians(30)), r.X, eps)
	assert.InDelta(t, math.Sin(Radians(30)), r.Y, eps)
}

func TestProjectAndNormalize(t *testing.T) {
	p := Vec(2, 3).Project(Vec(4, 0))
	assert.InDelta(t, 2.0, p.X, eps)
	assert.InDelta(t, 0.0, p.Y, eps)

	u := Vec(0, 7).Normalized()
	assert.InDelta(t, 1.0, u.Magnitude(), eps)
	assert.InDelta(t, 1.0, u.Y, eps)
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, unsigned, signed float64
	}{
		{0, 0, 0},
		{90, 90, 90},
		{360, 0, 0},
		{-90, 270, -90},
		{180, 180, -180},
		{190, 190, -170},
		{-10, 350, -10},
		{725, 5, 5},
		{-350, 10, 10},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.unsigned, NormalizeDegrees(tt.in), eps, "NormalizeDegrees(%v)", tt.in)
		assert.InDelta(t, tt.signed, SignedDegrees(tt.in), eps, "SignedDegrees(%v)", tt.in)
	}
}

func TestSignAndClamp(t *testing.T) {
	assert.Equal(t, 1.0, Sign(0))
	assert.Equal(t, 1.0, Sign(3))
	assert.Equal(t, -1.0, Sign(-0.1))
	assert.Equal(t, 5.0, Clamp(9, -5, 5))
	assert.Equal(t, -5.0, Clamp(-9, -5, 5))
	assert.Equal(t, 2.0, Clamp(2, -5, 5))
}
