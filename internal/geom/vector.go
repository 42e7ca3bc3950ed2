package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector2 is an immutable 2D cartesian vector.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func Vec(x, y float64) Vector2 { return Vector2{X: x, Y: y} }

func (v Vector2) r2() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

func fromR2(p r2.Vec) Vector2 { return Vector2{X: p.X, Y: p.Y} }

func (v Vector2) Add(o Vector2) Vector2 { return fromR2(r2.Add(v.r2(), o.r2())) }

func (v Vector2) Sub(o Vector2) Vector2 { return fromR2(r2.Sub(v.r2(), o.r2())) }

func (v Vector2) Scale(f float64) Vector2 { return fromR2(r2.Scale(f, v.r2())) }

// Mul multiplies elementwise.
func (v Vector2) Mul(o Vector2) Vector2 { return Vector2{X: v.X * o.X, Y: v.Y * o.Y} }

// Div divides elementwise. Components of o must be non-zero.
func (v Vector2) Div(o Vector2) Vector2 { return Vector2{X: v.X / o.X, Y: v.Y / o.Y} }

// DivScalar divides both components by f, which must be non-zero.
func (v Vector2) DivScalar(f float64) Vector2 { return Vector2{X: v.X / f, Y: v.Y / f} }

func (v Vector2) Magnitude() float64 { return r2.Norm(v.r2()) }

// Angle returns atan2(y, x) in radians.
func (v Vector2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// Rotated rotates the vector by angle radians about the origin.
func (v Vector2) Rotated(angle float64) Vector2 {
	return fromR2(r2.Rotate(v.r2(), angle, r2.Vec{}))
}

// Normalized returns the unit vector. v must be non-zero.
func (v Vector2) Normalized() Vector2 { return fromR2(r2.Unit(v.r2())) }

func (v Vector2) Dot(o Vector2) float64 { return r2.Dot(v.r2(), o.r2()) }

func (v Vector2) Cross(o Vector2) float64 { return r2.Cross(v.r2(), o.r2()) }

func (v Vector2) Distance(o Vector2) float64 { return r2.Norm(r2.Sub(o.r2(), v.r2())) }

// Project returns the projection of v onto o. o must be non-zero.
func (v Vector2) Project(o Vector2) Vector2 {
	return o.Scale(v.Dot(o) / r2.Norm2(o.r2()))
}

func (v Vector2) String() string { return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y) }

// Pose is a position plus a heading in degrees within [0, 360).
type Pose struct {
	Position Vector2 `json:"position" yaml:"position"`
	Heading  float64 `json:"heading" yaml:"heading"`
}

func (p Pose) String() string {
	return fmt.Sprintf("%s @ %.2f°", p.Position, p.Heading)
}
