package geom

import "math"

// boundsEpsilon absorbs rounding on axis-aligned segments, where the
// solved coordinate should equal the segment's constant coordinate exactly.
const boundsEpsilon = 1e-9

// LineCircleIntersections returns the points where the circle (center,
// radius) crosses the segment p1–p2. Solutions on the infinite line outside
// the segment's bounding box are discarded, so zero, one or two points come
// back. A degenerate segment (p1 == p2) has no intersections.
func LineCircleIntersections(center Vector2, radius float64, p1, p2 Vector2) []Vector2 {
	o1 := p1.Sub(center)
	o2 := p2.Sub(center)

	d := o2.Sub(o1)
	dr2 := d.Dot(d)
	if dr2 == 0 {
		return nil
	}
	det := o1.Cross(o2)
	discriminant := radius*radius*dr2 - det*det
	if discriminant < 0 {
		return nil
	}

	// https://mathworld.wolfram.com/Circle-LineIntersection.html
	root := math.Sqrt(discriminant)
	candidates := []Vector2{
		Vec((det*d.Y+Sign(d.Y)*d.X*root)/dr2, (-det*d.X+math.Abs(d.Y)*root)/dr2).Add(center),
	}
	if discriminant > 0 {
		candidates = append(candidates,
			Vec((det*d.Y-Sign(d.Y)*d.X*root)/dr2, (-det*d.X-math.Abs(d.Y)*root)/dr2).Add(center))
	}

	minX, maxX := math.Min(p1.X, p2.X)-boundsEpsilon, math.Max(p1.X, p2.X)+boundsEpsilon
	minY, maxY := math.Min(p1.Y, p2.Y)-boundsEpsilon, math.Max(p1.Y, p2.Y)+boundsEpsilon

	var out []Vector2
	for _, c := range candidates {
		if c.X >= minX && c.X <= maxX && c.Y >= minY && c.Y <= maxY {
			out = append(out, c)
		}
	}
	return out
}
