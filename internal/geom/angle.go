package geom

import "math"

func Radians(degrees float64) float64 { return degrees * math.Pi / 180 }

func Degrees(radians float64) float64 { return radians * 180 / math.Pi }

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(degrees float64) float64 {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	if degrees >= 360 {
		degrees -= 360
	}
	return degrees
}

// SignedDegrees maps an angle into [-180, 180).
func SignedDegrees(degrees float64) float64 {
	degrees = NormalizeDegrees(degrees)
	if degrees >= 180 {
		degrees -= 360
	}
	return degrees
}

// Sign returns -1 for negative values and 1 otherwise, including zero.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

func Clamp(x, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, x))
}
