package geometry

import "math"

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeDegrees maps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// math.Mod(-1e-18, 360) + 360 rounds to 360
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// WrapDegrees maps an angle into (-180, 180].
func WrapDegrees(deg float64) float64 {
	deg = NormalizeDegrees(deg)
	if deg > 180 {
		deg -= 360
	}
	return deg
}

// SinDeg returns the sine of an angle given in degrees.
func SinDeg(deg float64) float64 {
	return math.Sin(Radians(deg))
}

// CosDeg returns the cosine of an angle given in degrees.
func CosDeg(deg float64) float64 {
	return math.Cos(Radians(deg))
}

// RotationDeg returns a rotation transform for an angle in degrees.
func RotationDeg(deg float64) AffineTransform {
	return Rotation(Radians(deg))
}
