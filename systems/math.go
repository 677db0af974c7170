package systems

import "math"

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// magnitude returns the length of a 2D vector.
func magnitude(vx, vy float64) float64 {
	return math.Sqrt(vx*vx + vy*vy)
}
