package vmath

// Scalar helpers for intensity math. All animation intensities live in
// the unit interval, so the package works in float64 directly instead
// of a fixed-point representation; display output quantizes to 8-bit
// channels far below float64 precision anyway.

// --- Clamping ---

// Clamp01 clamps x to [0, 1]
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Clamp clamps x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// --- Interpolation ---

// Lerp returns a + t*(b-a) without clamping t
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// SmoothStep returns the Hermite interpolant 3t²-2t³ of t clamped to [0,1]
// Zero first derivative at both ends, so eased ramps start and stop softly
func SmoothStep(t float64) float64 {
	t = Clamp01(t)
	return t * t * (3 - 2*t)
}

// --- Misc ---

// Frac returns the fractional part of x for x >= 0
func Frac(x float64) float64 {
	return x - float64(int64(x))
}

// Abs returns absolute value
func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
