package vmath

import (
	"math"
)

const (
	LUTSize = 1024
	LUTMask = LUTSize - 1
)

func init() {
	// Sin/Cos LUT calculation
	for i := 0; i < LUTSize; i++ {
		rad := 2.0 * math.Pi * float64(i) / LUTSize
		SinLUT[i] = math.Sin(rad)
		CosLUT[i] = math.Cos(rad)
	}
}

// SinLUT and CosLUT indexed by turn fraction: index 0..LUTSize maps to 0..2π
var (
	SinLUT [LUTSize]float64
	CosLUT [LUTSize]float64
)

// SinTurns returns sine of an angle given in turns (1.0 = full rotation)
// Quantized to LUTSize steps, plenty for per-frame intensity curves
func SinTurns(t float64) float64 {
	return SinLUT[int64(t*LUTSize)&LUTMask]
}

// CosTurns returns cosine of an angle given in turns
func CosTurns(t float64) float64 {
	return CosLUT[int64(t*LUTSize)&LUTMask]
}

// Osc maps an angle in turns to a unit oscillation in [0,1]
// Osc(0) = 0.5 rising, peak at 0.25 turns, trough at 0.75
func Osc(t float64) float64 {
	return 0.5 + 0.5*SinTurns(t)
}
