// Package interp holds the pure interpolation primitives used by the
// calibration tables.
package interp

import (
	"errors"
	"math"
)

// ErrDegenerateQuad is returned when a quad has zero width or height
var ErrDegenerateQuad = errors.New("interp: degenerate quad")

// Bilinear interpolates at (x, y) inside the quad [x0,x1]×[y0,y1] whose
// corner values are q11=(x0,y0), q21=(x1,y0), q12=(x0,y1) and q22=(x1,y1).
//
// This is the textbook form
//
//	[q11(x1-x)(y1-y) + q21(x-x0)(y1-y) + q12(x1-x)(y-y0) + q22(x-x0)(y-y0)] / [(x1-x0)(y1-y0)]
//
// evaluated with normalized weights so that corners come back bit-exact.
func Bilinear(x, y, x0, x1, y0, y1, q11, q21, q12, q22 float64) (float64, error) {
	dx, dy := x1-x0, y1-y0
	if dx == 0 || dy == 0 {
		return math.NaN(), ErrDegenerateQuad
	}
	tx := (x - x0) / dx
	ty := (y - y0) / dy
	return q11*(1-tx)*(1-ty) +
		q21*tx*(1-ty) +
		q12*(1-tx)*ty +
		q22*tx*ty, nil
}

// Lerp interpolates linearly between a and b; t=0 and t=1 return a and b exactly
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
