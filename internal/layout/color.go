package layout

import (
	"fmt"
	"math"
)

// bupu is the BuPu sequential color scale (low -> light, high -> saturated),
// the ramp used for expression fill colors.
var bupu = [][3]float64{
	{247, 252, 253},
	{224, 236, 244},
	{191, 211, 230},
	{158, 188, 218},
	{140, 150, 198},
	{140, 107, 177},
	{136, 65, 157},
	{129, 15, 124},
	{77, 0, 75},
}

// SampleColor returns the ramp color at t as an rgb() string.
// t is clamped to [0, 1]; anchors are evenly spaced and interpolated
// linearly in RGB.
func SampleColor(t float64) string {
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	n := len(bupu) - 1
	pos := t * float64(n)
	i := int(pos)
	if i >= n {
		i = n - 1
	}
	frac := pos - float64(i)

	lo, hi := bupu[i], bupu[i+1]
	r := math.Round(lo[0] + (hi[0]-lo[0])*frac)
	g := math.Round(lo[1] + (hi[1]-lo[1])*frac)
	b := math.Round(lo[2] + (hi[2]-lo[2])*frac)

	return fmt.Sprintf("rgb(%d,%d,%d)", int(r), int(g), int(b))
}

// Normalize maps an expression value onto [0, 1] against the condition
// maximum. A max of zero (all transcripts zero-expressed) normalizes every
// value to 0 rather than NaN.
func Normalize(value, max float64) float64 {
	if max <= 0 {
		return 0
	}
	norm := value / max
	if norm < 0 {
		return 0
	}
	if norm > 1 {
		return 1
	}
	return norm
}

// Log1p is the expression transform applied before normalization.
func Log1p(v float64) float64 {
	return math.Log1p(v)
}
