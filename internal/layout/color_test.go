package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleColor_Endpoints(t *testing.T) {
	assert.Equal(t, "rgb(247,252,253)", SampleColor(0))
	assert.Equal(t, "rgb(77,0,75)", SampleColor(1))
}

func TestSampleColor_Clamped(t *testing.T) {
	assert.Equal(t, SampleColor(0), SampleColor(-0.5))
	assert.Equal(t, SampleColor(1), SampleColor(2.0))
	assert.Equal(t, SampleColor(0), SampleColor(math.NaN()))
}

func TestSampleColor_Midpoint(t *testing.T) {
	// 0.5 lands exactly on the fifth anchor of the nine-color ramp.
	assert.Equal(t, "rgb(140,150,198)", SampleColor(0.5))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		max   float64
		want  float64
	}{
		{"half", 1.0, 2.0, 0.5},
		{"at max", 2.0, 2.0, 1.0},
		{"zero max", 5.0, 0.0, 0.0},
		{"negative max", 5.0, -1.0, 0.0},
		{"above max clamps", 3.0, 2.0, 1.0},
		{"negative value clamps", -1.0, 2.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.value, tt.max))
		})
	}
}

func TestLog1p(t *testing.T) {
	assert.Equal(t, 0.0, Log1p(0))
	assert.InDelta(t, 1.791759, Log1p(5), 1e-6)
}
