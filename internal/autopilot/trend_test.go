package autopilot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendSlope(t *testing.T) {
	t.Run("strictly increasing series has positive slope", func(t *testing.T) {
		slope := TrendSlope([]float64{40, 41, 43, 44, 46, 47, 49})
		assert.Greater(t, slope, 0.0)
	})

	t.Run("exact unit decline", func(t *testing.T) {
		slope := TrendSlope([]float64{50, 49, 48, 47, 46, 45, 44, 43, 42, 41})
		assert.InDelta(t, -1.0, slope, 1e-9)
	})

	t.Run("exact slope of two per step", func(t *testing.T) {
		slope := TrendSlope([]float64{1, 3, 5})
		assert.InDelta(t, 2.0, slope, 1e-9)
	})

	t.Run("constant series is flat", func(t *testing.T) {
		slope := TrendSlope([]float64{65, 65, 65, 65, 65, 65, 65, 65})
		assert.InDelta(t, 0.0, slope, 1e-9)
	})

	t.Run("degenerate input yields zero", func(t *testing.T) {
		assert.Equal(t, 0.0, TrendSlope(nil))
		assert.Equal(t, 0.0, TrendSlope([]float64{}))
		assert.Equal(t, 0.0, TrendSlope([]float64{42}))
	})
}
