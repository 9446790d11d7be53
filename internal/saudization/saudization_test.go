package saudization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want string
	}{
		{"well above green", 80, ColorGreen},
		{"exactly green threshold", 60, ColorGreen},
		{"just below green", 59.99, ColorYellow},
		{"exactly yellow threshold", 40, ColorYellow},
		{"just below yellow", 39.99, ColorRed},
		{"zero", 0, ColorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rate, 60, 40))
		})
	}
}

func TestClassifyCustomThresholds(t *testing.T) {
	assert.Equal(t, ColorGreen, Classify(30, 25, 10))
	assert.Equal(t, ColorYellow, Classify(20, 25, 10))
	assert.Equal(t, ColorRed, Classify(5, 25, 10))
}

func TestRate(t *testing.T) {
	assert.Equal(t, 50.0, Rate(5, 10))
	assert.Equal(t, 33.33, Rate(1, 3))
	assert.Equal(t, 0.0, Rate(0, 10))
	assert.Equal(t, 0.0, Rate(3, 0), "empty workforce yields 0, not NaN")
	assert.Equal(t, 100.0, Rate(7, 7))
}
