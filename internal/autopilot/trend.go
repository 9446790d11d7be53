package autopilot

import "math"

// TrendSlope fits an ordinary least-squares line through the points, indexed
// chronologically 0..n-1, and returns the slope in rate units per step.
// Degenerate input (fewer than two points, a zero denominator, or a NaN
// result) yields 0.
func TrendSlope(points []float64) float64 {
	if len(points) < 2 {
		return 0
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range points {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	slope := (n*sumXY - sumX*sumY) / denom
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}
	return slope
}
