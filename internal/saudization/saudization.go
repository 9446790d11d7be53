// Package saudization provides pure functions for Nitaqat color-band
// calculations. These functions have ZERO dependencies on HTTP, database, or
// any other infrastructure — making them trivially testable and reusable.
package saudization

import "math"

// ── Color Band Constants ─────────────────────────────────────────
// A tenant's workforce ratio is always classified against the tenant's own
// configured thresholds; the bands themselves mirror government policy.

const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// Status is a tenant's Saudization ratio together with its classification.
type Status struct {
	Rate  float64 `json:"rate"`  // 0–100
	Color string  `json:"color"` // green | yellow | red
}

// Classify maps a Saudization rate onto a color band.
// Invariant assumed: greenThreshold > yellowThreshold.
//
//	rate >= greenThreshold            → green
//	yellowThreshold <= rate < green   → yellow
//	rate < yellowThreshold            → red
func Classify(rate, greenThreshold, yellowThreshold float64) string {
	switch {
	case rate < yellowThreshold:
		return ColorRed
	case rate < greenThreshold:
		return ColorYellow
	default:
		return ColorGreen
	}
}

// Rate computes the Saudization percentage for the given headcounts.
// Returns 0 for an empty workforce.
func Rate(saudiCount, totalCount int) float64 {
	if totalCount <= 0 {
		return 0
	}
	rate := float64(saudiCount) / float64(totalCount) * 100
	return math.Round(rate*100) / 100 // two decimal places
}
