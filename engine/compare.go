package engine

import "math"

// =============================================================================
// FLOAT COMPARISON - Single source of truth for threshold math
// =============================================================================

// Epsilon is the tolerance for comparing utilization fractions. Every
// threshold comparison in this package goes through Exceeds/EqualWithin so
// the tolerance cannot drift between components. Money never uses this:
// decimal comparisons are exact.
const Epsilon = 1e-3

// Exceeds reports whether value is above limit by more than Epsilon.
// A value equal to the limit, or above it by no more than Epsilon, does
// not exceed.
func Exceeds(value, limit float64) bool {
	return value-limit > Epsilon
}

// EqualWithin reports whether a and b differ by at most Epsilon.
func EqualWithin(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// Round2 rounds to two decimal places. Used for percentages surfaced to
// callers, never for intermediate math.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// isFinite rejects NaN and infinities in structural input validation.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
