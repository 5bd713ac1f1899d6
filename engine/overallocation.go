/*
overallocation.go - Threshold comparison and utilization classification

PURPOSE:
  Decides whether a resource is over-committed and names the utilization
  band it sits in. The classification function here is the SINGLE source
  of truth for status terminology: availability queries, summaries, and
  the monitor all call ClassifyUtilization so the same number can never
  read "over-capacity" in one view and "high-utilization" in another.

THRESHOLD RULE:
  A resource is over-allocated when utilization exceeds its threshold by
  more than Epsilon. Exactly at the threshold - or within the epsilon
  band - is NOT over-allocated.

SEE ALSO:
  - compare.go: Exceeds/EqualWithin used for every comparison here
  - summary.go: Availability and summary rows built on Detect/Classify
*/
package engine

import "math"

// =============================================================================
// STATUS CLASSIFICATION - Single source of truth
// =============================================================================

// UtilizationStatus is the display band for a utilization value. Downstream
// consumers switch on the literal strings.
type UtilizationStatus string

const (
	StatusOverCapacity        UtilizationStatus = "over-capacity"
	StatusAtCapacity          UtilizationStatus = "at-capacity"
	StatusHighUtilization     UtilizationStatus = "high-utilization"
	StatusModerateUtilization UtilizationStatus = "moderate-utilization"
	StatusAvailable           UtilizationStatus = "available"
)

// ClassifyUtilization maps a utilization fraction to its status band.
// Total order: exactly 100% (within Epsilon) is at-capacity, beyond that
// over-capacity, then >= 80% high, >= 40% moderate, else available.
//
// Every caller that displays a status MUST go through this function.
func ClassifyUtilization(u float64) UtilizationStatus {
	switch {
	case EqualWithin(u, 1.0):
		return StatusAtCapacity
	case Exceeds(u, 1.0):
		return StatusOverCapacity
	case u >= 0.8:
		return StatusHighUtilization
	case u >= 0.4:
		return StatusModerateUtilization
	default:
		return StatusAvailable
	}
}

// =============================================================================
// OVER-ALLOCATION DETECTOR
// =============================================================================

// OverAllocationReport is the detector's full answer for one resource.
type OverAllocationReport struct {
	ResourceName            string
	CurrentUtilization      float64
	OverAllocationThreshold float64
	IsOverAllocated         bool

	// OverAllocationAmount is the raw excess over the threshold, floored at
	// zero. Reported even inside the epsilon band where IsOverAllocated is
	// still false; it is evidence, not a verdict.
	OverAllocationAmount float64

	// Active lists the contributing allocations.
	Active []Allocation
}

// OverAllocationDetector compares computed utilization to the resource's
// configured threshold.
type OverAllocationDetector struct {
	Calc *UtilizationCalculator
}

// NewOverAllocationDetector creates a detector with its own calculator.
func NewOverAllocationDetector() *OverAllocationDetector {
	return &OverAllocationDetector{Calc: NewUtilizationCalculator()}
}

// Detect computes utilization and compares it to the resource's threshold.
// Resources missing from the roster use the default threshold; that is the
// degraded-but-valid path, not an error.
func (d *OverAllocationDetector) Detect(resourceName string, snap *Snapshot) (*OverAllocationReport, error) {
	u, err := d.Calc.Calculate(resourceName, snap)
	if err != nil {
		return nil, err
	}

	threshold := DefaultOverAllocationThreshold
	if r := snap.ResourceByName(resourceName); r != nil {
		threshold = r.Threshold()
	}

	return &OverAllocationReport{
		ResourceName:            resourceName,
		CurrentUtilization:      u.Current,
		OverAllocationThreshold: threshold,
		IsOverAllocated:         Exceeds(u.Current, threshold),
		OverAllocationAmount:    math.Max(0, u.Current-threshold),
		Active:                  u.Active,
	}, nil
}
