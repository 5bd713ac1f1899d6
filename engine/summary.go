/*
summary.go - Availability and roster-wide utilization views

PURPOSE:
  Read-side aggregation for planners: one row per resource with its
  utilization, status band, and remaining headroom. Both the single-
  resource availability query and the roster-wide summary derive their
  status from ClassifyUtilization, so the two views can never disagree
  about the same number.

SEE ALSO:
  - overallocation.go: ClassifyUtilization, the single terminology source
  - api layer: exposes these as /availability and /utilization/summary
*/
package engine

import (
	"math"
	"sort"
)

// ResourceAvailability is one resource's utilization view.
type ResourceAvailability struct {
	ResourceName       string            `json:"resourceName"`
	Status             UtilizationStatus `json:"status"`
	CurrentUtilization float64           `json:"currentUtilization"`
	MaxCapacity        float64           `json:"maxCapacity"`
	Threshold          float64           `json:"threshold"`

	// RemainingCapacity is headroom under standard capacity, floored at
	// zero.
	RemainingCapacity float64 `json:"remainingCapacity"`

	ActiveAllocationIDs []string `json:"activeAllocationIds,omitempty"`
}

// Availability returns the utilization view for one resource name.
// Names missing from the roster answer with the defaults, not an error.
func (d *OverAllocationDetector) Availability(resourceName string, snap *Snapshot) (*ResourceAvailability, error) {
	report, err := d.Detect(resourceName, snap)
	if err != nil {
		return nil, err
	}

	maxCapacity := DefaultMaxCapacity
	if r := snap.ResourceByName(resourceName); r != nil {
		maxCapacity = r.Capacity()
	}

	ids := make([]string, 0, len(report.Active))
	for _, a := range report.Active {
		ids = append(ids, a.ID)
	}

	return &ResourceAvailability{
		ResourceName:        resourceName,
		Status:              ClassifyUtilization(report.CurrentUtilization),
		CurrentUtilization:  report.CurrentUtilization,
		MaxCapacity:         maxCapacity,
		Threshold:           report.OverAllocationThreshold,
		RemainingCapacity:   math.Max(0, maxCapacity-report.CurrentUtilization),
		ActiveAllocationIDs: ids,
	}, nil
}

// Summary returns one availability row per roster resource, sorted by
// name. Allocations naming resources outside the roster don't add rows;
// they are reachable through per-name Availability queries.
func (d *OverAllocationDetector) Summary(snap *Snapshot) ([]ResourceAvailability, error) {
	if snap == nil {
		return nil, errNilSnapshot()
	}

	rows := make([]ResourceAvailability, 0, len(snap.Resources))
	for _, r := range snap.Resources {
		row, err := d.Availability(r.Name, snap)
		if err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ResourceName < rows[j].ResourceName
	})
	return rows, nil
}

// OverAllocated returns the reports for every roster resource currently
// past its threshold, sorted by the size of the excess, largest first.
func (d *OverAllocationDetector) OverAllocated(snap *Snapshot) ([]OverAllocationReport, error) {
	if snap == nil {
		return nil, errNilSnapshot()
	}

	var out []OverAllocationReport
	for _, r := range snap.Resources {
		report, err := d.Detect(r.Name, snap)
		if err != nil {
			return nil, err
		}
		if report.IsOverAllocated {
			out = append(out, *report)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].OverAllocationAmount > out[j].OverAllocationAmount
	})
	return out, nil
}
