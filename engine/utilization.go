/*
utilization.go - Utilization calculation from active allocations

PURPOSE:
  Computes how much of a resource's capacity is already committed. This is
  the central sum that answers "how loaded is this person?" and feeds the
  over-allocation detector, the pipeline's capacity check, and every
  summary view.

MODEL:
  Instantaneous utilization, not time-sliced: an active allocation counts
  at its full percentage for as long as it is active, regardless of how
  its dates overlap the query moment. An allocation at 50% from March to
  June contributes 0.5 today even if today is February. This is a
  deliberate simplification; date overlap is the schedule check's concern.

FILTERING:
  - join by resource display name
  - completed and cancelled allocations never count

UNKNOWN RESOURCES:
  A name with no allocations (or no roster record at all) yields zero and
  an empty contribution list, never an error. Batch validation over a
  partially stale snapshot must degrade, not abort.

SEE ALSO:
  - overallocation.go: Threshold comparison on top of this sum
  - cache.go: Optional session memoization
*/
package engine

// =============================================================================
// UTILIZATION - The computed commitment of one resource
// =============================================================================

// Utilization is a resource's current committed capacity.
type Utilization struct {
	ResourceName string

	// Current is the sum of active allocation percentages, as a fraction
	// of one FTE. 0.8 means 80% committed.
	Current float64

	// Active lists the allocations contributing to the sum, for caller-side
	// conflict explanation.
	Active []Allocation
}

// =============================================================================
// UTILIZATION CALCULATOR
// =============================================================================

// UtilizationCalculator sums active allocations for a resource.
type UtilizationCalculator struct {
	// Cache memoizes results within one session. Nil disables memoization.
	Cache *SessionCache
}

// NewUtilizationCalculator creates a calculator without a session cache.
func NewUtilizationCalculator() *UtilizationCalculator {
	return &UtilizationCalculator{}
}

// Calculate returns the current utilization for a resource name.
// Unknown names yield a zero result, not an error.
func (c *UtilizationCalculator) Calculate(resourceName string, snap *Snapshot) (*Utilization, error) {
	if c.Cache != nil {
		if u, ok := c.Cache.lookup(snap, resourceName); ok {
			return u, nil
		}
	}

	u, err := c.CalculateExcluding(resourceName, "", snap)
	if err != nil {
		return nil, err
	}

	if c.Cache != nil {
		c.Cache.store(snap, resourceName, u)
	}
	return u, nil
}

// CalculateExcluding computes utilization while ignoring one allocation id,
// for validating edits to an existing allocation. Results are never cached:
// the exclusion makes the key snapshot-plus-id, which a batch would not hit
// twice.
func (c *UtilizationCalculator) CalculateExcluding(resourceName, excludeAllocationID string, snap *Snapshot) (*Utilization, error) {
	if snap == nil {
		return nil, errNilSnapshot()
	}
	if resourceName == "" {
		return nil, &InvalidInputError{Field: "resourceName", Reason: "must not be empty"}
	}

	u := &Utilization{ResourceName: resourceName}
	for _, a := range snap.Allocations {
		if a.ResourceName != resourceName {
			continue
		}
		if !a.Status.CountsTowardUtilization() {
			continue
		}
		if excludeAllocationID != "" && a.ID == excludeAllocationID {
			continue
		}
		if !isFinite(a.Percentage) {
			return nil, &InvalidInputError{
				Field:  "allocations",
				Reason: "allocation " + a.ID + " has a non-finite percentage",
			}
		}
		u.Current += a.Percentage
		u.Active = append(u.Active, a)
	}
	return u, nil
}
