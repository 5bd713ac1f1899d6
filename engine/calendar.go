/*
calendar.go - Date ranges and leave periods

PURPOSE:
  Date handling for the validation core. Two concerns:
  - DateRange: the span an allocation (or leave) covers, with inclusive
    overlap semantics used by the schedule-conflict check.
  - LeavePeriod: registered time away for a resource, supplied in the
    snapshot by the host application (approved PTO, parental leave, etc).

OVERLAP SEMANTICS:
  Ranges are inclusive on both ends. Two ranges overlap when each starts
  on or before the other ends. A leave ending July 15 conflicts with an
  allocation starting July 15.

MONTH SPAN:
  MonthsIn converts a range to fractional months using the mean Gregorian
  month (30.4375 days). Used to derive project cost from monthly cost and
  vice versa when a plan carries only one side.

SEE ALSO:
  - costplan.go: Plan derivation built on MonthsIn
  - pipeline.go: Schedule-conflict check built on Overlaps
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE RANGE
// =============================================================================

// DateRange is an inclusive [Start, End] span. The zero value means
// "no dates given".
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// IsComplete reports whether both bounds are set.
func (r DateRange) IsComplete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// IsOrdered reports whether Start <= End. Only meaningful when complete.
func (r DateRange) IsOrdered() bool {
	return !r.Start.After(r.End)
}

// Overlaps reports whether two complete ranges share at least one day.
// Incomplete ranges never overlap anything.
func (r DateRange) Overlaps(other DateRange) bool {
	if !r.IsComplete() || !other.IsComplete() {
		return false
	}
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Days returns the inclusive day count of a complete range, minimum 1.
func (r DateRange) Days() int {
	if !r.IsComplete() || !r.IsOrdered() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// meanMonthDays is the mean Gregorian month length.
var meanMonthDays = decimal.NewFromFloat(30.4375)

// MonthsIn returns the fractional month span of a range, rounded to four
// places. Zero for incomplete or inverted ranges.
func MonthsIn(r DateRange) decimal.Decimal {
	days := r.Days()
	if days == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(days)).Div(meanMonthDays).Round(4)
}

// =============================================================================
// LEAVE PERIODS - Registered time away, supplied by the host
// =============================================================================

// LeavePeriod is a span during which a resource is away. The core only
// reads these; approval workflows live outside.
type LeavePeriod struct {
	ID           string
	ResourceName string
	Range        DateRange
	Reason       string
}

// OverlappingLeaves returns the leaves for resourceName whose ranges overlap
// the requested range, in input order.
func OverlappingLeaves(leaves []LeavePeriod, resourceName string, requested DateRange) []LeavePeriod {
	var out []LeavePeriod
	for _, l := range leaves {
		if l.ResourceName != resourceName {
			continue
		}
		if l.Range.Overlaps(requested) {
			out = append(out, l)
		}
	}
	return out
}
