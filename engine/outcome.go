/*
outcome.go - Validation outcomes and admissibility

PURPOSE:
  The unit result every pipeline check emits. Outcomes are data, produced
  per validation call and never stored; the caller renders, logs, or
  blocks on them. Check tags and severities are closed string types so a
  switch over them is exhaustive and downstream consumers can rely on the
  literal values.

ADMISSIBILITY:
  An allocation is admissible when no outcome is both error-severity and
  invalid. Warnings never block, whatever their validity flag says.

SEE ALSO:
  - pipeline.go: Produces ordered outcome lists
  - budget.go: BudgetDetails rides along in Details.Budget
*/
package engine

// =============================================================================
// VOCABULARIES - Closed sets, literal values are the contract
// =============================================================================

// CheckType tags which pipeline check produced an outcome.
type CheckType string

const (
	CheckFields           CheckType = "fields"
	CheckCapacityLimits   CheckType = "capacity_limits"
	CheckScheduleConflict CheckType = "schedule_conflict"
	CheckBudget           CheckType = "budget"
)

// Severity is the outcome severity vocabulary.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// =============================================================================
// OUTCOME
// =============================================================================

// OutcomeDetails carries the numeric evidence for an outcome. Only the
// fields relevant to the emitting check are set.
type OutcomeDetails struct {
	// Capacity check evidence, fractions of one FTE.
	CurrentUtilization   *float64 `json:"currentUtilization,omitempty"`
	ProjectedUtilization *float64 `json:"projectedUtilization,omitempty"`
	MaxCapacity          *float64 `json:"maxCapacity,omitempty"`
	Threshold            *float64 `json:"threshold,omitempty"`

	// Recommendations suggest caller-side remedies (reduce percentage,
	// pick another resource).
	Recommendations []string `json:"recommendations,omitempty"`

	// Field names the offending request field for fields-check outcomes.
	Field string `json:"field,omitempty"`

	// Budget carries the budget validator's full evidence.
	Budget *BudgetDetails `json:"budget,omitempty"`
}

// ValidationOutcome is the unit result of one check inside the pipeline.
type ValidationOutcome struct {
	Check    CheckType      `json:"check"`
	IsValid  bool           `json:"isValid"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Details  OutcomeDetails `json:"details"`

	// Conflicts lists the ids of records in tension with the request:
	// contributing allocations for capacity, overlapping leaves for
	// schedule.
	Conflicts []string `json:"conflicts,omitempty"`
}

// Blocking reports whether this outcome alone makes a request inadmissible.
func (o ValidationOutcome) Blocking() bool {
	return o.Severity == SeverityError && !o.IsValid
}

// Admissible derives the overall verdict from an outcome list: admissible
// unless some outcome blocks.
func Admissible(outcomes []ValidationOutcome) bool {
	for _, o := range outcomes {
		if o.Blocking() {
			return false
		}
	}
	return true
}

// float64ptr is a convenience for OutcomeDetails pointer fields.
func float64ptr(v float64) *float64 { return &v }
