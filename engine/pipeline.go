/*
pipeline.go - The allocation validation pipeline

PURPOSE:
  Runs every check for one proposed allocation and returns the complete
  list of outcomes - never short-circuiting on the first failure, so a
  caller can show the user every problem at once.

CHECKS, IN ORDER:
  1. fields ............ shape: percentage within (0,1], date order
  2. capacity_limits ... projected utilization vs the resource threshold
  3. schedule_conflict . overlap with registered leave, advisory only
  4. budget ............ projected spend vs the cost center's budget

STRICTNESS:
  Options change severity, not whether a check executes. A capacity
  breach is error-severity only when StrictEnforcement is set and
  AllowOverAllocation is not; otherwise the same breach reports the same
  numbers at warning severity.

EDITS:
  A request carrying the id of an existing allocation is an edit: that
  allocation's own percentage is excluded from current utilization so a
  resource can't conflict with itself.

ERRORS:
  A Go error means the input was structurally unusable (nil snapshot,
  empty resource name, non-finite numbers) - the ErrInvalidInput class.
  Everything a user can fix comes back as outcomes.

SEE ALSO:
  - outcome.go: Outcome shape and admissibility
  - budget.go: The budget verdict mapped onto outcomes here
*/
package engine

import (
	"fmt"
)

// =============================================================================
// REQUEST AND OPTIONS
// =============================================================================

// AllocationRequest is one proposed allocation to validate. The core never
// persists these; the verdict tells the caller whether it may.
type AllocationRequest struct {
	// AllocationID, when set, marks the request as an edit of that
	// existing allocation.
	AllocationID string

	ResourceName string
	TaskName     string

	// Percentage is the requested fraction of one FTE, (0, 1].
	Percentage float64

	// CostCenterID selects the budget to validate against. Empty skips
	// the budget check.
	CostCenterID string

	Plan CostPlan

	// Status defaults to active when empty.
	Status AllocationStatus
}

// PipelineOptions tune severity and the budget window.
type PipelineOptions struct {
	// StrictEnforcement escalates capacity breaches to error severity.
	StrictEnforcement bool

	// AllowOverAllocation keeps capacity breaches at warning severity even
	// under strict enforcement.
	AllowOverAllocation bool

	// BudgetPeriod selects which budget window the budget check validates
	// against. Empty means monthly.
	BudgetPeriod BudgetPeriod
}

// capacityBlocking reports whether a threshold breach should block.
func (o PipelineOptions) capacityBlocking() bool {
	return o.StrictEnforcement && !o.AllowOverAllocation
}

// ValidationReport pairs one request of a batch with its outcomes.
type ValidationReport struct {
	ResourceName string              `json:"resourceName"`
	TaskName     string              `json:"taskName,omitempty"`
	Outcomes     []ValidationOutcome `json:"outcomes"`
	Admissible   bool                `json:"admissible"`
}

// =============================================================================
// PIPELINE
// =============================================================================

// AllocationValidationPipeline orchestrates the per-field, capacity,
// schedule and budget checks for one allocation request.
type AllocationValidationPipeline struct {
	budget *BudgetValidator
}

// NewAllocationValidationPipeline creates a pipeline.
func NewAllocationValidationPipeline() *AllocationValidationPipeline {
	return &AllocationValidationPipeline{budget: NewBudgetValidator()}
}

// Validate runs all checks for one request and returns every outcome.
func (p *AllocationValidationPipeline) Validate(
	req AllocationRequest,
	opts PipelineOptions,
	snap *Snapshot,
) ([]ValidationOutcome, error) {
	calc := &UtilizationCalculator{Cache: NewSessionCache(DefaultCacheSize)}
	return p.validate(req, opts, snap, calc)
}

// ValidateAll validates a staged batch against one shared session cache,
// so repeated resources in the batch reuse their utilization sums.
func (p *AllocationValidationPipeline) ValidateAll(
	reqs []AllocationRequest,
	opts PipelineOptions,
	snap *Snapshot,
) ([]ValidationReport, error) {
	calc := &UtilizationCalculator{Cache: NewSessionCache(DefaultCacheSize)}

	reports := make([]ValidationReport, 0, len(reqs))
	for _, req := range reqs {
		outcomes, err := p.validate(req, opts, snap, calc)
		if err != nil {
			return nil, err
		}
		reports = append(reports, ValidationReport{
			ResourceName: req.ResourceName,
			TaskName:     req.TaskName,
			Outcomes:     outcomes,
			Admissible:   Admissible(outcomes),
		})
	}
	return reports, nil
}

func (p *AllocationValidationPipeline) validate(
	req AllocationRequest,
	opts PipelineOptions,
	snap *Snapshot,
	calc *UtilizationCalculator,
) ([]ValidationOutcome, error) {
	if snap == nil {
		return nil, errNilSnapshot()
	}
	if req.ResourceName == "" {
		return nil, &InvalidInputError{Field: "resourceName", Reason: "must not be empty"}
	}
	if !isFinite(req.Percentage) {
		return nil, &InvalidInputError{Field: "allocationPercentage", Reason: "must be a finite number"}
	}
	period, err := normalizePeriod(opts.BudgetPeriod)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ValidationOutcome, 0, 4)

	// 1. Field/shape validation. Findings never stop the later checks.
	outcomes = append(outcomes, p.checkFields(req)...)

	// 2. Capacity limits.
	capacity, err := p.checkCapacity(req, opts, snap, calc)
	if err != nil {
		return nil, err
	}
	if capacity != nil {
		outcomes = append(outcomes, *capacity)
	}

	// 3. Schedule/leave conflicts. Advisory, never blocking.
	if schedule := p.checkSchedule(req, snap); schedule != nil {
		outcomes = append(outcomes, *schedule)
	}

	// 4. Budget. Skipped entirely when the request names no cost center.
	if req.CostCenterID != "" {
		budget, err := p.checkBudget(req, period, snap)
		if err != nil {
			return nil, err
		}
		if budget != nil {
			outcomes = append(outcomes, *budget)
		}
	}

	return outcomes, nil
}

// =============================================================================
// CHECK 1: FIELDS
// =============================================================================

// checkFields enforces shape rules callers sometimes skip: the percentage
// bounds live here and only here.
func (p *AllocationValidationPipeline) checkFields(req AllocationRequest) []ValidationOutcome {
	var outcomes []ValidationOutcome

	if req.Percentage <= 0 || req.Percentage > 1 {
		outcomes = append(outcomes, ValidationOutcome{
			Check:    CheckFields,
			IsValid:  false,
			Severity: SeverityError,
			Message: fmt.Sprintf(
				"Allocation percentage must be greater than 0%% and at most 100%%, got %.1f%%",
				req.Percentage*100),
			Details: OutcomeDetails{Field: "allocationPercentage"},
		})
	}

	r := req.Plan.Range()
	if r.IsComplete() && !r.IsOrdered() {
		outcomes = append(outcomes, ValidationOutcome{
			Check:    CheckFields,
			IsValid:  false,
			Severity: SeverityError,
			Message: fmt.Sprintf("Start date %s is after end date %s",
				r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")),
			Details: OutcomeDetails{Field: "dates"},
		})
	}

	return outcomes
}

// =============================================================================
// CHECK 2: CAPACITY LIMITS
// =============================================================================

func (p *AllocationValidationPipeline) checkCapacity(
	req AllocationRequest,
	opts PipelineOptions,
	snap *Snapshot,
	calc *UtilizationCalculator,
) (*ValidationOutcome, error) {
	var current *Utilization
	var err error
	if req.AllocationID != "" {
		current, err = calc.CalculateExcluding(req.ResourceName, req.AllocationID, snap)
	} else {
		current, err = calc.Calculate(req.ResourceName, snap)
	}
	if err != nil {
		return nil, err
	}

	maxCapacity := DefaultMaxCapacity
	threshold := DefaultOverAllocationThreshold
	if r := snap.ResourceByName(req.ResourceName); r != nil {
		maxCapacity = r.Capacity()
		threshold = r.Threshold()
	}

	projected := current.Current + req.Percentage

	conflicts := make([]string, 0, len(current.Active))
	for _, a := range current.Active {
		conflicts = append(conflicts, a.ID)
	}

	details := OutcomeDetails{
		CurrentUtilization:   float64ptr(current.Current),
		ProjectedUtilization: float64ptr(projected),
		MaxCapacity:          float64ptr(maxCapacity),
		Threshold:            float64ptr(threshold),
	}

	switch {
	case Exceeds(projected, threshold):
		severity := SeverityWarning
		if opts.capacityBlocking() {
			severity = SeverityError
		}
		details.Recommendations = []string{
			fmt.Sprintf("Reduce the allocation percentage to %.0f%% or less",
				remainingUnderThreshold(current.Current, threshold)*100),
			"Assign a different resource with available capacity",
		}
		return &ValidationOutcome{
			Check:    CheckCapacityLimits,
			IsValid:  false,
			Severity: severity,
			Message: fmt.Sprintf(
				"%s would exceed capacity: projected utilization %.0f%% is above the %.0f%% over-allocation threshold",
				req.ResourceName, projected*100, threshold*100),
			Details:   details,
			Conflicts: conflicts,
		}, nil

	case Exceeds(projected, maxCapacity):
		// Within the threshold but past standard capacity: an advisory,
		// not a failed check.
		return &ValidationOutcome{
			Check:    CheckCapacityLimits,
			IsValid:  true,
			Severity: SeverityWarning,
			Message: fmt.Sprintf(
				"%s would run above standard capacity: projected utilization %.0f%% (threshold %.0f%%)",
				req.ResourceName, projected*100, threshold*100),
			Details:   details,
			Conflicts: conflicts,
		}, nil

	default:
		return nil, nil
	}
}

// remainingUnderThreshold is the largest extra percentage that keeps the
// resource at or under its threshold, floored at zero.
func remainingUnderThreshold(current, threshold float64) float64 {
	if current >= threshold {
		return 0
	}
	return threshold - current
}

// =============================================================================
// CHECK 3: SCHEDULE CONFLICTS
// =============================================================================

func (p *AllocationValidationPipeline) checkSchedule(req AllocationRequest, snap *Snapshot) *ValidationOutcome {
	requested := req.Plan.Range()
	if !requested.IsComplete() || !requested.IsOrdered() {
		return nil
	}

	overlaps := OverlappingLeaves(snap.Leaves, req.ResourceName, requested)
	if len(overlaps) == 0 {
		return nil
	}

	conflicts := make([]string, 0, len(overlaps))
	for _, l := range overlaps {
		conflicts = append(conflicts, l.ID)
	}

	first := overlaps[0]
	return &ValidationOutcome{
		Check:    CheckScheduleConflict,
		IsValid:  false,
		Severity: SeverityWarning,
		Message: fmt.Sprintf(
			"Requested dates overlap with registered leave for %s: %s to %s",
			req.ResourceName,
			first.Range.Start.Format("2006-01-02"),
			first.Range.End.Format("2006-01-02")),
		Conflicts: conflicts,
	}
}

// =============================================================================
// CHECK 4: BUDGET
// =============================================================================

func (p *AllocationValidationPipeline) checkBudget(
	req AllocationRequest,
	period BudgetPeriod,
	snap *Snapshot,
) (*ValidationOutcome, error) {
	plan := NormalizeCostPlan(req.Plan)
	cost := plan.CostFor(period)

	result, err := p.budget.ValidateBudgetCapacity(req.CostCenterID, cost, period, snap)
	if err != nil {
		return nil, err
	}

	switch result.Result {
	case BudgetRejected:
		return &ValidationOutcome{
			Check:    CheckBudget,
			IsValid:  false,
			Severity: SeverityError,
			Message:  result.Message,
			Details:  OutcomeDetails{Budget: result.Details},
		}, nil
	case BudgetWarning:
		return &ValidationOutcome{
			Check:    CheckBudget,
			IsValid:  false,
			Severity: SeverityWarning,
			Message:  result.Message,
			Details:  OutcomeDetails{Budget: result.Details},
		}, nil
	default:
		// Approved budgets stay silent so admissibility reads cleanly.
		return nil, nil
	}
}
