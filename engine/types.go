/*
Package engine provides the core staffing validation engine.

PURPOSE:
  This package contains the domain types and algorithms that decide whether
  a proposed allocation of a person to a task is acceptable: utilization
  calculation, over-allocation detection, budget-capacity validation, and
  the pipeline that combines those checks into one ordered verdict list.

KEY CONCEPTS IN THIS FILE (types.go):
  - Resource: A person with a capacity and an over-allocation threshold
  - Allocation: A commitment of a fraction of a resource to a task
  - CostCenter: A budget-holding unit with an enforcement mode
  - CostPlan: The money side of an allocation (monthly/project cost, dates)

DESIGN PRINCIPLES:
  1. Purity: Every check is a synchronous function over an immutable Snapshot
  2. Precision: Money uses decimal.Decimal; capacity fractions use float64
     compared only through the helpers in compare.go
  3. Verdicts as data: Business-rule failures are returned as values with a
     severity, never as Go errors
  4. Closed vocabularies: Enforcement modes, severities, statuses and check
     tags are typed string constants because downstream consumers switch on
     the literal values

USAGE:
  snap := &engine.Snapshot{Resources: ..., Allocations: ..., CostCenters: ...}
  pipeline := engine.NewAllocationValidationPipeline()
  outcomes, err := pipeline.Validate(req, engine.PipelineOptions{}, snap)
  if err != nil {
      // structurally invalid input, programmer error class
  }
  if !engine.Admissible(outcomes) {
      // at least one blocking failure; outcomes carry the evidence
  }

SEE ALSO:
  - utilization.go: Utilization sums from active allocations
  - overallocation.go: Threshold comparison and status classification
  - budget.go: Projected spend vs budget under an enforcement mode
  - pipeline.go: The orchestrating validation pipeline
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CAPACITY DEFAULTS
// =============================================================================

const (
	// DefaultMaxCapacity is one full-time equivalent.
	DefaultMaxCapacity = 1.0

	// DefaultOverAllocationThreshold is used when a resource record does not
	// carry its own threshold: 120% of one FTE.
	DefaultOverAllocationThreshold = 1.2
)

// =============================================================================
// RESOURCE - A person who can be allocated
// =============================================================================

// Resource is a person on the roster. Invariant:
// OverAllocationThreshold >= MaxCapacity >= 0.
//
// The core never writes resources; roster management owns the lifecycle.
type Resource struct {
	ID   string
	Name string

	// TierLevel is an ordinal skill rank, 1 = lowest. Used by rate lookup
	// outside the validation core.
	TierLevel int

	// MaxCapacity is the fraction of one FTE the resource can carry without
	// any warning. Zero means "not set" and reads as DefaultMaxCapacity.
	MaxCapacity float64

	// OverAllocationThreshold is the utilization ceiling above which the
	// resource counts as over-committed. Zero means "not set" and reads as
	// DefaultOverAllocationThreshold.
	OverAllocationThreshold float64

	// CostCenterID is the resource's home cost center, if any.
	CostCenterID string
}

// Capacity returns the effective max capacity, substituting the default
// when the record carries no usable value.
func (r Resource) Capacity() float64 {
	if r.MaxCapacity <= 0 {
		return DefaultMaxCapacity
	}
	return r.MaxCapacity
}

// Threshold returns the effective over-allocation threshold, substituting
// the default when the record carries no usable value.
func (r Resource) Threshold() float64 {
	if r.OverAllocationThreshold <= 0 {
		return DefaultOverAllocationThreshold
	}
	return r.OverAllocationThreshold
}

// =============================================================================
// ALLOCATION - A commitment of resource time to a task
// =============================================================================

type AllocationStatus string

const (
	StatusNotStarted AllocationStatus = "not-started"
	StatusActive     AllocationStatus = "active"
	StatusCompleted  AllocationStatus = "completed"
	StatusCancelled  AllocationStatus = "cancelled"
)

// CountsTowardUtilization reports whether an allocation in this status
// contributes to utilization and pending-spend sums. Completed and cancelled
// work is done or abandoned; everything else still holds capacity and money.
func (s AllocationStatus) CountsTowardUtilization() bool {
	return s != StatusCompleted && s != StatusCancelled
}

// CostCenterRef is the denormalized cost-center identity some allocations
// carry instead of (or alongside) a direct CostCenterID.
type CostCenterRef struct {
	ID   string
	Code string
	Name string
}

// Allocation commits a fraction of a resource to a task. The join to
// Resource is by display name, not id; ResourceID is carried as data.
// Invariant: Percentage > 0 for validated requests.
type Allocation struct {
	ID       string
	TaskName string

	// ResourceName is the join key to Resource.Name.
	ResourceName string
	// ResourceID is denormalized alongside the name join.
	ResourceID string

	// Percentage is the fraction of one FTE this allocation consumes,
	// (0, 1] in validated requests.
	Percentage float64

	Status AllocationStatus

	// Cost-center membership: a direct id, a denormalized snapshot, or both.
	CostCenterID       string
	CostCenterSnapshot *CostCenterRef

	Plan CostPlan
}

// BelongsToCostCenter reports membership via the direct id or the
// denormalized snapshot id. An allocation matching both still counts once.
func (a Allocation) BelongsToCostCenter(costCenterID string) bool {
	if costCenterID == "" {
		return false
	}
	if a.CostCenterID == costCenterID {
		return true
	}
	return a.CostCenterSnapshot != nil && a.CostCenterSnapshot.ID == costCenterID
}

// =============================================================================
// COST PLAN - The money side of an allocation
// =============================================================================

// CostPlan holds an allocation's costs and date range. MonthlyCost is the
// recurring spend; ProjectCost is the total over the plan's range.
type CostPlan struct {
	MonthlyCost decimal.Decimal
	ProjectCost decimal.Decimal
	StartDate   time.Time
	EndDate     time.Time
}

// Range returns the plan's date range.
func (p CostPlan) Range() DateRange {
	return DateRange{Start: p.StartDate, End: p.EndDate}
}

// CostFor returns the cost relevant to a budget period: the monthly cost for
// monthly budgets, the full project cost for yearly budgets.
func (p CostPlan) CostFor(period BudgetPeriod) decimal.Decimal {
	if period == PeriodYearly {
		return p.ProjectCost
	}
	return p.MonthlyCost
}

// =============================================================================
// COST CENTER - A budget-holding organizational unit
// =============================================================================

type EnforcementMode string

const (
	EnforceStrict  EnforcementMode = "strict"
	EnforceWarning EnforcementMode = "warning"
	EnforceNone    EnforcementMode = "none"
)

// Normalize maps absent or unknown modes to warning behavior.
func (m EnforcementMode) Normalize() EnforcementMode {
	switch m {
	case EnforceStrict, EnforceWarning, EnforceNone:
		return m
	default:
		return EnforceWarning
	}
}

type BudgetPeriod string

const (
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

// CostCenter is a budget-holding unit. Invariant: budgets >= 0.
// The core reads enforcement settings and actuals at validation time only.
type CostCenter struct {
	ID   string
	Code string
	Name string

	MonthlyBudget decimal.Decimal
	YearlyBudget  decimal.Decimal

	// Spend already incurred, maintained by cost-center management.
	ActualMonthlyCost decimal.Decimal
	ActualYearlyCost  decimal.Decimal

	EnforcementMode EnforcementMode

	// OverBudgetThreshold is the tolerance above 100% of budget, in percent
	// points (15 means spend may reach 115% before the warning escalates).
	OverBudgetThreshold float64
}

// Budget returns the budget for a period.
func (cc CostCenter) Budget(period BudgetPeriod) decimal.Decimal {
	if period == PeriodYearly {
		return cc.YearlyBudget
	}
	return cc.MonthlyBudget
}

// ActualCost returns the spend already incurred for a period.
func (cc CostCenter) ActualCost(period BudgetPeriod) decimal.Decimal {
	if period == PeriodYearly {
		return cc.ActualYearlyCost
	}
	return cc.ActualMonthlyCost
}

// MaxAllowedSpend returns budget x (1 + OverBudgetThreshold/100).
func (cc CostCenter) MaxAllowedSpend(period BudgetPeriod) decimal.Decimal {
	tolerance := decimal.NewFromFloat(cc.OverBudgetThreshold).Div(decimal.NewFromInt(100))
	return cc.Budget(period).Mul(decimal.NewFromInt(1).Add(tolerance))
}

// MustParseDecimal parses s, returning zero on failure. For seed data and
// tests where the input is known-good.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
