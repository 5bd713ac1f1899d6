/*
budget.go - Budget capacity validation

PURPOSE:
  Answers "can this cost center absorb this allocation's cost?" under the
  center's enforcement mode. The validator projects spend (actuals already
  incurred plus the cost of allocations not yet realized plus the candidate
  cost) and compares it to the period budget and to the tolerance ceiling.

PROJECTED SPEND:
  currentSpend   = the center's actual cost for the period
  pendingSpend   = sum of plan costs over member allocations that still
                   hold money (membership via direct id OR denormalized
                   snapshot id, counted once)
  projectedBefore = currentSpend + pendingSpend
  newProjected    = projectedBefore + allocationCost

ENFORCEMENT:
  strict   rejects when newProjected > budget, else approves
  warning  warns when newProjected > budget (message escalates past the
           tolerance ceiling), never rejects
  none     always approves
  unknown/absent modes behave like warning

  All money comparisons are exact decimal comparisons. Negative allocation
  costs (reductions, refunds) are legal and lower projected spend.

RESULT:
  Always a BudgetValidationResult value - never a Go error for a
  business verdict. Rejections for unknown cost centers carry no details
  payload; every computed verdict carries the full numbers so no caller
  has to re-derive them.

SEE ALSO:
  - types.go: CostCenter budget/tolerance helpers
  - pipeline.go: Maps these results onto validation outcomes
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// BudgetStatus is the budget verdict vocabulary. Downstream consumers
// switch on the literal strings.
type BudgetStatus string

const (
	BudgetApproved BudgetStatus = "approved"
	BudgetWarning  BudgetStatus = "warning"
	BudgetRejected BudgetStatus = "rejected"
)

// BudgetDetails carries the numeric evidence behind a budget verdict.
type BudgetDetails struct {
	CostCenterID   string          `json:"costCenterId"`
	CostCenterName string          `json:"costCenterName"`
	AllocationCost decimal.Decimal `json:"allocationCost"`
	Period         BudgetPeriod    `json:"period"`
	TotalBudget    decimal.Decimal `json:"totalBudget"`

	// CurrentProjectedSpend is actuals plus pending spend, before the
	// candidate allocation.
	CurrentProjectedSpend decimal.Decimal `json:"currentProjectedSpend"`

	// NewProjectedSpend includes the candidate allocation.
	NewProjectedSpend decimal.Decimal `json:"newProjectedSpend"`

	// AvailableBudget is max(0, totalBudget - currentProjectedSpend),
	// reported even on rejection.
	AvailableBudget decimal.Decimal `json:"availableBudget"`

	// UtilizationAfterAllocation is newProjectedSpend as a percentage of
	// budget, rounded to two decimals. Zero when the budget is zero.
	UtilizationAfterAllocation float64 `json:"utilizationAfterAllocation"`

	EnforcementMode     EnforcementMode `json:"enforcementMode"`
	OverBudgetThreshold float64         `json:"overBudgetThreshold"`
	MaxAllowedSpend     decimal.Decimal `json:"maxAllowedSpend"`
}

// BudgetValidationResult is the budget validator's verdict.
type BudgetValidationResult struct {
	Result  BudgetStatus   `json:"result"`
	Message string         `json:"message"`
	Details *BudgetDetails `json:"details,omitempty"`
}

// Approved reports whether the verdict allows the allocation untouched.
func (r *BudgetValidationResult) Approved() bool {
	return r.Result == BudgetApproved
}

// =============================================================================
// BUDGET VALIDATOR
// =============================================================================

// BudgetValidator computes projected spend and applies the enforcement
// decision table.
type BudgetValidator struct{}

// NewBudgetValidator creates a budget validator.
func NewBudgetValidator() *BudgetValidator {
	return &BudgetValidator{}
}

// ValidateBudgetCapacity validates a candidate allocation cost against a
// cost center's period budget.
//
// Unknown cost centers come back rejected with "Cost center not found" -
// a degraded verdict, not a Go error. Errors are reserved for structural
// problems (nil snapshot, empty id, unknown period).
func (v *BudgetValidator) ValidateBudgetCapacity(
	costCenterID string,
	allocationCost decimal.Decimal,
	period BudgetPeriod,
	snap *Snapshot,
) (*BudgetValidationResult, error) {
	if snap == nil {
		return nil, errNilSnapshot()
	}
	if costCenterID == "" {
		return nil, &InvalidInputError{Field: "costCenterId", Reason: "must not be empty"}
	}
	period, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}

	cc := snap.CostCenterByID(costCenterID)
	if cc == nil {
		return &BudgetValidationResult{
			Result:  BudgetRejected,
			Message: "Cost center not found",
		}, nil
	}

	currentSpend := cc.ActualCost(period)
	pendingSpend := sumPendingSpend(snap.Allocations, cc.ID, period)
	projectedBefore := currentSpend.Add(pendingSpend)
	newProjected := projectedBefore.Add(allocationCost)

	totalBudget := cc.Budget(period)
	maxAllowed := cc.MaxAllowedSpend(period)

	details := &BudgetDetails{
		CostCenterID:               cc.ID,
		CostCenterName:             cc.Name,
		AllocationCost:             allocationCost,
		Period:                     period,
		TotalBudget:                totalBudget,
		CurrentProjectedSpend:      projectedBefore,
		NewProjectedSpend:          newProjected,
		AvailableBudget:            decimal.Max(decimal.Zero, totalBudget.Sub(projectedBefore)),
		UtilizationAfterAllocation: budgetUtilizationPercent(newProjected, totalBudget),
		EnforcementMode:            cc.EnforcementMode.Normalize(),
		OverBudgetThreshold:        cc.OverBudgetThreshold,
		MaxAllowedSpend:            maxAllowed,
	}

	overBudget := newProjected.GreaterThan(totalBudget)
	overTolerance := newProjected.GreaterThan(maxAllowed)

	switch cc.EnforcementMode.Normalize() {
	case EnforceStrict:
		if overBudget {
			return &BudgetValidationResult{
				Result: BudgetRejected,
				Message: fmt.Sprintf(
					"Budget exceeded for %s: projected %s spend %s is over the budget of %s",
					cc.Name, period, newProjected.String(), totalBudget.String()),
				Details: details,
			}, nil
		}
		return approvedResult(cc, period, details), nil

	case EnforceNone:
		return approvedResult(cc, period, details), nil

	default: // warning behavior
		if overTolerance {
			return &BudgetValidationResult{
				Result: BudgetWarning,
				Message: fmt.Sprintf(
					"Budget warning for %s: projected %s spend %s breaches the %.0f%% over-budget tolerance (max allowed %s)",
					cc.Name, period, newProjected.String(), cc.OverBudgetThreshold, maxAllowed.String()),
				Details: details,
			}, nil
		}
		if overBudget {
			return &BudgetValidationResult{
				Result: BudgetWarning,
				Message: fmt.Sprintf(
					"Budget warning for %s: projected %s spend %s is over the budget of %s but within tolerance",
					cc.Name, period, newProjected.String(), totalBudget.String()),
				Details: details,
			}, nil
		}
		return approvedResult(cc, period, details), nil
	}
}

func approvedResult(cc *CostCenter, period BudgetPeriod, details *BudgetDetails) *BudgetValidationResult {
	return &BudgetValidationResult{
		Result: BudgetApproved,
		Message: fmt.Sprintf("Within %s budget for %s: %s of %s available",
			period, cc.Name, details.AvailableBudget.String(), details.TotalBudget.String()),
		Details: details,
	}
}

// budgetUtilizationPercent converts projected spend to a percentage of
// budget, rounded to two decimals. Zero-budget centers report 0 rather
// than dividing by zero.
func budgetUtilizationPercent(projected, budget decimal.Decimal) float64 {
	if budget.IsZero() {
		return 0
	}
	pct, _ := projected.Div(budget).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return pct
}

// normalizePeriod defaults an empty period to monthly and rejects anything
// outside the vocabulary.
func normalizePeriod(period BudgetPeriod) (BudgetPeriod, error) {
	switch period {
	case PeriodMonthly, PeriodYearly:
		return period, nil
	case "":
		return PeriodMonthly, nil
	default:
		return "", &InvalidInputError{Field: "period", Reason: "must be monthly or yearly"}
	}
}
