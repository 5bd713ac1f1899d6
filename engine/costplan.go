/*
costplan.go - Cost plan derivation

PURPOSE:
  Allocations arrive with one or both cost figures: a recurring monthly
  cost and a total project cost. When only one side is present and the
  plan carries a usable date range, the other side is derived from the
  range's month span. The budget check then reads whichever figure the
  budget period needs.

DERIVATION RULES:
  - monthly set, project missing: project = monthly x months, rounded to 2
  - project set, monthly missing: monthly = project / months, rounded to 2
  - both set, or no usable range: plan returned unchanged
  - months come from MonthsIn (mean Gregorian month)

The derivation never invents money out of nothing: a plan with neither
cost stays zero and the budget check simply adds zero.

SEE ALSO:
  - calendar.go: MonthsIn
  - budget.go: CostFor consumption
*/
package engine

import "github.com/shopspring/decimal"

// NormalizeCostPlan fills in the missing cost side of a plan from its date
// range. Plans with both sides set, neither side set, or no usable range
// come back unchanged.
func NormalizeCostPlan(p CostPlan) CostPlan {
	hasMonthly := !p.MonthlyCost.IsZero()
	hasProject := !p.ProjectCost.IsZero()
	if hasMonthly == hasProject {
		return p
	}

	months := MonthsIn(p.Range())
	if months.IsZero() {
		return p
	}

	if hasMonthly {
		p.ProjectCost = p.MonthlyCost.Mul(months).Round(2)
	} else {
		p.MonthlyCost = p.ProjectCost.Div(months).Round(2)
	}
	return p
}

// sumPendingSpend totals the plan costs of allocations that belong to a
// cost center and still hold money (not completed/cancelled).
func sumPendingSpend(allocations []Allocation, costCenterID string, period BudgetPeriod) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocations {
		if !a.Status.CountsTowardUtilization() {
			continue
		}
		if !a.BelongsToCostCenter(costCenterID) {
			continue
		}
		total = total.Add(a.Plan.CostFor(period))
	}
	return total
}
