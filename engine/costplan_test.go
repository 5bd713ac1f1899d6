package engine_test

import (
	"testing"

	"github.com/warp/staffing-engine/engine"
)

// The range 2026-01-01..2027-05-02 spans 487 days, exactly 16 mean
// Gregorian months, so derivations come out whole.
const (
	sixteenMonthStart = "2026-01-01"
	sixteenMonthEnd   = "2027-05-02"
)

func TestNormalizeCostPlan_DerivesProjectFromMonthly(t *testing.T) {
	// GIVEN: a plan with only the recurring side
	plan := engine.CostPlan{
		MonthlyCost: money(1_500),
		StartDate:   date(sixteenMonthStart),
		EndDate:     date(sixteenMonthEnd),
	}

	// WHEN: normalizing
	got := engine.NormalizeCostPlan(plan)

	// THEN: sixteen months at 1500
	if !got.ProjectCost.Equal(money(24_000)) {
		t.Errorf("Expected project cost 24000, got %s", got.ProjectCost)
	}
	if !got.MonthlyCost.Equal(money(1_500)) {
		t.Errorf("The given side must not change, got %s", got.MonthlyCost)
	}
}

func TestNormalizeCostPlan_DerivesMonthlyFromProject(t *testing.T) {
	plan := engine.CostPlan{
		ProjectCost: money(32_000),
		StartDate:   date(sixteenMonthStart),
		EndDate:     date(sixteenMonthEnd),
	}

	got := engine.NormalizeCostPlan(plan)

	if !got.MonthlyCost.Equal(money(2_000)) {
		t.Errorf("Expected monthly cost 2000, got %s", got.MonthlyCost)
	}
	if !got.ProjectCost.Equal(money(32_000)) {
		t.Errorf("The given side must not change, got %s", got.ProjectCost)
	}
}

func TestNormalizeCostPlan_LeavesCompletePlansAlone(t *testing.T) {
	// GIVEN: both sides already set, deliberately inconsistent
	plan := engine.CostPlan{
		MonthlyCost: money(1_000),
		ProjectCost: money(5),
		StartDate:   date(sixteenMonthStart),
		EndDate:     date(sixteenMonthEnd),
	}

	got := engine.NormalizeCostPlan(plan)

	// THEN: the derivation never second-guesses explicit figures
	if !got.MonthlyCost.Equal(money(1_000)) || !got.ProjectCost.Equal(money(5)) {
		t.Errorf("Complete plans come back unchanged, got monthly=%s project=%s", got.MonthlyCost, got.ProjectCost)
	}
}

func TestNormalizeCostPlan_NoRangeMeansNoDerivation(t *testing.T) {
	plan := engine.CostPlan{MonthlyCost: money(1_000)}

	got := engine.NormalizeCostPlan(plan)

	if !got.ProjectCost.IsZero() {
		t.Errorf("No usable range, no derivation; got project=%s", got.ProjectCost)
	}
}

func TestNormalizeCostPlan_EmptyPlanStaysZero(t *testing.T) {
	got := engine.NormalizeCostPlan(engine.CostPlan{
		StartDate: date(sixteenMonthStart),
		EndDate:   date(sixteenMonthEnd),
	})

	if !got.MonthlyCost.IsZero() || !got.ProjectCost.IsZero() {
		t.Errorf("A costless plan must stay costless, got monthly=%s project=%s", got.MonthlyCost, got.ProjectCost)
	}
}

func TestNormalizeCostPlan_InvertedRangeMeansNoDerivation(t *testing.T) {
	plan := engine.CostPlan{
		ProjectCost: money(32_000),
		StartDate:   date(sixteenMonthEnd),
		EndDate:     date(sixteenMonthStart),
	}

	got := engine.NormalizeCostPlan(plan)

	if !got.MonthlyCost.IsZero() {
		t.Errorf("Inverted ranges derive nothing, got monthly=%s", got.MonthlyCost)
	}
}

func TestCostFor_SelectsTheFigureForThePeriod(t *testing.T) {
	plan := engine.CostPlan{
		MonthlyCost: money(2_000),
		ProjectCost: money(32_000),
	}

	if got := plan.CostFor(engine.PeriodMonthly); !got.Equal(money(2_000)) {
		t.Errorf("Monthly budgets read the monthly cost, got %s", got)
	}
	if got := plan.CostFor(engine.PeriodYearly); !got.Equal(money(32_000)) {
		t.Errorf("Yearly budgets read the project cost, got %s", got)
	}
}
