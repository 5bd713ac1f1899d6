package engine_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/warp/staffing-engine/engine"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func planBetween(start, end string) engine.CostPlan {
	return engine.CostPlan{StartDate: date(start), EndDate: date(end)}
}

// findOutcome returns the first outcome for a check tag, or nil.
func findOutcome(outcomes []engine.ValidationOutcome, check engine.CheckType) *engine.ValidationOutcome {
	for i := range outcomes {
		if outcomes[i].Check == check {
			return &outcomes[i]
		}
	}
	return nil
}

// =============================================================================
// CLEAN REQUESTS
// =============================================================================

func TestValidate_CleanRequestProducesNoOutcomes(t *testing.T) {
	// GIVEN: Alice committed to half her capacity
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 0.5)},
	)
	p := engine.NewAllocationValidationPipeline()

	// WHEN: requesting 30% more
	outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.3}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: nothing to report and the request is admissible
	if len(outcomes) != 0 {
		t.Fatalf("Expected no outcomes, got %d: %+v", len(outcomes), outcomes)
	}
	if !engine.Admissible(outcomes) {
		t.Error("A request with no outcomes must be admissible")
	}
}

func TestValidate_FillingToExactCapacityPasses(t *testing.T) {
	// GIVEN: Alice at 80%
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 0.8)},
	)
	p := engine.NewAllocationValidationPipeline()

	// WHEN: topping up to exactly 100%
	outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.2}, engine.PipelineOptions{StrictEnforcement: true}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: approved with no outcomes, and the resulting load reads as
	// at-capacity
	if len(outcomes) != 0 {
		t.Fatalf("Expected no outcomes at exact capacity, got %+v", outcomes)
	}
	if got := engine.ClassifyUtilization(1.0); got != engine.StatusAtCapacity {
		t.Errorf("Expected at-capacity at 100%%, got %s", got)
	}
}

// =============================================================================
// FIELD CHECK
// =============================================================================

func TestValidate_PercentageBoundsRejectedInFieldCheck(t *testing.T) {
	snap := snapOf([]engine.Resource{res("Alice", 1.0, 1.2)}, nil)
	p := engine.NewAllocationValidationPipeline()

	for _, pct := range []float64{0, -0.25, 1.01} {
		outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: pct}, engine.PipelineOptions{}, snap)
		if err != nil {
			t.Fatalf("Validate(%v) failed: %v", pct, err)
		}

		fields := findOutcome(outcomes, engine.CheckFields)
		if fields == nil {
			t.Fatalf("Expected a fields outcome for %v", pct)
		}
		if fields.Severity != engine.SeverityError || fields.IsValid {
			t.Errorf("Percentage %v should be an error, got severity=%s valid=%v", pct, fields.Severity, fields.IsValid)
		}
		if fields.Details.Field != "allocationPercentage" {
			t.Errorf("Expected the percentage field named, got %q", fields.Details.Field)
		}
		if engine.Admissible(outcomes) {
			t.Errorf("Percentage %v should block admission", pct)
		}
	}
}

func TestValidate_StartAfterEndIsFieldError(t *testing.T) {
	snap := snapOf([]engine.Resource{res("Alice", 1.0, 1.2)}, nil)
	p := engine.NewAllocationValidationPipeline()

	outcomes, err := p.Validate(engine.AllocationRequest{
		ResourceName: "Alice",
		Percentage:   0.5,
		Plan:         planBetween("2026-03-01", "2026-02-01"),
	}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	fields := findOutcome(outcomes, engine.CheckFields)
	if fields == nil {
		t.Fatal("Expected a fields outcome for the inverted range")
	}
	if fields.Details.Field != "dates" {
		t.Errorf("Expected the dates field named, got %q", fields.Details.Field)
	}
	// An inverted range can't meaningfully be checked against leaves.
	if sched := findOutcome(outcomes, engine.CheckScheduleConflict); sched != nil {
		t.Errorf("Inverted ranges skip the schedule check, got %+v", sched)
	}
}

func TestValidate_ChecksContinuePastFieldFailure(t *testing.T) {
	// GIVEN: Alice already fully committed
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 1.0)},
	)
	p := engine.NewAllocationValidationPipeline()

	// WHEN: the request is both out of bounds and capacity-breaching
	outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 1.5}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: both problems are reported at once
	if findOutcome(outcomes, engine.CheckFields) == nil {
		t.Error("Expected the fields outcome")
	}
	if findOutcome(outcomes, engine.CheckCapacityLimits) == nil {
		t.Error("Expected the capacity outcome despite the field failure")
	}
}

// =============================================================================
// CAPACITY CHECK
// =============================================================================

func TestValidate_CapacityBreachDefaultsToWarning(t *testing.T) {
	// GIVEN: Alice at 80% with a 120% threshold
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 0.8)},
	)
	p := engine.NewAllocationValidationPipeline()

	// WHEN: requesting 50% more under default options
	outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.5}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: the breach is reported as a warning with the full numbers
	capacity := findOutcome(outcomes, engine.CheckCapacityLimits)
	if capacity == nil {
		t.Fatal("Expected a capacity outcome")
	}
	if capacity.Severity != engine.SeverityWarning || capacity.IsValid {
		t.Errorf("Default options keep breaches at warning, got severity=%s valid=%v", capacity.Severity, capacity.IsValid)
	}
	if !strings.Contains(capacity.Message, "capacity") {
		t.Errorf("Breach message must name capacity, got %q", capacity.Message)
	}
	if capacity.Details.ProjectedUtilization == nil || !approx(*capacity.Details.ProjectedUtilization, 1.3) {
		t.Errorf("Expected projected utilization 1.3, got %v", capacity.Details.ProjectedUtilization)
	}
	if len(capacity.Conflicts) != 1 || capacity.Conflicts[0] != "a1" {
		t.Errorf("Expected the contributing allocation id, got %v", capacity.Conflicts)
	}
	if len(capacity.Details.Recommendations) == 0 {
		t.Error("Expected remediation recommendations")
	}
	if !engine.Admissible(outcomes) {
		t.Error("A warning-severity breach must not block")
	}
}

func TestValidate_StrictEnforcementBlocksCapacityBreach(t *testing.T) {
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 0.8)},
	)
	p := engine.NewAllocationValidationPipeline()

	outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.5},
		engine.PipelineOptions{StrictEnforcement: true}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	capacity := findOutcome(outcomes, engine.CheckCapacityLimits)
	if capacity == nil {
		t.Fatal("Expected a capacity outcome")
	}
	if capacity.Severity != engine.SeverityError {
		t.Errorf("Strict enforcement escalates to error, got %s", capacity.Severity)
	}
	if !strings.Contains(capacity.Message, "capacity") {
		t.Errorf("Breach message must name capacity, got %q", capacity.Message)
	}
	if engine.Admissible(outcomes) {
		t.Error("An error-severity breach must block")
	}
}

func TestValidate_AllowOverAllocationKeepsWarningUnderStrict(t *testing.T) {
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 0.8)},
	)
	p := engine.NewAllocationValidationPipeline()

	outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.5},
		engine.PipelineOptions{StrictEnforcement: true, AllowOverAllocation: true}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	capacity := findOutcome(outcomes, engine.CheckCapacityLimits)
	if capacity == nil {
		t.Fatal("Expected a capacity outcome")
	}
	if capacity.Severity != engine.SeverityWarning {
		t.Errorf("AllowOverAllocation downgrades to warning, got %s", capacity.Severity)
	}
	if !engine.Admissible(outcomes) {
		t.Error("The downgraded breach must not block")
	}
}

func TestValidate_HeadroomAdvisoryBetweenCapacityAndThreshold(t *testing.T) {
	// GIVEN: a request landing past capacity but under the threshold
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 0.8)},
	)
	p := engine.NewAllocationValidationPipeline()

	// WHEN: projecting 110%, even under strict enforcement
	outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.3},
		engine.PipelineOptions{StrictEnforcement: true}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: an advisory that still counts as a pass
	capacity := findOutcome(outcomes, engine.CheckCapacityLimits)
	if capacity == nil {
		t.Fatal("Expected the headroom advisory")
	}
	if !capacity.IsValid || capacity.Severity != engine.SeverityWarning {
		t.Errorf("Advisories are valid warnings, got severity=%s valid=%v", capacity.Severity, capacity.IsValid)
	}
	if !engine.Admissible(outcomes) {
		t.Error("Advisories must never block")
	}
}

func TestValidate_ProjectionWithinEpsilonOfThresholdIsNotABreach(t *testing.T) {
	// GIVEN: a projection 0.0005 above the threshold, inside the epsilon
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 0.7)},
	)
	p := engine.NewAllocationValidationPipeline()

	outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.5005},
		engine.PipelineOptions{StrictEnforcement: true}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: not a breach - only the past-capacity advisory
	capacity := findOutcome(outcomes, engine.CheckCapacityLimits)
	if capacity == nil {
		t.Fatal("Expected the headroom advisory")
	}
	if !capacity.IsValid {
		t.Errorf("Within-epsilon projections are not breaches: %+v", capacity)
	}
	if !engine.Admissible(outcomes) {
		t.Error("Within-epsilon projections must not block")
	}
}

func TestValidate_EditExcludesItsOwnAllocation(t *testing.T) {
	// GIVEN: Alice's only commitment is the allocation being edited
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 0.8)},
	)
	p := engine.NewAllocationValidationPipeline()

	// WHEN: raising that same allocation to 90%
	outcomes, err := p.Validate(engine.AllocationRequest{
		AllocationID: "a1",
		ResourceName: "Alice",
		Percentage:   0.9,
	}, engine.PipelineOptions{StrictEnforcement: true}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: no self-conflict
	if len(outcomes) != 0 {
		t.Fatalf("An edit must not conflict with itself, got %+v", outcomes)
	}

	// WHEN: the same numbers arrive as a brand new allocation
	outcomes, err = p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.9},
		engine.PipelineOptions{StrictEnforcement: true}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: the 170% projection breaches
	if capacity := findOutcome(outcomes, engine.CheckCapacityLimits); capacity == nil || capacity.IsValid {
		t.Errorf("A new allocation at the same percentage must breach, got %+v", capacity)
	}
}

func TestValidate_UnrosteredResourceUsesDefaultLimits(t *testing.T) {
	// GIVEN: allocations for a name with no roster row
	snap := snapOf(nil, []engine.Allocation{activeAlloc("g1", "Ghost", 0.9)})
	p := engine.NewAllocationValidationPipeline()

	// WHEN: pushing the projection past the default 120% threshold
	outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Ghost", Percentage: 0.4}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	capacity := findOutcome(outcomes, engine.CheckCapacityLimits)
	if capacity == nil {
		t.Fatal("Expected a capacity outcome against the defaults")
	}
	if capacity.Details.MaxCapacity == nil || *capacity.Details.MaxCapacity != engine.DefaultMaxCapacity {
		t.Errorf("Expected the default max capacity, got %v", capacity.Details.MaxCapacity)
	}
	if capacity.Details.Threshold == nil || *capacity.Details.Threshold != engine.DefaultOverAllocationThreshold {
		t.Errorf("Expected the default threshold, got %v", capacity.Details.Threshold)
	}
}

// =============================================================================
// SCHEDULE CHECK
// =============================================================================

func TestValidate_LeaveOverlapIsAdvisoryOnly(t *testing.T) {
	// GIVEN: Alice is on leave mid-March
	snap := &engine.Snapshot{
		Resources: []engine.Resource{res("Alice", 1.0, 1.2)},
		Leaves: []engine.LeavePeriod{{
			ID:           "leave-1",
			ResourceName: "Alice",
			Range:        engine.DateRange{Start: date("2026-03-10"), End: date("2026-03-20")},
			Reason:       "Parental leave",
		}},
	}
	p := engine.NewAllocationValidationPipeline()

	// WHEN: requesting dates across the leave, under strict enforcement
	outcomes, err := p.Validate(engine.AllocationRequest{
		ResourceName: "Alice",
		Percentage:   0.5,
		Plan:         planBetween("2026-03-15", "2026-04-15"),
	}, engine.PipelineOptions{StrictEnforcement: true}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: a warning naming the leave, never blocking
	sched := findOutcome(outcomes, engine.CheckScheduleConflict)
	if sched == nil {
		t.Fatal("Expected a schedule outcome")
	}
	if sched.Severity != engine.SeverityWarning || sched.IsValid {
		t.Errorf("Schedule conflicts are invalid warnings, got severity=%s valid=%v", sched.Severity, sched.IsValid)
	}
	if len(sched.Conflicts) != 1 || sched.Conflicts[0] != "leave-1" {
		t.Errorf("Expected the leave id in conflicts, got %v", sched.Conflicts)
	}
	if !engine.Admissible(outcomes) {
		t.Error("Schedule conflicts are advisory and must not block")
	}

	// WHEN: the requested dates clear the leave entirely
	outcomes, err = p.Validate(engine.AllocationRequest{
		ResourceName: "Alice",
		Percentage:   0.5,
		Plan:         planBetween("2026-03-21", "2026-04-15"),
	}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: silence
	if sched := findOutcome(outcomes, engine.CheckScheduleConflict); sched != nil {
		t.Errorf("Non-overlapping dates must not warn, got %+v", sched)
	}
}

// =============================================================================
// BUDGET CHECK
// =============================================================================

func TestValidate_BudgetRejectionBlocks(t *testing.T) {
	// GIVEN: a strict cost center with no room left
	snap := snapWithCenter(centerOf("cc-a", engine.EnforceStrict, 10_000, 9_500, 0))
	snap.Resources = []engine.Resource{res("Alice", 1.0, 1.2)}
	p := engine.NewAllocationValidationPipeline()

	// WHEN: the candidate costs more than the remaining budget
	outcomes, err := p.Validate(engine.AllocationRequest{
		ResourceName: "Alice",
		Percentage:   0.5,
		CostCenterID: "cc-a",
		Plan:         engine.CostPlan{MonthlyCost: money(1_000)},
	}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	// THEN: an error outcome carrying the budget evidence
	budget := findOutcome(outcomes, engine.CheckBudget)
	if budget == nil {
		t.Fatal("Expected a budget outcome")
	}
	if budget.Severity != engine.SeverityError || budget.IsValid {
		t.Errorf("Budget rejections are errors, got severity=%s valid=%v", budget.Severity, budget.IsValid)
	}
	if budget.Details.Budget == nil {
		t.Fatal("Expected the budget details payload")
	}
	if !budget.Details.Budget.NewProjectedSpend.Equal(money(10_500)) {
		t.Errorf("Expected projected spend 10500, got %s", budget.Details.Budget.NewProjectedSpend)
	}
	if engine.Admissible(outcomes) {
		t.Error("A budget rejection must block")
	}
}

func TestValidate_BudgetWarningDoesNotBlock(t *testing.T) {
	snap := snapWithCenter(centerOf("cc-a", engine.EnforceWarning, 10_000, 9_500, 15))
	snap.Resources = []engine.Resource{res("Alice", 1.0, 1.2)}
	p := engine.NewAllocationValidationPipeline()

	outcomes, err := p.Validate(engine.AllocationRequest{
		ResourceName: "Alice",
		Percentage:   0.5,
		CostCenterID: "cc-a",
		Plan:         engine.CostPlan{MonthlyCost: money(1_000)},
	}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	budget := findOutcome(outcomes, engine.CheckBudget)
	if budget == nil {
		t.Fatal("Expected a budget outcome")
	}
	if budget.Severity != engine.SeverityWarning {
		t.Errorf("Warning-mode overruns stay warnings, got %s", budget.Severity)
	}
	if !engine.Admissible(outcomes) {
		t.Error("Budget warnings must not block")
	}
}

func TestValidate_ApprovedBudgetStaysSilent(t *testing.T) {
	snap := snapWithCenter(centerOf("cc-a", engine.EnforceStrict, 10_000, 1_000, 0))
	snap.Resources = []engine.Resource{res("Alice", 1.0, 1.2)}
	p := engine.NewAllocationValidationPipeline()

	outcomes, err := p.Validate(engine.AllocationRequest{
		ResourceName: "Alice",
		Percentage:   0.5,
		CostCenterID: "cc-a",
		Plan:         engine.CostPlan{MonthlyCost: money(1_000)},
	}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if budget := findOutcome(outcomes, engine.CheckBudget); budget != nil {
		t.Errorf("Approved budgets emit no outcome, got %+v", budget)
	}
}

func TestValidate_EmptyCostCenterSkipsBudgetCheck(t *testing.T) {
	// GIVEN: a hopelessly over-budget center the request never names
	snap := snapWithCenter(centerOf("cc-a", engine.EnforceStrict, 100, 10_000, 0))
	snap.Resources = []engine.Resource{res("Alice", 1.0, 1.2)}
	p := engine.NewAllocationValidationPipeline()

	outcomes, err := p.Validate(engine.AllocationRequest{
		ResourceName: "Alice",
		Percentage:   0.5,
		Plan:         engine.CostPlan{MonthlyCost: money(1_000)},
	}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if budget := findOutcome(outcomes, engine.CheckBudget); budget != nil {
		t.Errorf("No cost center on the request means no budget check, got %+v", budget)
	}
}

// =============================================================================
// WHOLE-PIPELINE BEHAVIOR
// =============================================================================

func TestValidate_ReportsEveryProblemInCheckOrder(t *testing.T) {
	// GIVEN: a request that trips all four checks at once
	snap := &engine.Snapshot{
		Resources:   []engine.Resource{res("Alice", 1.0, 1.2)},
		Allocations: []engine.Allocation{activeAlloc("a1", "Alice", 1.0)},
		CostCenters: []engine.CostCenter{centerOf("cc-a", engine.EnforceStrict, 100, 90, 0)},
		Leaves: []engine.LeavePeriod{{
			ID:           "leave-1",
			ResourceName: "Alice",
			Range:        engine.DateRange{Start: date("2026-03-01"), End: date("2026-03-10")},
		}},
	}
	p := engine.NewAllocationValidationPipeline()

	outcomes, err := p.Validate(engine.AllocationRequest{
		ResourceName: "Alice",
		Percentage:   1.5,
		CostCenterID: "cc-a",
		Plan: engine.CostPlan{
			MonthlyCost: money(50),
			StartDate:   date("2026-03-05"),
			EndDate:     date("2026-04-05"),
		},
	}, engine.PipelineOptions{StrictEnforcement: true}, snap)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	want := []engine.CheckType{
		engine.CheckFields,
		engine.CheckCapacityLimits,
		engine.CheckScheduleConflict,
		engine.CheckBudget,
	}
	if len(outcomes) != len(want) {
		t.Fatalf("Expected %d outcomes, got %d: %+v", len(want), len(outcomes), outcomes)
	}
	for i, check := range want {
		if outcomes[i].Check != check {
			t.Errorf("Outcome %d: expected %s, got %s", i, check, outcomes[i].Check)
		}
	}
	if engine.Admissible(outcomes) {
		t.Error("A request with error outcomes must not be admissible")
	}
}

func TestValidate_BlockedStaysBlockedAsRequestGrows(t *testing.T) {
	// GIVEN: Alice at 80% under strict enforcement
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 0.8)},
	)
	p := engine.NewAllocationValidationPipeline()

	// WHEN/THEN: growing the request never flips a blocked verdict back
	blocked := false
	for pct := 0.05; pct <= 1.0; pct += 0.05 {
		outcomes, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: pct},
			engine.PipelineOptions{StrictEnforcement: true}, snap)
		if err != nil {
			t.Fatalf("Validate(%v) failed: %v", pct, err)
		}
		nowBlocked := !engine.Admissible(outcomes)
		if blocked && !nowBlocked {
			t.Fatalf("Request %.2f became admissible after a smaller one was blocked", pct)
		}
		blocked = nowBlocked
	}
	if !blocked {
		t.Error("The largest request should have been blocked")
	}
}

func TestValidate_StructuralErrors(t *testing.T) {
	snap := snapOf([]engine.Resource{res("Alice", 1.0, 1.2)}, nil)
	p := engine.NewAllocationValidationPipeline()

	if _, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.5}, engine.PipelineOptions{}, nil); !engine.IsInvalidInput(err) {
		t.Errorf("Nil snapshot should be invalid input, got %v", err)
	}
	if _, err := p.Validate(engine.AllocationRequest{Percentage: 0.5}, engine.PipelineOptions{}, snap); !engine.IsInvalidInput(err) {
		t.Errorf("Empty resource name should be invalid input, got %v", err)
	}
	if _, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: math.NaN()}, engine.PipelineOptions{}, snap); !engine.IsInvalidInput(err) {
		t.Errorf("NaN percentage should be invalid input, got %v", err)
	}
	if _, err := p.Validate(engine.AllocationRequest{ResourceName: "Alice", Percentage: 0.5},
		engine.PipelineOptions{BudgetPeriod: engine.BudgetPeriod("weekly")}, snap); !engine.IsInvalidInput(err) {
		t.Errorf("Unknown budget period should be invalid input, got %v", err)
	}
}

func TestValidateAll_ReportsEveryRequest(t *testing.T) {
	// GIVEN: a staged batch mixing clean and breaching requests
	snap := snapOf(
		[]engine.Resource{res("Alice", 1.0, 1.2), res("Bob", 1.0, 1.2)},
		[]engine.Allocation{activeAlloc("a1", "Alice", 1.1)},
	)
	p := engine.NewAllocationValidationPipeline()

	reqs := []engine.AllocationRequest{
		{ResourceName: "Alice", TaskName: "checkout-redesign", Percentage: 0.4},
		{ResourceName: "Alice", TaskName: "search-tuning", Percentage: 0.2},
		{ResourceName: "Bob", TaskName: "billing-migration", Percentage: 0.5},
	}

	// WHEN: validating the batch under strict enforcement
	reports, err := p.ValidateAll(reqs, engine.PipelineOptions{StrictEnforcement: true}, snap)
	if err != nil {
		t.Fatalf("ValidateAll failed: %v", err)
	}

	// THEN: one report per request, names copied, admissibility consistent
	if len(reports) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(reports))
	}
	for i, r := range reports {
		if r.ResourceName != reqs[i].ResourceName || r.TaskName != reqs[i].TaskName {
			t.Errorf("Report %d carries wrong names: %+v", i, r)
		}
		if r.Admissible != engine.Admissible(r.Outcomes) {
			t.Errorf("Report %d admissibility disagrees with its outcomes", i)
		}
	}
	if reports[0].Admissible {
		t.Error("Alice +40% projects to 150% and must be blocked")
	}
	if !reports[2].Admissible {
		t.Error("Bob at 50% must pass")
	}
}
