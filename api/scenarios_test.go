/*
scenarios_test.go - Demo scenario loader tests

Each scenario must load cleanly into an empty store and produce the
verdicts it advertises: balanced-team stays clean, crunch-time trips
the over-allocation detector, budget-squeeze lands inside its
tolerance band, and leave-season raises schedule conflicts.
*/
package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/engine"
)

func TestListScenarios(t *testing.T) {
	// GIVEN: A fresh handler
	// WHEN: Listing scenarios
	// THEN: All four ship, in a stable order, each with a description

	h := setupTestHandler(t)

	rec := serve(t, h, "GET", "/api/scenarios", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, rec.Code)
	}

	var got []ScenarioDTO
	decode(t, rec, &got)

	expected := []string{"balanced-team", "crunch-time", "budget-squeeze", "leave-season"}
	if len(got) != len(expected) {
		t.Fatalf("Expected %d scenarios, got %d", len(expected), len(got))
	}
	for i, id := range expected {
		if got[i].ID != id {
			t.Errorf("Scenario %d: expected id %q, got %q", i, id, got[i].ID)
		}
		if got[i].Name == "" || got[i].Description == "" {
			t.Errorf("Scenario %q: expected a name and description", id)
		}
	}
}

func TestLoadScenario_UnknownID(t *testing.T) {
	// GIVEN: A fresh handler
	// WHEN: Loading a scenario id that does not exist
	// THEN: 400

	h := setupTestHandler(t)

	rec := serve(t, h, "POST", "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status code %d, got %d. Body: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
}

func TestLoadScenario_TracksCurrent(t *testing.T) {
	// GIVEN: A fresh handler with no scenario loaded
	// WHEN: Loading balanced-team, then resetting
	// THEN: The current scenario follows along: null, then the scenario,
	//       then null again

	h := setupTestHandler(t)

	rec := serve(t, h, "GET", "/api/scenarios/current", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Fatalf("Expected null before any load, got %s", body)
	}

	rec = serve(t, h, "POST", "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "balanced-team"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d. Body: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var loaded map[string]string
	decode(t, rec, &loaded)
	if loaded["status"] != "loaded" || loaded["scenario"] != "balanced-team" {
		t.Errorf("Expected a loaded confirmation, got %v", loaded)
	}

	rec = serve(t, h, "GET", "/api/scenarios/current", nil)
	var current ScenarioDTO
	decode(t, rec, &current)
	if current.ID != "balanced-team" {
		t.Errorf("Expected current scenario 'balanced-team', got %q", current.ID)
	}

	// Loading also refreshes the monitor gauge with one sweep.
	rec = serve(t, h, "GET", "/api/monitor/status", nil)
	var status MonitorStatusDTO
	decode(t, rec, &status)
	if status.SweepCount < 1 {
		t.Errorf("Expected at least one sweep after loading, got %d", status.SweepCount)
	}

	rec = serve(t, h, "POST", "/api/admin/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, rec.Code)
	}

	rec = serve(t, h, "GET", "/api/scenarios/current", nil)
	if body := strings.TrimSpace(rec.Body.String()); body != "null" {
		t.Fatalf("Expected null after reset, got %s", body)
	}
}

func TestScenario_BalancedTeam(t *testing.T) {
	// GIVEN: The balanced-team scenario
	// WHEN: Inspecting the seeded roster
	// THEN: Everyone is under capacity and the budget has headroom

	h := setupTestHandler(t)
	ctx := context.Background()

	if err := h.loadBalancedTeamScenario(ctx); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	resources, err := h.Store.ListResources(ctx)
	if err != nil {
		t.Fatalf("Failed to list resources: %v", err)
	}
	if len(resources) != 3 {
		t.Errorf("Expected 3 resources, got %d", len(resources))
	}

	centers, err := h.Store.ListCostCenters(ctx)
	if err != nil {
		t.Fatalf("Failed to list cost centers: %v", err)
	}
	if len(centers) != 1 {
		t.Errorf("Expected 1 cost center, got %d", len(centers))
	}

	allocations, err := h.Store.ListAllocations(ctx)
	if err != nil {
		t.Fatalf("Failed to list allocations: %v", err)
	}
	if len(allocations) != 5 {
		t.Errorf("Expected 5 allocations, got %d", len(allocations))
	}

	leaves, err := h.Store.ListLeaves(ctx)
	if err != nil {
		t.Fatalf("Failed to list leaves: %v", err)
	}
	if len(leaves) != 1 {
		t.Errorf("Expected 1 leave, got %d", len(leaves))
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	over, err := h.detector.OverAllocated(snap)
	if err != nil {
		t.Fatalf("Failed to detect over-allocations: %v", err)
	}
	if len(over) != 0 {
		t.Errorf("Expected nobody over-allocated, got %+v", over)
	}

	util, err := h.calc.Calculate("Alice Chen", snap)
	if err != nil {
		t.Fatalf("Failed to calculate utilization: %v", err)
	}
	if !engine.EqualWithin(util.Current, 0.9) {
		t.Errorf("Expected Alice at 0.9, got %v", util.Current)
	}

	// Alice 13500 + Bob 8800 + Carol 3000 = 25300 projected of 60000.
	result, err := h.budget.ValidateBudgetCapacity("cc-eng", decimal.Zero, engine.PeriodMonthly, snap)
	if err != nil {
		t.Fatalf("Failed to validate budget: %v", err)
	}
	if result.Result != engine.BudgetApproved {
		t.Errorf("Expected an approved budget, got %s (%s)", result.Result, result.Message)
	}
	if !result.Details.CurrentProjectedSpend.Equal(decimal.NewFromInt(25300)) {
		t.Errorf("Expected projected spend 25300, got %s", result.Details.CurrentProjectedSpend)
	}
}

func TestScenario_CrunchTime(t *testing.T) {
	// GIVEN: The crunch-time scenario
	// WHEN: Running the detector and probing the strict budget
	// THEN: Dana is the one over-allocation and the budget has 3650 of
	//       headroom left

	h := setupTestHandler(t)
	ctx := context.Background()

	if err := h.loadCrunchTimeScenario(ctx); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	over, err := h.detector.OverAllocated(snap)
	if err != nil {
		t.Fatalf("Failed to detect over-allocations: %v", err)
	}
	if len(over) != 1 {
		t.Fatalf("Expected exactly one over-allocated resource, got %d", len(over))
	}
	if over[0].ResourceName != "Dana Brooks" {
		t.Errorf("Expected Dana Brooks over-allocated, got %q", over[0].ResourceName)
	}
	if !engine.EqualWithin(over[0].CurrentUtilization, 1.3) {
		t.Errorf("Expected utilization 1.3, got %v", over[0].CurrentUtilization)
	}
	if !engine.EqualWithin(over[0].OverAllocationAmount, 0.1) {
		t.Errorf("Expected excess 0.1, got %v", over[0].OverAllocationAmount)
	}

	// Projected spend is 38350 of the 42000 budget.
	approved, err := h.budget.ValidateBudgetCapacity("cc-delivery", decimal.NewFromInt(3000), engine.PeriodMonthly, snap)
	if err != nil {
		t.Fatalf("Failed to validate budget: %v", err)
	}
	if approved.Result != engine.BudgetApproved {
		t.Errorf("Expected 3000 to fit, got %s (%s)", approved.Result, approved.Message)
	}

	rejected, err := h.budget.ValidateBudgetCapacity("cc-delivery", decimal.NewFromInt(5000), engine.PeriodMonthly, snap)
	if err != nil {
		t.Fatalf("Failed to validate budget: %v", err)
	}
	if rejected.Result != engine.BudgetRejected {
		t.Errorf("Expected 5000 to be rejected by the strict center, got %s", rejected.Result)
	}
}

func TestScenario_BudgetSqueeze(t *testing.T) {
	// GIVEN: The budget-squeeze scenario
	// WHEN: Probing the ops budget and its spend report
	// THEN: Spend sits at 114.5% of budget, a warning inside the 15%
	//       tolerance band

	h := setupTestHandler(t)
	ctx := context.Background()

	if err := h.loadBudgetSqueezeScenario(ctx); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	result, err := h.budget.ValidateBudgetCapacity("cc-ops", decimal.Zero, engine.PeriodMonthly, snap)
	if err != nil {
		t.Fatalf("Failed to validate budget: %v", err)
	}
	if result.Result != engine.BudgetWarning {
		t.Errorf("Expected a warning verdict, got %s (%s)", result.Result, result.Message)
	}
	if result.Details.UtilizationAfterAllocation != 114.5 {
		t.Errorf("Expected 114.5%% budget utilization, got %v", result.Details.UtilizationAfterAllocation)
	}

	rec := serve(t, h, "GET", "/api/cost-centers/cc-ops/spend", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d. Body: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var report SpendReportDTO
	decode(t, rec, &report)
	if report.BudgetUtilization != 114.5 {
		t.Errorf("Expected budget_utilization 114.5, got %v", report.BudgetUtilization)
	}
	if report.AllocationCount != 2 {
		t.Errorf("Expected allocation_count 2, got %d", report.AllocationCount)
	}
}

func TestScenario_LeaveSeason(t *testing.T) {
	// GIVEN: The leave-season scenario
	// WHEN: Dry-running extra August work for Hana
	// THEN: The only outcome is a schedule-conflict warning against her
	//       vacation

	h := setupTestHandler(t)
	ctx := context.Background()

	if err := h.loadLeaveSeasonScenario(ctx); err != nil {
		t.Fatalf("Failed to load scenario: %v", err)
	}

	leaves, err := h.Store.ListLeaves(ctx)
	if err != nil {
		t.Fatalf("Failed to list leaves: %v", err)
	}
	if len(leaves) != 2 {
		t.Fatalf("Expected 2 leaves, got %d", len(leaves))
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Failed to snapshot: %v", err)
	}

	year := time.Now().Year()
	outcomes, err := h.pipeline.Validate(engine.AllocationRequest{
		ResourceName: "Hana Ito",
		TaskName:     "Hotfix support",
		Percentage:   0.2,
		Plan: engine.CostPlan{
			StartDate: time.Date(year, time.August, 5, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(year, time.August, 25, 0, 0, 0, 0, time.UTC),
		},
	}, engine.PipelineOptions{}, snap)
	if err != nil {
		t.Fatalf("Failed to validate: %v", err)
	}

	if len(outcomes) != 1 {
		t.Fatalf("Expected only the schedule conflict, got %+v", outcomes)
	}
	if outcomes[0].Check != engine.CheckScheduleConflict {
		t.Errorf("Expected a schedule_conflict outcome, got %q", outcomes[0].Check)
	}
	if outcomes[0].Severity != engine.SeverityWarning {
		t.Errorf("Expected warning severity, got %q", outcomes[0].Severity)
	}
}

func TestScenario_AllScenariosLoadWithoutError(t *testing.T) {
	// GIVEN: Each shipped scenario id
	// WHEN: Loading it into a fresh store
	// THEN: The seed applies cleanly and leaves a roster behind

	for _, id := range []string{"balanced-team", "crunch-time", "budget-squeeze", "leave-season"} {
		t.Run(id, func(t *testing.T) {
			h := setupTestHandler(t)
			ctx := context.Background()

			var err error
			switch id {
			case "balanced-team":
				err = h.loadBalancedTeamScenario(ctx)
			case "crunch-time":
				err = h.loadCrunchTimeScenario(ctx)
			case "budget-squeeze":
				err = h.loadBudgetSqueezeScenario(ctx)
			case "leave-season":
				err = h.loadLeaveSeasonScenario(ctx)
			}
			if err != nil {
				t.Fatalf("Failed to load %s: %v", id, err)
			}

			resources, err := h.Store.ListResources(ctx)
			if err != nil {
				t.Fatalf("Failed to list resources: %v", err)
			}
			if len(resources) == 0 {
				t.Error("Expected the scenario to seed resources")
			}
		})
	}
}
