/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates resources, cost
	centers, allocations, and leaves that demonstrate specific verdicts.

AVAILABLE SCENARIOS:

	balanced-team:  Healthy roster, everyone under capacity
	crunch-time:    Over-allocated staff engineer, strict budget at its edge
	budget-squeeze: Warning-mode cost center spending into its tolerance band
	leave-season:   August leaves colliding with allocation windows

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Build a seed (cost centers, resources, allocations, leaves)
 3. Apply it through the seed factory, which prices unpriced allocations
    from the tier rate card and denormalizes cost center references

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "crunch-time"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase handler
  - factory/config.go: Seed JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/staffing-engine/factory"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "balanced-team",
		Name:        "Balanced Team",
		Description: "Healthy engineering roster with everyone under capacity and budget to spare",
	},
	{
		ID:          "crunch-time",
		Name:        "Crunch Time",
		Description: "Over-allocated staff engineer and a strict delivery budget at its edge",
	},
	{
		ID:          "budget-squeeze",
		Name:        "Budget Squeeze",
		Description: "Warning-mode cost center spending into its over-budget tolerance band",
	},
	{
		ID:          "leave-season",
		Name:        "Leave Season",
		Description: "August leaves overlapping active allocation windows",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	// Find the scenario details
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}

	// Scenario ID exists but not in list (shouldn't happen)
	writeJSON(w, http.StatusOK, ScenarioDTO{
		ID:          h.currentScenario,
		Name:        h.currentScenario,
		Description: "Currently loaded scenario",
	})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "balanced-team":
		err = h.loadBalancedTeamScenario(ctx)
	case "crunch-time":
		err = h.loadCrunchTimeScenario(ctx)
	case "budget-squeeze":
		err = h.loadBudgetSqueezeScenario(ctx)
	case "leave-season":
		err = h.loadLeaveSeasonScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	// Track the loaded scenario and refresh the over-allocation gauge
	h.currentScenario = req.ScenarioID
	h.Monitor.RunNow()

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// applySeed converts and persists a seed through the factory.
func (h *Handler) applySeed(ctx context.Context, sj factory.SeedJSON) error {
	seed, err := h.Factory.FromJSON(sj)
	if err != nil {
		return err
	}
	return seed.Apply(ctx, h.Store)
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// loadBalancedTeamScenario seeds a healthy roster: three engineers, all
// under capacity, a generous engineering budget, and one upcoming leave.
func (h *Handler) loadBalancedTeamScenario(ctx context.Context) error {
	year := time.Now().Year()

	return h.applySeed(ctx, factory.SeedJSON{
		CostCenters: []factory.CostCenterJSON{
			{
				ID:              "cc-eng",
				Code:            "ENG",
				Name:            "Engineering",
				MonthlyBudget:   60000,
				YearlyBudget:    720000,
				EnforcementMode: "warning",
			},
		},
		Resources: []factory.ResourceJSON{
			{ID: "res-alice", Name: "Alice Chen", TierLevel: 3, CostCenterID: "cc-eng"},
			{ID: "res-bob", Name: "Bob Patel", TierLevel: 2, CostCenterID: "cc-eng"},
			// Carol works a four-day week.
			{ID: "res-carol", Name: "Carol Novak", TierLevel: 1, MaxCapacity: 0.8, CostCenterID: "cc-eng"},
		},
		Allocations: []factory.AllocationJSON{
			{
				TaskName:     "Payments revamp",
				ResourceName: "Alice Chen",
				Percentage:   0.6,
				CostCenter:   "ENG",
				StartDate:    fmt.Sprintf("%d-07-01", year),
				EndDate:      fmt.Sprintf("%d-12-31", year),
			},
			{
				TaskName:     "API gateway",
				ResourceName: "Alice Chen",
				Percentage:   0.3,
				CostCenter:   "ENG",
				StartDate:    fmt.Sprintf("%d-08-01", year),
				EndDate:      fmt.Sprintf("%d-10-31", year),
			},
			{
				TaskName:     "Payments revamp",
				ResourceName: "Bob Patel",
				Percentage:   0.5,
				CostCenter:   "ENG",
				StartDate:    fmt.Sprintf("%d-07-01", year),
				EndDate:      fmt.Sprintf("%d-12-31", year),
			},
			{
				TaskName:     "Internal tools",
				ResourceName: "Bob Patel",
				Percentage:   0.3,
				CostCenter:   "ENG",
			},
			{
				TaskName:     "Docs portal",
				ResourceName: "Carol Novak",
				Percentage:   0.4,
				CostCenter:   "ENG",
			},
		},
		Leaves: []factory.LeaveJSON{
			{
				ResourceName: "Bob Patel",
				StartDate:    fmt.Sprintf("%d-09-07", year),
				EndDate:      fmt.Sprintf("%d-09-11", year),
				Reason:       "Vacation",
			},
		},
	})
}

// loadCrunchTimeScenario seeds a delivery crunch: Dana is over her 120%
// threshold, Evan sits exactly at capacity, and the strict delivery
// budget has almost no headroom left.
func (h *Handler) loadCrunchTimeScenario(ctx context.Context) error {
	year := time.Now().Year()

	return h.applySeed(ctx, factory.SeedJSON{
		CostCenters: []factory.CostCenterJSON{
			{
				ID:                "cc-delivery",
				Code:              "DELIVERY",
				Name:              "Product Delivery",
				MonthlyBudget:     42000,
				YearlyBudget:      504000,
				ActualMonthlyCost: 2000,
				ActualYearlyCost:  24000,
				EnforcementMode:   "strict",
			},
		},
		Resources: []factory.ResourceJSON{
			{ID: "res-dana", Name: "Dana Brooks", TierLevel: 4, CostCenterID: "cc-delivery"},
			{ID: "res-evan", Name: "Evan Ford", TierLevel: 2, CostCenterID: "cc-delivery"},
		},
		Allocations: []factory.AllocationJSON{
			// Dana: 0.7 + 0.4 + 0.2 = 1.3, past the default 1.2 threshold.
			{
				TaskName:     "Launch hardening",
				ResourceName: "Dana Brooks",
				Percentage:   0.7,
				CostCenter:   "DELIVERY",
				StartDate:    fmt.Sprintf("%d-08-01", year),
				EndDate:      fmt.Sprintf("%d-11-30", year),
			},
			{
				TaskName:     "Incident response",
				ResourceName: "Dana Brooks",
				Percentage:   0.4,
				CostCenter:   "DELIVERY",
			},
			{
				TaskName:     "Roadmap spike",
				ResourceName: "Dana Brooks",
				Percentage:   0.2,
				CostCenter:   "DELIVERY",
			},
			{
				TaskName:     "Launch hardening",
				ResourceName: "Evan Ford",
				Percentage:   0.6,
				CostCenter:   "DELIVERY",
				StartDate:    fmt.Sprintf("%d-08-01", year),
				EndDate:      fmt.Sprintf("%d-11-30", year),
			},
			{
				TaskName:     "QA automation",
				ResourceName: "Evan Ford",
				Percentage:   0.4,
				CostCenter:   "DELIVERY",
			},
		},
	})
}

// loadBudgetSqueezeScenario seeds a warning-mode cost center already
// spending past its budget but inside the 15% tolerance band.
func (h *Handler) loadBudgetSqueezeScenario(ctx context.Context) error {
	year := time.Now().Year()

	return h.applySeed(ctx, factory.SeedJSON{
		CostCenters: []factory.CostCenterJSON{
			{
				ID:                  "cc-ops",
				Code:                "OPS",
				Name:                "Operations",
				MonthlyBudget:       20000,
				YearlyBudget:        240000,
				ActualMonthlyCost:   17000,
				ActualYearlyCost:    205000,
				EnforcementMode:     "warning",
				OverBudgetThreshold: 15,
			},
		},
		Resources: []factory.ResourceJSON{
			{ID: "res-fiona", Name: "Fiona Gray", TierLevel: 2, CostCenterID: "cc-ops"},
			{ID: "res-greg", Name: "Greg Hale", TierLevel: 1, CostCenterID: "cc-ops"},
		},
		Allocations: []factory.AllocationJSON{
			// Fiona's 4400 and Greg's 1500 land projected spend at 114.5%
			// of budget, just inside the tolerance band.
			{
				TaskName:     "Vendor migration",
				ResourceName: "Fiona Gray",
				Percentage:   0.4,
				CostCenter:   "OPS",
				StartDate:    fmt.Sprintf("%d-08-01", year),
				EndDate:      fmt.Sprintf("%d-12-31", year),
			},
			{
				TaskName:     "Support rotation",
				ResourceName: "Greg Hale",
				Percentage:   0.2,
				CostCenter:   "OPS",
			},
		},
	})
}

// loadLeaveSeasonScenario seeds overlapping August leaves under active
// allocations, so schedule-conflict warnings fire on validation.
func (h *Handler) loadLeaveSeasonScenario(ctx context.Context) error {
	year := time.Now().Year()

	return h.applySeed(ctx, factory.SeedJSON{
		CostCenters: []factory.CostCenterJSON{
			{
				ID:              "cc-platform",
				Code:            "PLATFORM",
				Name:            "Platform",
				MonthlyBudget:   50000,
				YearlyBudget:    600000,
				EnforcementMode: "warning",
			},
		},
		Resources: []factory.ResourceJSON{
			{ID: "res-hana", Name: "Hana Ito", TierLevel: 3, CostCenterID: "cc-platform"},
			{ID: "res-ivan", Name: "Ivan Petrov", TierLevel: 2, CostCenterID: "cc-platform"},
			{ID: "res-julia", Name: "Julia Santos", TierLevel: 2, CostCenterID: "cc-platform"},
		},
		Allocations: []factory.AllocationJSON{
			{
				TaskName:     "Data pipeline rework",
				ResourceName: "Hana Ito",
				Percentage:   0.5,
				CostCenter:   "PLATFORM",
				StartDate:    fmt.Sprintf("%d-08-01", year),
				EndDate:      fmt.Sprintf("%d-09-30", year),
			},
			{
				TaskName:     "Cluster upgrade",
				ResourceName: "Ivan Petrov",
				Percentage:   0.6,
				CostCenter:   "PLATFORM",
				StartDate:    fmt.Sprintf("%d-08-01", year),
				EndDate:      fmt.Sprintf("%d-08-31", year),
			},
			{
				TaskName:     "Cluster upgrade",
				ResourceName: "Julia Santos",
				Percentage:   0.4,
				CostCenter:   "PLATFORM",
			},
		},
		Leaves: []factory.LeaveJSON{
			{
				ResourceName: "Hana Ito",
				StartDate:    fmt.Sprintf("%d-08-03", year),
				EndDate:      fmt.Sprintf("%d-08-14", year),
				Reason:       "Summer vacation",
			},
			{
				ResourceName: "Ivan Petrov",
				StartDate:    fmt.Sprintf("%d-08-10", year),
				EndDate:      fmt.Sprintf("%d-08-21", year),
				Reason:       "Parental leave",
			},
		},
	})
}
