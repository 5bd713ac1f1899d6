/*
Package factory provides JSON to Go seed conversion.

PURPOSE:
  Converts JSON seed definitions into roster, cost center, allocation and
  leave records. This enables dataset configuration without code changes -
  operations can define staffing datasets in JSON, and the factory creates
  the proper Go structs and loads them into a store.

WHY JSON?
  - Non-developers can author datasets
  - Easy integration with admin tooling
  - Version control for staffing snapshots
  - Same format feeds -seed files and the built-in scenarios

JSON SCHEMA:
  {
    "resources": [
      {"name": "Dana", "tier_level": 3, "max_capacity": 1.0,
       "over_allocation_threshold": 1.2, "cost_center_id": "cc-eng"}
    ],
    "cost_centers": [
      {"id": "cc-eng", "code": "ENG", "name": "Engineering",
       "monthly_budget": 50000, "yearly_budget": 600000,
       "enforcement_mode": "strict", "over_budget_threshold": 10}
    ],
    "allocations": [
      {"task_name": "Checkout Revamp", "resource_name": "Dana",
       "percentage": 0.6, "status": "active", "cost_center": "ENG",
       "start_date": "2025-07-01", "end_date": "2025-09-30"}
    ],
    "leaves": [
      {"resource_name": "Dana", "start_date": "2025-08-11",
       "end_date": "2025-08-15", "reason": "vacation"}
    ]
  }

KEY FEATURES:
  - Validates status and enforcement vocabularies
  - Generates ids where omitted
  - Resolves cost centers by id or code and denormalizes the reference
  - Inherits the resource's cost center when an allocation names none
  - Prices unpriced allocations through the tier rate card

USAGE:
  f := factory.NewSeedFactory()

  seed, err := f.ParseSeed(jsonStr)
  if err != nil { ... }

  // Load into any store
  if err := seed.Apply(ctx, store); err != nil { ... }

SEE ALSO:
  - rates/rates.go: Tier pricing for unpriced allocations
  - api/scenarios.go: Built-in datasets expressed as seeds
  - cmd/server/main.go: -seed flag
*/
package factory

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/engine"
	"github.com/warp/staffing-engine/rates"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// SeedJSON is the JSON representation of a staffing dataset.
type SeedJSON struct {
	Resources   []ResourceJSON   `json:"resources,omitempty"`
	CostCenters []CostCenterJSON `json:"cost_centers,omitempty"`
	Allocations []AllocationJSON `json:"allocations,omitempty"`
	Leaves      []LeaveJSON      `json:"leaves,omitempty"`
}

// ResourceJSON represents a roster entry.
type ResourceJSON struct {
	ID                      string  `json:"id,omitempty"`
	Name                    string  `json:"name"`
	TierLevel               int     `json:"tier_level,omitempty"`
	MaxCapacity             float64 `json:"max_capacity,omitempty"`
	OverAllocationThreshold float64 `json:"over_allocation_threshold,omitempty"`
	CostCenterID            string  `json:"cost_center_id,omitempty"`
}

// CostCenterJSON represents a budget-holding unit.
type CostCenterJSON struct {
	ID                  string  `json:"id,omitempty"`
	Code                string  `json:"code"`
	Name                string  `json:"name"`
	MonthlyBudget       float64 `json:"monthly_budget,omitempty"`
	YearlyBudget        float64 `json:"yearly_budget,omitempty"`
	ActualMonthlyCost   float64 `json:"actual_monthly_cost,omitempty"`
	ActualYearlyCost    float64 `json:"actual_yearly_cost,omitempty"`
	EnforcementMode     string  `json:"enforcement_mode,omitempty"` // strict, warning, none
	OverBudgetThreshold float64 `json:"over_budget_threshold,omitempty"`
}

// AllocationJSON represents a staffing commitment. CostCenter takes the id
// or the code of a cost center in the same seed.
type AllocationJSON struct {
	ID           string  `json:"id,omitempty"`
	TaskName     string  `json:"task_name"`
	ResourceName string  `json:"resource_name"`
	Percentage   float64 `json:"percentage"`
	Status       string  `json:"status,omitempty"` // not-started, active, completed, cancelled
	CostCenter   string  `json:"cost_center,omitempty"`
	MonthlyCost  float64 `json:"monthly_cost,omitempty"`
	ProjectCost  float64 `json:"project_cost,omitempty"`
	StartDate    string  `json:"start_date,omitempty"` // 2006-01-02
	EndDate      string  `json:"end_date,omitempty"`
}

// LeaveJSON represents registered time away.
type LeaveJSON struct {
	ID           string `json:"id,omitempty"`
	ResourceName string `json:"resource_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Reason       string `json:"reason,omitempty"`
}

// =============================================================================
// SEED FACTORY
// =============================================================================

// SeedFactory converts JSON seeds to domain records.
type SeedFactory struct {
	card *rates.RateCard
}

// NewSeedFactory creates a factory pricing through the default rate card.
func NewSeedFactory() *SeedFactory {
	return &SeedFactory{card: rates.Default()}
}

// NewSeedFactoryWithCard creates a factory pricing through a custom card.
func NewSeedFactoryWithCard(card *rates.RateCard) *SeedFactory {
	return &SeedFactory{card: card}
}

// ParseSeed parses a JSON string into a Seed.
func (f *SeedFactory) ParseSeed(jsonStr string) (*Seed, error) {
	var sj SeedJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return nil, fmt.Errorf("failed to parse seed JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts SeedJSON to a Seed. Cost centers convert first so
// allocations can resolve their references.
func (f *SeedFactory) FromJSON(sj SeedJSON) (*Seed, error) {
	seed := &Seed{}

	centersByKey := make(map[string]engine.CostCenter) // id and code both key
	for i, cj := range sj.CostCenters {
		cc, err := convertCostCenter(cj)
		if err != nil {
			return nil, fmt.Errorf("cost_centers[%d]: %w", i, err)
		}
		seed.CostCenters = append(seed.CostCenters, cc)
		centersByKey[cc.ID] = cc
		if cc.Code != "" {
			centersByKey[cc.Code] = cc
		}
	}

	resourcesByName := make(map[string]engine.Resource)
	for i, rj := range sj.Resources {
		r, err := convertResource(rj)
		if err != nil {
			return nil, fmt.Errorf("resources[%d]: %w", i, err)
		}
		if _, dup := resourcesByName[r.Name]; dup {
			return nil, fmt.Errorf("resources[%d]: duplicate name %q", i, r.Name)
		}
		seed.Resources = append(seed.Resources, r)
		resourcesByName[r.Name] = r
	}

	for i, aj := range sj.Allocations {
		a, err := f.convertAllocation(aj, centersByKey, resourcesByName)
		if err != nil {
			return nil, fmt.Errorf("allocations[%d]: %w", i, err)
		}
		seed.Allocations = append(seed.Allocations, a)
	}

	for i, lj := range sj.Leaves {
		l, err := convertLeave(lj)
		if err != nil {
			return nil, fmt.Errorf("leaves[%d]: %w", i, err)
		}
		seed.Leaves = append(seed.Leaves, l)
	}

	return seed, nil
}

// =============================================================================
// SEED
// =============================================================================

// Seed is a converted dataset ready to load into a store.
type Seed struct {
	Resources   []engine.Resource
	CostCenters []engine.CostCenter
	Allocations []engine.Allocation
	Leaves      []engine.LeavePeriod
}

// Apply writes the seed's records to a store. Cost centers and resources go
// first so the rows allocations reference already exist.
func (s *Seed) Apply(ctx context.Context, store engine.Store) error {
	for _, cc := range s.CostCenters {
		if err := store.SaveCostCenter(ctx, cc); err != nil {
			return fmt.Errorf("seed cost center %s: %w", cc.Code, err)
		}
	}
	for _, r := range s.Resources {
		if err := store.SaveResource(ctx, r); err != nil {
			return fmt.Errorf("seed resource %s: %w", r.Name, err)
		}
	}
	for _, a := range s.Allocations {
		if err := store.SaveAllocation(ctx, a); err != nil {
			return fmt.Errorf("seed allocation %s: %w", a.TaskName, err)
		}
	}
	for _, l := range s.Leaves {
		if err := store.SaveLeave(ctx, l); err != nil {
			return fmt.Errorf("seed leave for %s: %w", l.ResourceName, err)
		}
	}
	return nil
}

// =============================================================================
// CONVERSION
// =============================================================================

func convertResource(rj ResourceJSON) (engine.Resource, error) {
	if rj.Name == "" {
		return engine.Resource{}, fmt.Errorf("name is required")
	}
	if rj.TierLevel < 0 {
		return engine.Resource{}, fmt.Errorf("tier_level must not be negative")
	}
	if rj.MaxCapacity < 0 || rj.OverAllocationThreshold < 0 {
		return engine.Resource{}, fmt.Errorf("capacities must not be negative")
	}
	if rj.MaxCapacity > 0 && rj.OverAllocationThreshold > 0 &&
		rj.OverAllocationThreshold < rj.MaxCapacity {
		return engine.Resource{}, fmt.Errorf("over_allocation_threshold below max_capacity")
	}

	return engine.Resource{
		ID:                      orNewID(rj.ID),
		Name:                    rj.Name,
		TierLevel:               rj.TierLevel,
		MaxCapacity:             rj.MaxCapacity,
		OverAllocationThreshold: rj.OverAllocationThreshold,
		CostCenterID:            rj.CostCenterID,
	}, nil
}

func convertCostCenter(cj CostCenterJSON) (engine.CostCenter, error) {
	if cj.Code == "" {
		return engine.CostCenter{}, fmt.Errorf("code is required")
	}
	mode, err := parseEnforcementMode(cj.EnforcementMode)
	if err != nil {
		return engine.CostCenter{}, err
	}
	if cj.MonthlyBudget < 0 || cj.YearlyBudget < 0 {
		return engine.CostCenter{}, fmt.Errorf("budgets must not be negative")
	}
	if cj.OverBudgetThreshold < 0 {
		return engine.CostCenter{}, fmt.Errorf("over_budget_threshold must not be negative")
	}

	return engine.CostCenter{
		ID:                  orNewID(cj.ID),
		Code:                cj.Code,
		Name:                cj.Name,
		MonthlyBudget:       decimal.NewFromFloat(cj.MonthlyBudget),
		YearlyBudget:        decimal.NewFromFloat(cj.YearlyBudget),
		ActualMonthlyCost:   decimal.NewFromFloat(cj.ActualMonthlyCost),
		ActualYearlyCost:    decimal.NewFromFloat(cj.ActualYearlyCost),
		EnforcementMode:     mode,
		OverBudgetThreshold: cj.OverBudgetThreshold,
	}, nil
}

func (f *SeedFactory) convertAllocation(
	aj AllocationJSON,
	centers map[string]engine.CostCenter,
	resources map[string]engine.Resource,
) (engine.Allocation, error) {
	if aj.TaskName == "" {
		return engine.Allocation{}, fmt.Errorf("task_name is required")
	}
	if aj.ResourceName == "" {
		return engine.Allocation{}, fmt.Errorf("resource_name is required")
	}
	if math.IsNaN(aj.Percentage) || math.IsInf(aj.Percentage, 0) || aj.Percentage < 0 {
		return engine.Allocation{}, fmt.Errorf("percentage must be a non-negative number")
	}
	status, err := parseStatus(aj.Status)
	if err != nil {
		return engine.Allocation{}, err
	}

	start, err := parseDate(aj.StartDate)
	if err != nil {
		return engine.Allocation{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := parseDate(aj.EndDate)
	if err != nil {
		return engine.Allocation{}, fmt.Errorf("invalid end_date: %w", err)
	}

	a := engine.Allocation{
		ID:           orNewID(aj.ID),
		TaskName:     aj.TaskName,
		ResourceName: aj.ResourceName,
		Percentage:   aj.Percentage,
		Status:       status,
	}

	// Denormalize the resource join when the seed knows the resource.
	res, onRoster := resources[aj.ResourceName]
	if onRoster {
		a.ResourceID = res.ID
	}

	// Cost center: explicit reference wins, otherwise the resource's own.
	key := aj.CostCenter
	if key == "" && onRoster {
		key = res.CostCenterID
	}
	if key != "" {
		if cc, ok := centers[key]; ok {
			a.CostCenterID = cc.ID
			a.CostCenterSnapshot = &engine.CostCenterRef{ID: cc.ID, Code: cc.Code, Name: cc.Name}
		} else {
			// Not in this seed; the store may already hold it.
			a.CostCenterID = key
		}
	}

	// Pricing: explicit costs normalize, unpriced allocations go through
	// the rate card when the tier is known.
	plan := engine.CostPlan{
		MonthlyCost: decimal.NewFromFloat(aj.MonthlyCost),
		ProjectCost: decimal.NewFromFloat(aj.ProjectCost),
		StartDate:   start,
		EndDate:     end,
	}
	if plan.MonthlyCost.IsZero() && plan.ProjectCost.IsZero() && onRoster {
		plan = f.card.EstimatePlan(res.TierLevel, a.Percentage, engine.DateRange{Start: start, End: end})
	} else {
		plan = engine.NormalizeCostPlan(plan)
	}
	a.Plan = plan

	return a, nil
}

func convertLeave(lj LeaveJSON) (engine.LeavePeriod, error) {
	if lj.ResourceName == "" {
		return engine.LeavePeriod{}, fmt.Errorf("resource_name is required")
	}
	if lj.StartDate == "" || lj.EndDate == "" {
		return engine.LeavePeriod{}, fmt.Errorf("start_date and end_date are required")
	}
	start, err := parseDate(lj.StartDate)
	if err != nil {
		return engine.LeavePeriod{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := parseDate(lj.EndDate)
	if err != nil {
		return engine.LeavePeriod{}, fmt.Errorf("invalid end_date: %w", err)
	}
	r := engine.DateRange{Start: start, End: end}
	if !r.IsOrdered() {
		return engine.LeavePeriod{}, fmt.Errorf("start_date after end_date")
	}

	return engine.LeavePeriod{
		ID:           orNewID(lj.ID),
		ResourceName: lj.ResourceName,
		Range:        r,
		Reason:       lj.Reason,
	}, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseEnforcementMode(s string) (engine.EnforcementMode, error) {
	switch s {
	case "", "warning":
		return engine.EnforceWarning, nil
	case "strict":
		return engine.EnforceStrict, nil
	case "none":
		return engine.EnforceNone, nil
	default:
		return "", fmt.Errorf("unknown enforcement_mode: %q", s)
	}
}

func parseStatus(s string) (engine.AllocationStatus, error) {
	switch s {
	case "", "active":
		return engine.StatusActive, nil
	case "not-started":
		return engine.StatusNotStarted, nil
	case "completed":
		return engine.StatusCompleted, nil
	case "cancelled":
		return engine.StatusCancelled, nil
	default:
		return "", fmt.Errorf("unknown status: %q", s)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
