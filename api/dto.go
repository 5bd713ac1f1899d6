/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Roster:
    ResourceDTO, ResourceRequest, UtilizationDTO

  Allocations:
    AllocationDTO, CreateAllocationRequest, AllocationResponse

  Cost centers:
    CostCenterDTO, CostCenterRequest, SpendReportDTO

  Leaves:
    LeaveDTO, CreateLeaveRequest

  Validation:
    AllocationInputDTO, ValidateAllocationRequest,
    ValidateAllocationsRequest, ValidationResponse, BudgetCheckRequest

  Scenarios:
    ScenarioDTO, LoadScenarioRequest

  Monitor:
    MonitorStatusDTO, OverAllocationDTO

MONEY:
  Money crosses the API boundary as float64; internally it is decimal.
  Engine verdict types (ValidationOutcome, ValidationReport,
  BudgetValidationResult, ResourceAvailability) serialize through their
  own canonical JSON and pass through unchanged.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/outcome.go: Verdict types passed through unchanged
*/
package api

import (
	"time"

	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// ROSTER TYPES
// =============================================================================

// ResourceDTO represents a roster entry in API responses.
type ResourceDTO struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	TierLevel               int     `json:"tier_level"`
	MaxCapacity             float64 `json:"max_capacity"`
	OverAllocationThreshold float64 `json:"over_allocation_threshold"`
	CostCenterID            string  `json:"cost_center_id,omitempty"`
}

// ResourceRequest is the request to create or update a resource.
type ResourceRequest struct {
	Name                    string  `json:"name"`
	TierLevel               int     `json:"tier_level,omitempty"`
	MaxCapacity             float64 `json:"max_capacity,omitempty"`
	OverAllocationThreshold float64 `json:"over_allocation_threshold,omitempty"`
	CostCenterID            string  `json:"cost_center_id,omitempty"`
}

// UtilizationDTO is the per-resource utilization view.
type UtilizationDTO struct {
	ResourceName       string          `json:"resource_name"`
	CurrentUtilization float64         `json:"current_utilization"`
	Status             string          `json:"status"`
	ActiveAllocations  []AllocationDTO `json:"active_allocations"`
}

// =============================================================================
// ALLOCATION TYPES
// =============================================================================

// AllocationDTO represents a staffing commitment in API responses.
type AllocationDTO struct {
	ID           string            `json:"id"`
	TaskName     string            `json:"task_name"`
	ResourceName string            `json:"resource_name"`
	ResourceID   string            `json:"resource_id,omitempty"`
	Percentage   float64           `json:"percentage"`
	Status       string            `json:"status"`
	CostCenterID string            `json:"cost_center_id,omitempty"`
	CostCenter   *CostCenterRefDTO `json:"cost_center,omitempty"`
	MonthlyCost  float64           `json:"monthly_cost"`
	ProjectCost  float64           `json:"project_cost"`
	StartDate    string            `json:"start_date,omitempty"`
	EndDate      string            `json:"end_date,omitempty"`
}

// CostCenterRefDTO is the denormalized cost center carried on an allocation.
type CostCenterRefDTO struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateAllocationRequest is the request to create or update an allocation.
// Costs are optional: unpriced requests are priced from the tier rate card
// when the resource is on the roster.
type CreateAllocationRequest struct {
	TaskName     string  `json:"task_name"`
	ResourceName string  `json:"resource_name"`
	Percentage   float64 `json:"percentage"`
	Status       string  `json:"status,omitempty"`
	CostCenterID string  `json:"cost_center_id,omitempty"`
	MonthlyCost  float64 `json:"monthly_cost,omitempty"`
	ProjectCost  float64 `json:"project_cost,omitempty"`
	StartDate    string  `json:"start_date,omitempty"` // ISO dates (2006-01-02)
	EndDate      string  `json:"end_date,omitempty"`
}

// AllocationResponse pairs a persisted allocation with the validation
// outcomes that admitted it.
type AllocationResponse struct {
	Allocation AllocationDTO              `json:"allocation"`
	Admissible bool                       `json:"admissible"`
	Forced     bool                       `json:"forced,omitempty"`
	Outcomes   []engine.ValidationOutcome `json:"outcomes,omitempty"`
}

// =============================================================================
// COST CENTER TYPES
// =============================================================================

// CostCenterDTO represents a budget-holding unit in API responses.
type CostCenterDTO struct {
	ID                  string  `json:"id"`
	Code                string  `json:"code"`
	Name                string  `json:"name"`
	MonthlyBudget       float64 `json:"monthly_budget"`
	YearlyBudget        float64 `json:"yearly_budget"`
	ActualMonthlyCost   float64 `json:"actual_monthly_cost"`
	ActualYearlyCost    float64 `json:"actual_yearly_cost"`
	EnforcementMode     string  `json:"enforcement_mode"`
	OverBudgetThreshold float64 `json:"over_budget_threshold"`
}

// CostCenterRequest is the request to create or update a cost center.
type CostCenterRequest struct {
	Code                string  `json:"code"`
	Name                string  `json:"name"`
	MonthlyBudget       float64 `json:"monthly_budget,omitempty"`
	YearlyBudget        float64 `json:"yearly_budget,omitempty"`
	ActualMonthlyCost   float64 `json:"actual_monthly_cost,omitempty"`
	ActualYearlyCost    float64 `json:"actual_yearly_cost,omitempty"`
	EnforcementMode     string  `json:"enforcement_mode,omitempty"`
	OverBudgetThreshold float64 `json:"over_budget_threshold,omitempty"`
}

// SpendReportDTO is the projected-spend view of one cost center for one
// budget period.
type SpendReportDTO struct {
	CostCenterID      string  `json:"cost_center_id"`
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Period            string  `json:"period"`
	Budget            float64 `json:"budget"`
	ActualCost        float64 `json:"actual_cost"`
	PendingSpend      float64 `json:"pending_spend"`
	ProjectedSpend    float64 `json:"projected_spend"`
	AvailableBudget   float64 `json:"available_budget"`
	BudgetUtilization float64 `json:"budget_utilization"`
	EnforcementMode   string  `json:"enforcement_mode"`
	MaxAllowedSpend   float64 `json:"max_allowed_spend"`
	AllocationCount   int     `json:"allocation_count"`
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveDTO represents registered time away in API responses.
type LeaveDTO struct {
	ID           string `json:"id"`
	ResourceName string `json:"resource_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Reason       string `json:"reason,omitempty"`
}

// CreateLeaveRequest is the request to register a leave period.
type CreateLeaveRequest struct {
	ResourceName string `json:"resource_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Reason       string `json:"reason,omitempty"`
}

// =============================================================================
// VALIDATION TYPES
// =============================================================================

// AllocationInputDTO is one proposed allocation in a validation request.
// AllocationID marks the proposal as an edit of that existing allocation.
type AllocationInputDTO struct {
	AllocationID string  `json:"allocation_id,omitempty"`
	ResourceName string  `json:"resource_name"`
	TaskName     string  `json:"task_name,omitempty"`
	Percentage   float64 `json:"percentage"`
	Status       string  `json:"status,omitempty"`
	CostCenterID string  `json:"cost_center_id,omitempty"`
	MonthlyCost  float64 `json:"monthly_cost,omitempty"`
	ProjectCost  float64 `json:"project_cost,omitempty"`
	StartDate    string  `json:"start_date,omitempty"`
	EndDate      string  `json:"end_date,omitempty"`
}

// ValidateAllocationRequest is the dry-run request for one allocation.
type ValidateAllocationRequest struct {
	AllocationInputDTO

	StrictEnforcement   bool   `json:"strict_enforcement,omitempty"`
	AllowOverAllocation bool   `json:"allow_over_allocation,omitempty"`
	BudgetPeriod        string `json:"budget_period,omitempty"` // "monthly" or "yearly"
}

// ValidateAllocationsRequest is the dry-run request for a staged batch.
type ValidateAllocationsRequest struct {
	Allocations []AllocationInputDTO `json:"allocations"`

	StrictEnforcement   bool   `json:"strict_enforcement,omitempty"`
	AllowOverAllocation bool   `json:"allow_over_allocation,omitempty"`
	BudgetPeriod        string `json:"budget_period,omitempty"`
}

// ValidationResponse is the verdict for one validated allocation.
type ValidationResponse struct {
	Admissible bool                       `json:"admissible"`
	Outcomes   []engine.ValidationOutcome `json:"outcomes"`
}

// BatchValidationResponse is the verdict for a staged batch.
type BatchValidationResponse struct {
	Admissible bool                      `json:"admissible"`
	Reports    []engine.ValidationReport `json:"reports"`
}

// BudgetCheckRequest asks whether a cost fits a cost center's budget.
type BudgetCheckRequest struct {
	CostCenterID   string  `json:"cost_center_id"`
	AllocationCost float64 `json:"allocation_cost"`
	Period         string  `json:"period,omitempty"` // "monthly" (default) or "yearly"
}

// =============================================================================
// SCENARIO AND MONITOR TYPES
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// MonitorStatusDTO reports the background sweeper's state.
type MonitorStatusDTO struct {
	Running            bool                `json:"running"`
	Interval           string              `json:"interval"`
	SweepCount         int                 `json:"sweep_count"`
	LastSweepAt        string              `json:"last_sweep_at,omitempty"`
	OverAllocatedCount int                 `json:"over_allocated_count"`
	OverAllocated      []OverAllocationDTO `json:"over_allocated,omitempty"`
}

// OverAllocationDTO is one over-committed resource in a sweep result.
type OverAllocationDTO struct {
	ResourceName         string  `json:"resource_name"`
	CurrentUtilization   float64 `json:"current_utilization"`
	Threshold            float64 `json:"threshold"`
	OverAllocationAmount float64 `json:"over_allocation_amount"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toResourceDTO(r engine.Resource) ResourceDTO {
	return ResourceDTO{
		ID:                      r.ID,
		Name:                    r.Name,
		TierLevel:               r.TierLevel,
		MaxCapacity:             r.Capacity(),
		OverAllocationThreshold: r.Threshold(),
		CostCenterID:            r.CostCenterID,
	}
}

func toResourceDTOs(resources []engine.Resource) []ResourceDTO {
	dtos := make([]ResourceDTO, len(resources))
	for i, r := range resources {
		dtos[i] = toResourceDTO(r)
	}
	return dtos
}

func toAllocationDTO(a engine.Allocation) AllocationDTO {
	dto := AllocationDTO{
		ID:           a.ID,
		TaskName:     a.TaskName,
		ResourceName: a.ResourceName,
		ResourceID:   a.ResourceID,
		Percentage:   a.Percentage,
		Status:       string(a.Status),
		CostCenterID: a.CostCenterID,
		MonthlyCost:  a.Plan.MonthlyCost.InexactFloat64(),
		ProjectCost:  a.Plan.ProjectCost.InexactFloat64(),
	}
	if a.CostCenterSnapshot != nil {
		dto.CostCenter = &CostCenterRefDTO{
			ID:   a.CostCenterSnapshot.ID,
			Code: a.CostCenterSnapshot.Code,
			Name: a.CostCenterSnapshot.Name,
		}
	}
	if !a.Plan.StartDate.IsZero() {
		dto.StartDate = a.Plan.StartDate.Format("2006-01-02")
	}
	if !a.Plan.EndDate.IsZero() {
		dto.EndDate = a.Plan.EndDate.Format("2006-01-02")
	}
	return dto
}

func toAllocationDTOs(allocations []engine.Allocation) []AllocationDTO {
	dtos := make([]AllocationDTO, len(allocations))
	for i, a := range allocations {
		dtos[i] = toAllocationDTO(a)
	}
	return dtos
}

func toCostCenterDTO(cc engine.CostCenter) CostCenterDTO {
	return CostCenterDTO{
		ID:                  cc.ID,
		Code:                cc.Code,
		Name:                cc.Name,
		MonthlyBudget:       cc.MonthlyBudget.InexactFloat64(),
		YearlyBudget:        cc.YearlyBudget.InexactFloat64(),
		ActualMonthlyCost:   cc.ActualMonthlyCost.InexactFloat64(),
		ActualYearlyCost:    cc.ActualYearlyCost.InexactFloat64(),
		EnforcementMode:     string(cc.EnforcementMode.Normalize()),
		OverBudgetThreshold: cc.OverBudgetThreshold,
	}
}

func toCostCenterDTOs(centers []engine.CostCenter) []CostCenterDTO {
	dtos := make([]CostCenterDTO, len(centers))
	for i, cc := range centers {
		dtos[i] = toCostCenterDTO(cc)
	}
	return dtos
}

func toLeaveDTO(l engine.LeavePeriod) LeaveDTO {
	return LeaveDTO{
		ID:           l.ID,
		ResourceName: l.ResourceName,
		StartDate:    l.Range.Start.Format("2006-01-02"),
		EndDate:      l.Range.End.Format("2006-01-02"),
		Reason:       l.Reason,
	}
}

func toLeaveDTOs(leaves []engine.LeavePeriod) []LeaveDTO {
	dtos := make([]LeaveDTO, len(leaves))
	for i, l := range leaves {
		dtos[i] = toLeaveDTO(l)
	}
	return dtos
}

func toOverAllocationDTOs(reports []engine.OverAllocationReport) []OverAllocationDTO {
	dtos := make([]OverAllocationDTO, len(reports))
	for i, r := range reports {
		dtos[i] = OverAllocationDTO{
			ResourceName:         r.ResourceName,
			CurrentUtilization:   r.CurrentUtilization,
			Threshold:            r.OverAllocationThreshold,
			OverAllocationAmount: r.OverAllocationAmount,
		}
	}
	return dtos
}

// parseAPIDate parses the wire date format. Empty means unset.
func parseAPIDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
