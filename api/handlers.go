/*
handlers.go - HTTP API handlers for the staffing validation engine

PURPOSE:
  Exposes the allocation validation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Resources:
    GET    /api/resources                    List roster
    POST   /api/resources                    Add resource
    GET    /api/resources/summary            Availability summary
    GET    /api/resources/{id}               Get resource
    PUT    /api/resources/{id}               Update resource
    DELETE /api/resources/{id}               Remove resource
    GET    /api/resources/{id}/utilization   Current utilization
    GET    /api/resources/{id}/availability  Availability view

  Allocations:
    GET    /api/allocations                  List allocations (?resource=)
    POST   /api/allocations                  Create (validated, ?force=true)
    GET    /api/allocations/{id}             Get allocation
    PUT    /api/allocations/{id}             Update (validated, ?force=true)
    DELETE /api/allocations/{id}             Delete allocation

  Validation:
    POST   /api/validate/allocation          Dry-run one allocation
    POST   /api/validate/allocations         Dry-run a staged batch
    POST   /api/budget/check                 Budget capacity check

  Cost centers:
    GET    /api/cost-centers                 List cost centers
    POST   /api/cost-centers                 Create cost center
    GET    /api/cost-centers/{id}            Get cost center
    PUT    /api/cost-centers/{id}            Update cost center
    DELETE /api/cost-centers/{id}            Delete cost center
    GET    /api/cost-centers/{id}/spend      Spend report (?period=)

  Leaves:
    GET    /api/leaves                       List leaves (?resource=)
    POST   /api/leaves                       Register leave
    DELETE /api/leaves/{id}                  Delete leave

  Scenarios (scenarios.go):
    GET    /api/scenarios                    List demo scenarios
    GET    /api/scenarios/current            Currently loaded scenario
    POST   /api/scenarios/load               Load a demo scenario

  Monitor (monitor.go):
    GET    /api/monitor/status               Background sweeper state
    POST   /api/monitor/run                  Trigger one sweep

  Admin:
    POST   /api/admin/reset                  Clear all data

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Roster: Resource lifecycle (name uniqueness, rename cascade)
  - Rates: Tier rate card for unpriced allocations
  - Factory: Seed JSON to domain conversion (scenarios, -seed flag)
  - Monitor: Background over-allocation sweeper
  - Validators: pipeline, detector, budget, calc

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (pipeline, detector, budget validator)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate name, resource in use)
  - 422: Inadmissible allocation (verdict body carries the outcomes)
  - 500: Internal errors

  Business verdicts are not errors: an inadmissible allocation or a
  rejected budget check is a 200/422 with the verdict in the body.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - monitor.go: Background utilization sweeper
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/staffing-engine/engine"
	"github.com/warp/staffing-engine/factory"
	"github.com/warp/staffing-engine/rates"
	"github.com/warp/staffing-engine/roster"
	"github.com/warp/staffing-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Roster  *roster.Roster
	Rates   *rates.RateCard
	Factory *factory.SeedFactory
	Monitor *UtilizationMonitor

	pipeline *engine.AllocationValidationPipeline
	detector *engine.OverAllocationDetector
	budget   *engine.BudgetValidator
	calc     *engine.UtilizationCalculator

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Roster:  roster.New(store),
		Rates:   rates.Default(),
		Factory: factory.NewSeedFactory(),
		Monitor: NewUtilizationMonitor(store),

		pipeline: engine.NewAllocationValidationPipeline(),
		detector: engine.NewOverAllocationDetector(),
		budget:   engine.NewBudgetValidator(),
		calc:     engine.NewUtilizationCalculator(),
	}
}

// =============================================================================
// RESOURCE HANDLERS
// =============================================================================

// ListResources returns the full roster.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	resources, err := h.Roster.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list resources", err)
		return
	}

	writeJSON(w, http.StatusOK, toResourceDTOs(resources))
}

// CreateResource adds a resource to the roster.
func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var req ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.Roster.Add(r.Context(), engine.Resource{
		Name:                    req.Name,
		TierLevel:               req.TierLevel,
		MaxCapacity:             req.MaxCapacity,
		OverAllocationThreshold: req.OverAllocationThreshold,
		CostCenterID:            req.CostCenterID,
	})
	if err != nil {
		writeDomainError(w, "Failed to create resource", err)
		return
	}

	writeJSON(w, http.StatusCreated, toResourceDTO(*created))
}

// GetResource returns a single resource.
func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	res, err := h.Roster.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Resource not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get resource", err)
		return
	}

	writeJSON(w, http.StatusOK, toResourceDTO(*res))
}

// UpdateResource updates a roster entry. Renames cascade to the
// resource's allocations and leaves.
func (h *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	var req ResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updated, err := h.Roster.Update(r.Context(), engine.Resource{
		ID:                      chi.URLParam(r, "id"),
		Name:                    req.Name,
		TierLevel:               req.TierLevel,
		MaxCapacity:             req.MaxCapacity,
		OverAllocationThreshold: req.OverAllocationThreshold,
		CostCenterID:            req.CostCenterID,
	})
	if err != nil {
		writeDomainError(w, "Failed to update resource", err)
		return
	}

	writeJSON(w, http.StatusOK, toResourceDTO(*updated))
}

// DeleteResource removes a resource from the roster. Resources with
// allocations still counting toward utilization answer 409.
func (h *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := h.Roster.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete resource", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// GetResourceUtilization returns the resource's current utilization and
// the allocations contributing to it.
func (h *Handler) GetResourceUtilization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.Roster.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Resource not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get resource", err)
		return
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	u, err := h.calc.Calculate(res.Name, snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to calculate utilization", err)
		return
	}

	writeJSON(w, http.StatusOK, UtilizationDTO{
		ResourceName:       u.ResourceName,
		CurrentUtilization: u.Current,
		Status:             string(engine.ClassifyUtilization(u.Current)),
		ActiveAllocations:  toAllocationDTOs(u.Active),
	})
}

// GetResourceAvailability returns the availability view for one resource.
func (h *Handler) GetResourceAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.Roster.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Resource not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get resource", err)
		return
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	availability, err := h.detector.Availability(res.Name, snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute availability", err)
		return
	}

	writeJSON(w, http.StatusOK, availability)
}

// GetUtilizationSummary returns one availability row per roster resource,
// sorted by name.
func (h *Handler) GetUtilizationSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	summary, err := h.detector.Summary(snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute summary", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// =============================================================================
// ALLOCATION HANDLERS
// =============================================================================

// ListAllocations returns allocations, optionally filtered by resource
// name via ?resource=.
func (h *Handler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		allocations []engine.Allocation
		err         error
	)
	if name := r.URL.Query().Get("resource"); name != "" {
		allocations, err = h.Store.ListAllocationsForResource(ctx, name)
	} else {
		allocations, err = h.Store.ListAllocations(ctx)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list allocations", err)
		return
	}

	writeJSON(w, http.StatusOK, toAllocationDTOs(allocations))
}

// CreateAllocation validates and persists a new allocation. Inadmissible
// requests answer 422 with the outcomes; ?force=true persists anyway,
// except over malformed fields.
func (h *Handler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var req CreateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.saveValidated(w, r, "", AllocationInputDTO{
		TaskName:     req.TaskName,
		ResourceName: req.ResourceName,
		Percentage:   req.Percentage,
		Status:       req.Status,
		CostCenterID: req.CostCenterID,
		MonthlyCost:  req.MonthlyCost,
		ProjectCost:  req.ProjectCost,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
}

// GetAllocation returns a single allocation.
func (h *Handler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	alloc, err := h.Store.GetAllocation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Allocation not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get allocation", err)
		return
	}

	writeJSON(w, http.StatusOK, toAllocationDTO(*alloc))
}

// UpdateAllocation revalidates and persists an edited allocation. The
// pipeline excludes the edited allocation's own contribution from the
// utilization sum.
func (h *Handler) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	existing, err := h.Store.GetAllocation(r.Context(), id)
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Allocation not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get allocation", err)
		return
	}

	var req CreateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.saveValidated(w, r, existing.ID, AllocationInputDTO{
		TaskName:     req.TaskName,
		ResourceName: req.ResourceName,
		Percentage:   req.Percentage,
		Status:       req.Status,
		CostCenterID: req.CostCenterID,
		MonthlyCost:  req.MonthlyCost,
		ProjectCost:  req.ProjectCost,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
}

// DeleteAllocation deletes an allocation.
func (h *Handler) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAllocation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete allocation", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// saveValidated runs the validation pipeline for an allocation input and
// persists it when admissible (or forced). existingID empty means create.
func (h *Handler) saveValidated(w http.ResponseWriter, r *http.Request, existingID string, in AllocationInputDTO) {
	ctx := r.Context()
	in.AllocationID = existingID

	areq, err := h.buildAllocationRequest(ctx, in)
	if err != nil {
		writeDomainError(w, "Invalid allocation", err)
		return
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	outcomes, err := h.pipeline.Validate(areq, engine.PipelineOptions{}, snap)
	if err != nil {
		writeDomainError(w, "Validation failed", err)
		return
	}

	admissible := engine.Admissible(outcomes)
	recordValidationRequest(admissible)
	recordValidationOutcomes(outcomes)

	force := r.URL.Query().Get("force") == "true"
	if !admissible && (!force || hasUnforceableOutcome(outcomes)) {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
			Admissible: false,
			Outcomes:   outcomes,
		})
		return
	}

	alloc := engine.Allocation{
		ID:           existingID,
		TaskName:     areq.TaskName,
		ResourceName: areq.ResourceName,
		Percentage:   areq.Percentage,
		Status:       areq.Status,
		CostCenterID: areq.CostCenterID,
		Plan:         areq.Plan,
	}
	if alloc.ID == "" {
		alloc.ID = uuid.NewString()
	}
	if res := snap.ResourceByName(alloc.ResourceName); res != nil {
		alloc.ResourceID = res.ID
	}
	if cc := snap.CostCenterByID(alloc.CostCenterID); cc != nil {
		alloc.CostCenterSnapshot = &engine.CostCenterRef{ID: cc.ID, Code: cc.Code, Name: cc.Name}
	}

	if err := h.Store.SaveAllocation(ctx, alloc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save allocation", err)
		return
	}

	status := http.StatusCreated
	if existingID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, AllocationResponse{
		Allocation: toAllocationDTO(alloc),
		Admissible: admissible,
		Forced:     !admissible,
		Outcomes:   outcomes,
	})
}

// buildAllocationRequest converts an API allocation input into an engine
// request. Unpriced inputs are priced from the tier rate card when the
// resource is on the roster, and inputs without a cost center inherit the
// resource's home cost center.
func (h *Handler) buildAllocationRequest(ctx context.Context, in AllocationInputDTO) (engine.AllocationRequest, error) {
	status, err := parseStatusField(in.Status)
	if err != nil {
		return engine.AllocationRequest{}, err
	}

	start, err := parseAPIDate(in.StartDate)
	if err != nil {
		return engine.AllocationRequest{}, &engine.InvalidInputError{Field: "start_date", Reason: "must be formatted YYYY-MM-DD"}
	}
	end, err := parseAPIDate(in.EndDate)
	if err != nil {
		return engine.AllocationRequest{}, &engine.InvalidInputError{Field: "end_date", Reason: "must be formatted YYYY-MM-DD"}
	}

	res, err := h.Roster.ByName(ctx, in.ResourceName)
	if err != nil {
		return engine.AllocationRequest{}, err
	}

	costCenterID := in.CostCenterID
	if costCenterID == "" && res != nil {
		costCenterID = res.CostCenterID
	}

	plan := engine.CostPlan{
		MonthlyCost: decimal.NewFromFloat(in.MonthlyCost),
		ProjectCost: decimal.NewFromFloat(in.ProjectCost),
		StartDate:   start,
		EndDate:     end,
	}
	if plan.MonthlyCost.IsZero() && plan.ProjectCost.IsZero() && res != nil {
		plan = h.Rates.EstimatePlan(res.TierLevel, in.Percentage, plan.Range())
	} else {
		plan = engine.NormalizeCostPlan(plan)
	}

	return engine.AllocationRequest{
		AllocationID: in.AllocationID,
		ResourceName: in.ResourceName,
		TaskName:     in.TaskName,
		Percentage:   in.Percentage,
		CostCenterID: costCenterID,
		Plan:         plan,
		Status:       status,
	}, nil
}

// hasUnforceableOutcome reports whether any outcome marks the request as
// structurally broken. Force persists over capacity, schedule and budget
// verdicts, never over malformed fields.
func hasUnforceableOutcome(outcomes []engine.ValidationOutcome) bool {
	for _, o := range outcomes {
		if o.Check == engine.CheckFields && o.Blocking() {
			return true
		}
	}
	return false
}

// =============================================================================
// VALIDATION HANDLERS
// =============================================================================

// ValidateAllocation dry-runs the validation pipeline for one proposed
// allocation. Nothing is persisted; the verdict is always 200 with
// admissibility in the body.
func (h *Handler) ValidateAllocation(w http.ResponseWriter, r *http.Request) {
	var req ValidateAllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	opts, err := pipelineOptions(req.StrictEnforcement, req.AllowOverAllocation, req.BudgetPeriod)
	if err != nil {
		writeDomainError(w, "Invalid validation options", err)
		return
	}

	areq, err := h.buildAllocationRequest(r.Context(), req.AllocationInputDTO)
	if err != nil {
		writeDomainError(w, "Invalid allocation", err)
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	outcomes, err := h.pipeline.Validate(areq, opts, snap)
	if err != nil {
		writeDomainError(w, "Validation failed", err)
		return
	}

	admissible := engine.Admissible(outcomes)
	recordValidationRequest(admissible)
	recordValidationOutcomes(outcomes)

	writeJSON(w, http.StatusOK, ValidationResponse{
		Admissible: admissible,
		Outcomes:   outcomes,
	})
}

// ValidateAllocations dry-runs a staged batch. All requests of the batch
// share one utilization session, so repeated resources reuse their sums.
func (h *Handler) ValidateAllocations(w http.ResponseWriter, r *http.Request) {
	var req ValidateAllocationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if len(req.Allocations) == 0 {
		writeError(w, http.StatusBadRequest, "At least one allocation is required", nil)
		return
	}

	opts, err := pipelineOptions(req.StrictEnforcement, req.AllowOverAllocation, req.BudgetPeriod)
	if err != nil {
		writeDomainError(w, "Invalid validation options", err)
		return
	}

	reqs := make([]engine.AllocationRequest, len(req.Allocations))
	for i, in := range req.Allocations {
		areq, err := h.buildAllocationRequest(r.Context(), in)
		if err != nil {
			writeDomainError(w, fmt.Sprintf("Invalid allocation at index %d", i), err)
			return
		}
		reqs[i] = areq
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	reports, err := h.pipeline.ValidateAll(reqs, opts, snap)
	if err != nil {
		writeDomainError(w, "Validation failed", err)
		return
	}

	admissible := true
	for _, report := range reports {
		if !report.Admissible {
			admissible = false
		}
		recordValidationRequest(report.Admissible)
		recordValidationOutcomes(report.Outcomes)
	}

	writeJSON(w, http.StatusOK, BatchValidationResponse{
		Admissible: admissible,
		Reports:    reports,
	})
}

// CheckBudget validates a candidate cost against a cost center's period
// budget. Rejections are verdicts, not errors: the response is 200 with
// result approved, warning or rejected.
func (h *Handler) CheckBudget(w http.ResponseWriter, r *http.Request) {
	var req BudgetCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	period, err := parsePeriodField(req.Period)
	if err != nil {
		writeDomainError(w, "Invalid budget period", err)
		return
	}

	snap, err := h.Store.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	result, err := h.budget.ValidateBudgetCapacity(req.CostCenterID, decimal.NewFromFloat(req.AllocationCost), period, snap)
	if err != nil {
		writeDomainError(w, "Budget check failed", err)
		return
	}

	recordBudgetCheck(string(result.Result))
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// COST CENTER HANDLERS
// =============================================================================

// ListCostCenters returns all cost centers.
func (h *Handler) ListCostCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := h.Store.ListCostCenters(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list cost centers", err)
		return
	}

	writeJSON(w, http.StatusOK, toCostCenterDTOs(centers))
}

// CreateCostCenter creates a cost center.
func (h *Handler) CreateCostCenter(w http.ResponseWriter, r *http.Request) {
	var req CostCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Code == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Code and name are required", nil)
		return
	}

	mode, err := parseEnforcementField(req.EnforcementMode)
	if err != nil {
		writeDomainError(w, "Invalid enforcement mode", err)
		return
	}

	cc := engine.CostCenter{
		ID:                  uuid.NewString(),
		Code:                req.Code,
		Name:                req.Name,
		MonthlyBudget:       decimal.NewFromFloat(req.MonthlyBudget),
		YearlyBudget:        decimal.NewFromFloat(req.YearlyBudget),
		ActualMonthlyCost:   decimal.NewFromFloat(req.ActualMonthlyCost),
		ActualYearlyCost:    decimal.NewFromFloat(req.ActualYearlyCost),
		EnforcementMode:     mode,
		OverBudgetThreshold: req.OverBudgetThreshold,
	}

	if err := h.Store.SaveCostCenter(r.Context(), cc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create cost center", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCostCenterDTO(cc))
}

// GetCostCenter returns a single cost center.
func (h *Handler) GetCostCenter(w http.ResponseWriter, r *http.Request) {
	cc, err := h.Store.GetCostCenter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Cost center not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get cost center", err)
		return
	}

	writeJSON(w, http.StatusOK, toCostCenterDTO(*cc))
}

// UpdateCostCenter updates a cost center.
func (h *Handler) UpdateCostCenter(w http.ResponseWriter, r *http.Request) {
	existing, err := h.Store.GetCostCenter(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if engine.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Cost center not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get cost center", err)
		return
	}

	var req CostCenterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.Code == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Code and name are required", nil)
		return
	}

	mode, err := parseEnforcementField(req.EnforcementMode)
	if err != nil {
		writeDomainError(w, "Invalid enforcement mode", err)
		return
	}

	cc := engine.CostCenter{
		ID:                  existing.ID,
		Code:                req.Code,
		Name:                req.Name,
		MonthlyBudget:       decimal.NewFromFloat(req.MonthlyBudget),
		YearlyBudget:        decimal.NewFromFloat(req.YearlyBudget),
		ActualMonthlyCost:   decimal.NewFromFloat(req.ActualMonthlyCost),
		ActualYearlyCost:    decimal.NewFromFloat(req.ActualYearlyCost),
		EnforcementMode:     mode,
		OverBudgetThreshold: req.OverBudgetThreshold,
	}

	if err := h.Store.SaveCostCenter(r.Context(), cc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update cost center", err)
		return
	}

	writeJSON(w, http.StatusOK, toCostCenterDTO(cc))
}

// DeleteCostCenter deletes a cost center.
func (h *Handler) DeleteCostCenter(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteCostCenter(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete cost center", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// GetCostCenterSpend returns the projected-spend report for one cost
// center and budget period (?period=monthly|yearly, monthly default).
func (h *Handler) GetCostCenterSpend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	period, err := parsePeriodField(r.URL.Query().Get("period"))
	if err != nil {
		writeDomainError(w, "Invalid budget period", err)
		return
	}

	snap, err := h.Store.Snapshot(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	cc := snap.CostCenterByID(id)
	if cc == nil {
		writeError(w, http.StatusNotFound, "Cost center not found", nil)
		return
	}

	// A zero-cost budget check yields the current projections.
	result, err := h.budget.ValidateBudgetCapacity(id, decimal.Zero, period, snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute spend", err)
		return
	}

	details := result.Details
	actual := cc.ActualCost(period)

	count := 0
	for _, a := range snap.Allocations {
		if a.Status.CountsTowardUtilization() && a.BelongsToCostCenter(id) {
			count++
		}
	}

	writeJSON(w, http.StatusOK, SpendReportDTO{
		CostCenterID:      cc.ID,
		Code:              cc.Code,
		Name:              cc.Name,
		Period:            string(period),
		Budget:            details.TotalBudget.InexactFloat64(),
		ActualCost:        actual.InexactFloat64(),
		PendingSpend:      details.CurrentProjectedSpend.Sub(actual).InexactFloat64(),
		ProjectedSpend:    details.CurrentProjectedSpend.InexactFloat64(),
		AvailableBudget:   details.AvailableBudget.InexactFloat64(),
		BudgetUtilization: details.UtilizationAfterAllocation,
		EnforcementMode:   string(details.EnforcementMode),
		MaxAllowedSpend:   details.MaxAllowedSpend.InexactFloat64(),
		AllocationCount:   count,
	})
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// ListLeaves returns registered leaves, optionally filtered by resource
// name via ?resource=.
func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Store.ListLeaves(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leaves", err)
		return
	}

	if name := r.URL.Query().Get("resource"); name != "" {
		filtered := leaves[:0]
		for _, l := range leaves {
			if l.ResourceName == name {
				filtered = append(filtered, l)
			}
		}
		leaves = filtered
	}

	writeJSON(w, http.StatusOK, toLeaveDTOs(leaves))
}

// CreateLeave registers a leave period for a roster resource.
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := parseAPIDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := parseAPIDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}

	saved, err := h.Roster.AddLeave(r.Context(), engine.LeavePeriod{
		ResourceName: req.ResourceName,
		Range:        engine.DateRange{Start: start, End: end},
		Reason:       req.Reason,
	})
	if err != nil {
		writeDomainError(w, "Failed to register leave", err)
		return
	}

	writeJSON(w, http.StatusCreated, toLeaveDTO(*saved))
}

// DeleteLeave deletes a leave period.
func (h *Handler) DeleteLeave(w http.ResponseWriter, r *http.Request) {
	if err := h.Roster.RemoveLeave(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete leave", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	h.currentScenario = ""

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain failures onto HTTP status codes: invalid
// input 400, missing records 404, name and in-use conflicts 409,
// anything else 500. The error detail names the offending field or id.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	var (
		dup   *roster.DuplicateNameError
		inUse *roster.InUseError
	)
	switch {
	case errors.As(err, &dup), errors.As(err, &inUse), errors.Is(err, engine.ErrDuplicateName):
		writeError(w, http.StatusConflict, message, err)
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case engine.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func parseStatusField(s string) (engine.AllocationStatus, error) {
	switch s {
	case "", string(engine.StatusActive):
		return engine.StatusActive, nil
	case string(engine.StatusNotStarted):
		return engine.StatusNotStarted, nil
	case string(engine.StatusCompleted):
		return engine.StatusCompleted, nil
	case string(engine.StatusCancelled):
		return engine.StatusCancelled, nil
	default:
		return "", &engine.InvalidInputError{Field: "status", Reason: fmt.Sprintf("unknown status %q", s)}
	}
}

func parsePeriodField(s string) (engine.BudgetPeriod, error) {
	switch s {
	case "", string(engine.PeriodMonthly):
		return engine.PeriodMonthly, nil
	case string(engine.PeriodYearly):
		return engine.PeriodYearly, nil
	default:
		return "", &engine.InvalidInputError{Field: "period", Reason: fmt.Sprintf("unknown budget period %q", s)}
	}
}

func parseEnforcementField(s string) (engine.EnforcementMode, error) {
	switch s {
	case "", string(engine.EnforceWarning):
		return engine.EnforceWarning, nil
	case string(engine.EnforceStrict):
		return engine.EnforceStrict, nil
	case string(engine.EnforceNone):
		return engine.EnforceNone, nil
	default:
		return "", &engine.InvalidInputError{Field: "enforcement_mode", Reason: fmt.Sprintf("unknown enforcement mode %q", s)}
	}
}

func pipelineOptions(strict, allowOver bool, period string) (engine.PipelineOptions, error) {
	p, err := parsePeriodField(period)
	if err != nil {
		return engine.PipelineOptions{}, err
	}
	return engine.PipelineOptions{
		StrictEnforcement:   strict,
		AllowOverAllocation: allowOver,
		BudgetPeriod:        p,
	}, nil
}
