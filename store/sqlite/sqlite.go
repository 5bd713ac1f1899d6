/*
Package sqlite provides a SQLite-backed implementation of engine.Store.

PURPOSE:
  Persists the four roster record kinds (resources, allocations, cost
  centers, leaves) and assembles the consistent Snapshot the validation
  core consumes. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

KEY TABLES:
  resources:    Roster members with capacity settings
  allocations:  Task commitments, joined to resources by display name
  cost_centers: Budget-holding units with enforcement settings
  leaves:       Registered time away per resource

NAME UNIQUENESS:
  Allocations join to resources by display name, so two resources must
  never share one. The roster layer validates before writing; the
  idx_unique_resource_name index is the last line of defense against
  races. Violations surface as engine.ErrDuplicateName.

ENCODING:
  Dates are TEXT in RFC3339 so lexicographic comparison matches time
  order. Money columns are TEXT decimal strings round-tripped through
  shopspring/decimal - REAL would reintroduce the float drift the
  engine's budget math avoids.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers don't block each other and crash recovery is cheap.

NOT-FOUND CONVENTION:
  Get* and Delete* return *engine.NotFoundError for missing ids, per the
  engine.Store contract. Callers test with engine.IsNotFound.

USAGE:
  store, err := sqlite.New("./data/staffing.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  snap, err := store.Snapshot(ctx)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: Interface definition and Snapshot contract
  - engine/store/memory.go: In-memory implementation for testing
  - roster package: Domain invariants layered over this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/staffing-engine/engine"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ engine.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Resources (roster members)
	CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		tier_level INTEGER NOT NULL DEFAULT 1,
		max_capacity REAL NOT NULL DEFAULT 0,
		over_allocation_threshold REAL NOT NULL DEFAULT 0,
		cost_center_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: Allocations join to resources by display name, so names
	-- must be unique across the roster. The roster layer checks first;
	-- this index catches races at write time.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_unique_resource_name
		ON resources(name);

	CREATE INDEX IF NOT EXISTS idx_resources_cost_center
		ON resources(cost_center_id);

	-- Allocations (task commitments)
	CREATE TABLE IF NOT EXISTS allocations (
		id TEXT PRIMARY KEY,
		task_name TEXT NOT NULL,
		resource_name TEXT NOT NULL,
		resource_id TEXT NOT NULL DEFAULT '',
		percentage REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active',
		cost_center_id TEXT NOT NULL DEFAULT '',
		cc_ref_id TEXT,
		cc_ref_code TEXT,
		cc_ref_name TEXT,
		monthly_cost TEXT NOT NULL DEFAULT '0',
		project_cost TEXT NOT NULL DEFAULT '0',
		start_date TEXT,
		end_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Utilization sums and roster cascades query by resource name (hot path)
	CREATE INDEX IF NOT EXISTS idx_allocations_resource_name
		ON allocations(resource_name);
	CREATE INDEX IF NOT EXISTS idx_allocations_status
		ON allocations(status);
	CREATE INDEX IF NOT EXISTS idx_allocations_cost_center
		ON allocations(cost_center_id);

	-- Cost Centers (budget-holding units)
	CREATE TABLE IF NOT EXISTS cost_centers (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		monthly_budget TEXT NOT NULL DEFAULT '0',
		yearly_budget TEXT NOT NULL DEFAULT '0',
		actual_monthly_cost TEXT NOT NULL DEFAULT '0',
		actual_yearly_cost TEXT NOT NULL DEFAULT '0',
		enforcement_mode TEXT NOT NULL DEFAULT 'warning',
		over_budget_threshold REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cost_centers_code
		ON cost_centers(code);

	-- Leaves (registered time away)
	CREATE TABLE IF NOT EXISTS leaves (
		id TEXT PRIMARY KEY,
		resource_name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leaves_resource_name
		ON leaves(resource_name);
	CREATE INDEX IF NOT EXISTS idx_leaves_dates
		ON leaves(start_date, end_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RESOURCES
// =============================================================================

// SaveResource inserts or updates a resource. Returns engine.ErrDuplicateName
// when the write would give two resources the same display name.
func (s *Store) SaveResource(ctx context.Context, r engine.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO resources
		(id, name, tier_level, max_capacity, over_allocation_threshold, cost_center_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			tier_level = excluded.tier_level,
			max_capacity = excluded.max_capacity,
			over_allocation_threshold = excluded.over_allocation_threshold,
			cost_center_id = excluded.cost_center_id,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.Name, r.TierLevel, r.MaxCapacity, r.OverAllocationThreshold,
		r.CostCenterID, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return engine.ErrDuplicateName
		}
		return fmt.Errorf("failed to save resource: %w", err)
	}
	return nil
}

// GetResource retrieves a resource by ID.
func (s *Store) GetResource(ctx context.Context, id string) (*engine.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, tier_level, max_capacity, over_allocation_threshold, cost_center_id
		 FROM resources WHERE id = ?`, id)
	return scanResource(row, id)
}

// GetResourceByName retrieves a resource by its display name (the
// allocation join key).
func (s *Store) GetResourceByName(ctx context.Context, name string) (*engine.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, tier_level, max_capacity, over_allocation_threshold, cost_center_id
		 FROM resources WHERE name = ?`, name)
	return scanResource(row, name)
}

func scanResource(row *sql.Row, id string) (*engine.Resource, error) {
	var r engine.Resource
	err := row.Scan(&r.ID, &r.Name, &r.TierLevel, &r.MaxCapacity,
		&r.OverAllocationThreshold, &r.CostCenterID)
	if err == sql.ErrNoRows {
		return nil, &engine.NotFoundError{Kind: "resource", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan resource: %w", err)
	}
	return &r, nil
}

// DeleteResource removes a resource.
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM resources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &engine.NotFoundError{Kind: "resource", ID: id}
	}
	return nil
}

// ListResources returns all resources sorted by id.
func (s *Store) ListResources(ctx context.Context) ([]engine.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listResourcesLocked(ctx)
}

func (s *Store) listResourcesLocked(ctx context.Context) ([]engine.Resource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, tier_level, max_capacity, over_allocation_threshold, cost_center_id
		 FROM resources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	var resources []engine.Resource
	for rows.Next() {
		var r engine.Resource
		if err := rows.Scan(&r.ID, &r.Name, &r.TierLevel, &r.MaxCapacity,
			&r.OverAllocationThreshold, &r.CostCenterID); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

// SaveAllocation inserts or updates an allocation.
func (s *Store) SaveAllocation(ctx context.Context, a engine.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO allocations
		(id, task_name, resource_name, resource_id, percentage, status, cost_center_id,
		 cc_ref_id, cc_ref_code, cc_ref_name, monthly_cost, project_cost,
		 start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			task_name = excluded.task_name,
			resource_name = excluded.resource_name,
			resource_id = excluded.resource_id,
			percentage = excluded.percentage,
			status = excluded.status,
			cost_center_id = excluded.cost_center_id,
			cc_ref_id = excluded.cc_ref_id,
			cc_ref_code = excluded.cc_ref_code,
			cc_ref_name = excluded.cc_ref_name,
			monthly_cost = excluded.monthly_cost,
			project_cost = excluded.project_cost,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			updated_at = excluded.updated_at
	`

	var refID, refCode, refName sql.NullString
	if a.CostCenterSnapshot != nil {
		refID = sql.NullString{String: a.CostCenterSnapshot.ID, Valid: true}
		refCode = sql.NullString{String: a.CostCenterSnapshot.Code, Valid: true}
		refName = sql.NullString{String: a.CostCenterSnapshot.Name, Valid: true}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.TaskName, a.ResourceName, a.ResourceID, a.Percentage, string(a.Status),
		a.CostCenterID, refID, refCode, refName,
		a.Plan.MonthlyCost.String(), a.Plan.ProjectCost.String(),
		nullTime(a.Plan.StartDate), nullTime(a.Plan.EndDate),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save allocation: %w", err)
	}
	return nil
}

// GetAllocation retrieves an allocation by ID.
func (s *Store) GetAllocation(ctx context.Context, id string) (*engine.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allocs, err := s.queryAllocations(ctx, allocationSelect+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(allocs) == 0 {
		return nil, &engine.NotFoundError{Kind: "allocation", ID: id}
	}
	return &allocs[0], nil
}

// DeleteAllocation removes an allocation.
func (s *Store) DeleteAllocation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM allocations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &engine.NotFoundError{Kind: "allocation", ID: id}
	}
	return nil
}

// ListAllocations returns all allocations sorted by id.
func (s *Store) ListAllocations(ctx context.Context) ([]engine.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAllocations(ctx, allocationSelect+" ORDER BY id")
}

// ListAllocationsForResource returns the allocations joined to one resource
// name, sorted by id. Used by roster cascades and availability queries.
func (s *Store) ListAllocationsForResource(ctx context.Context, resourceName string) ([]engine.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAllocations(ctx,
		allocationSelect+" WHERE resource_name = ? ORDER BY id", resourceName)
}

const allocationSelect = `
	SELECT id, task_name, resource_name, resource_id, percentage, status, cost_center_id,
	       cc_ref_id, cc_ref_code, cc_ref_name, monthly_cost, project_cost,
	       start_date, end_date
	FROM allocations`

func (s *Store) queryAllocations(ctx context.Context, query string, args ...any) ([]engine.Allocation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []engine.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

func scanAllocation(rows *sql.Rows) (engine.Allocation, error) {
	var (
		a                       engine.Allocation
		status                  string
		refID, refCode, refName sql.NullString
		monthlyCost, projCost   string
		startDate, endDate      sql.NullString
	)

	err := rows.Scan(
		&a.ID, &a.TaskName, &a.ResourceName, &a.ResourceID, &a.Percentage,
		&status, &a.CostCenterID, &refID, &refCode, &refName,
		&monthlyCost, &projCost, &startDate, &endDate,
	)
	if err != nil {
		return a, fmt.Errorf("failed to scan allocation: %w", err)
	}

	a.Status = engine.AllocationStatus(status)
	if refID.Valid {
		a.CostCenterSnapshot = &engine.CostCenterRef{
			ID:   refID.String,
			Code: refCode.String,
			Name: refName.String,
		}
	}
	a.Plan = engine.CostPlan{
		MonthlyCost: engine.MustParseDecimal(monthlyCost),
		ProjectCost: engine.MustParseDecimal(projCost),
		StartDate:   parseTime(startDate),
		EndDate:     parseTime(endDate),
	}
	return a, nil
}

// =============================================================================
// COST CENTERS
// =============================================================================

// SaveCostCenter inserts or updates a cost center.
func (s *Store) SaveCostCenter(ctx context.Context, cc engine.CostCenter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO cost_centers
		(id, code, name, monthly_budget, yearly_budget, actual_monthly_cost, actual_yearly_cost,
		 enforcement_mode, over_budget_threshold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			monthly_budget = excluded.monthly_budget,
			yearly_budget = excluded.yearly_budget,
			actual_monthly_cost = excluded.actual_monthly_cost,
			actual_yearly_cost = excluded.actual_yearly_cost,
			enforcement_mode = excluded.enforcement_mode,
			over_budget_threshold = excluded.over_budget_threshold,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		cc.ID, cc.Code, cc.Name,
		cc.MonthlyBudget.String(), cc.YearlyBudget.String(),
		cc.ActualMonthlyCost.String(), cc.ActualYearlyCost.String(),
		string(cc.EnforcementMode), cc.OverBudgetThreshold,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save cost center: %w", err)
	}
	return nil
}

// GetCostCenter retrieves a cost center by ID.
func (s *Store) GetCostCenter(ctx context.Context, id string) (*engine.CostCenter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ccs, err := s.queryCostCenters(ctx, costCenterSelect+" WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(ccs) == 0 {
		return nil, &engine.NotFoundError{Kind: "cost center", ID: id}
	}
	return &ccs[0], nil
}

// DeleteCostCenter removes a cost center.
func (s *Store) DeleteCostCenter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM cost_centers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete cost center: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &engine.NotFoundError{Kind: "cost center", ID: id}
	}
	return nil
}

// ListCostCenters returns all cost centers sorted by id.
func (s *Store) ListCostCenters(ctx context.Context) ([]engine.CostCenter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryCostCenters(ctx, costCenterSelect+" ORDER BY id")
}

const costCenterSelect = `
	SELECT id, code, name, monthly_budget, yearly_budget, actual_monthly_cost,
	       actual_yearly_cost, enforcement_mode, over_budget_threshold
	FROM cost_centers`

func (s *Store) queryCostCenters(ctx context.Context, query string, args ...any) ([]engine.CostCenter, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost centers: %w", err)
	}
	defer rows.Close()

	var centers []engine.CostCenter
	for rows.Next() {
		var (
			cc                                               engine.CostCenter
			monthlyBudget, yearlyBudget, actualMon, actualYr string
			mode                                             string
		)
		if err := rows.Scan(&cc.ID, &cc.Code, &cc.Name,
			&monthlyBudget, &yearlyBudget, &actualMon, &actualYr,
			&mode, &cc.OverBudgetThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan cost center: %w", err)
		}
		cc.MonthlyBudget = engine.MustParseDecimal(monthlyBudget)
		cc.YearlyBudget = engine.MustParseDecimal(yearlyBudget)
		cc.ActualMonthlyCost = engine.MustParseDecimal(actualMon)
		cc.ActualYearlyCost = engine.MustParseDecimal(actualYr)
		cc.EnforcementMode = engine.EnforcementMode(mode)
		centers = append(centers, cc)
	}
	return centers, rows.Err()
}

// =============================================================================
// LEAVES
// =============================================================================

// SaveLeave inserts or updates a leave period.
func (s *Store) SaveLeave(ctx context.Context, l engine.LeavePeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leaves (id, resource_name, start_date, end_date, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			resource_name = excluded.resource_name,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			reason = excluded.reason
	`

	_, err := s.db.ExecContext(ctx, query,
		l.ID, l.ResourceName,
		l.Range.Start.Format(time.RFC3339), l.Range.End.Format(time.RFC3339),
		nullString(l.Reason),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save leave: %w", err)
	}
	return nil
}

// DeleteLeave removes a leave period.
func (s *Store) DeleteLeave(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM leaves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete leave: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &engine.NotFoundError{Kind: "leave", ID: id}
	}
	return nil
}

// ListLeaves returns all leave periods sorted by id.
func (s *Store) ListLeaves(ctx context.Context) ([]engine.LeavePeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLeavesLocked(ctx)
}

func (s *Store) listLeavesLocked(ctx context.Context) ([]engine.LeavePeriod, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, resource_name, start_date, end_date, reason FROM leaves ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query leaves: %w", err)
	}
	defer rows.Close()

	var leaves []engine.LeavePeriod
	for rows.Next() {
		var (
			l                  engine.LeavePeriod
			startDate, endDate string
			reason             sql.NullString
		)
		if err := rows.Scan(&l.ID, &l.ResourceName, &startDate, &endDate, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		l.Range.Start, _ = time.Parse(time.RFC3339, startDate)
		l.Range.End, _ = time.Parse(time.RFC3339, endDate)
		l.Reason = reason.String
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// =============================================================================
// SNAPSHOT / LIFECYCLE
// =============================================================================

// Snapshot assembles the full roster state under one read lock so validation
// sees a consistent view. Records come back sorted by id, which keeps
// content fingerprints stable across identical states.
func (s *Store) Snapshot(ctx context.Context) (*engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resources, err := s.listResourcesLocked(ctx)
	if err != nil {
		return nil, err
	}
	allocations, err := s.queryAllocations(ctx, allocationSelect+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	costCenters, err := s.queryCostCenters(ctx, costCenterSelect+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	leaves, err := s.listLeavesLocked(ctx)
	if err != nil {
		return nil, err
	}

	return &engine.Snapshot{
		Resources:   resources,
		Allocations: allocations,
		CostCenters: costCenters,
		Leaves:      leaves,
	}, nil
}

// Reset clears all data (for testing/demo scenarios).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"allocations", "leaves", "resources", "cost_centers"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

func nullTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseTime(v sql.NullString) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, v.String)
	return t
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
