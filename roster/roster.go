/*
Package roster manages the resource lifecycle with staffing-specific rules.

PURPOSE:
  Wraps an engine.Store with the invariants the validation core assumes
  but never enforces itself. The critical one: display names are unique,
  because allocations and leaves join to resources by name, not id.

INVARIANTS:
  1. No two resources share a display name.
  2. Renaming a resource rewrites the name on its allocations and leaves,
     so the name join never dangles.
  3. A resource with allocations still counting toward utilization cannot
     be removed.

WHY A WRAPPER?
  The validation core reads snapshots and doesn't know how records come to
  exist. The store is dumb CRUD. Somebody has to own "what makes a roster
  consistent", and that's this package.

ERROR HANDLING:
  DuplicateNameError reports which name collided and who holds it.
  InUseError reports the active allocations blocking a removal.
  Both are business-rule errors the API maps to 409.

RACE SAFETY:
  The roster validates names before writing, and the SQLite store's unique
  index on resources(name) catches concurrent writers. Database-level
  violations come back as engine.ErrDuplicateName and are rewrapped here.

EXAMPLE:
  ro := roster.New(store)

  added, err := ro.Add(ctx, engine.Resource{Name: "Dana"})
  if err != nil {
      var dup *roster.DuplicateNameError
      if errors.As(err, &dup) {
          fmt.Printf("name %q is taken by %s\n", dup.Name, dup.ExistingID)
      }
  }

SEE ALSO:
  - engine/store.go: The persistence contract this wraps
  - store/sqlite: The unique index backing invariant 1
*/
package roster

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// ROSTER - Resource lifecycle with staffing invariants
// =============================================================================

// NameLookup is the optional fast path for display-name lookups. Stores
// that don't implement it are scanned via ListResources instead.
type NameLookup interface {
	GetResourceByName(ctx context.Context, name string) (*engine.Resource, error)
}

// Roster owns resource and leave lifecycle on top of an engine.Store.
type Roster struct {
	store engine.Store
	names NameLookup // nil when the store has no by-name query
}

// New creates a roster over a store. If the store supports by-name lookups
// (the SQLite store does), name checks use them directly.
func New(store engine.Store) *Roster {
	ro := &Roster{store: store}
	if nl, ok := store.(NameLookup); ok {
		ro.names = nl
	}
	return ro
}

// =============================================================================
// RESOURCE OPERATIONS
// =============================================================================

// Add validates and persists a new resource. An empty ID is filled with a
// generated UUID. Returns DuplicateNameError if the name is taken.
func (ro *Roster) Add(ctx context.Context, r engine.Resource) (*engine.Resource, error) {
	if err := validateResource(r); err != nil {
		return nil, err
	}

	existing, err := ro.ByName(ctx, r.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateNameError{Name: r.Name, ExistingID: existing.ID}
	}

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if err := ro.saveResource(ctx, r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Update validates and persists changes to an existing resource. A changed
// name triggers the same cascade as Rename.
func (ro *Roster) Update(ctx context.Context, r engine.Resource) (*engine.Resource, error) {
	if err := validateResource(r); err != nil {
		return nil, err
	}

	current, err := ro.store.GetResource(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	if current.Name != r.Name {
		holder, err := ro.ByName(ctx, r.Name)
		if err != nil {
			return nil, err
		}
		if holder != nil && holder.ID != r.ID {
			return nil, &DuplicateNameError{Name: r.Name, ExistingID: holder.ID}
		}
	}

	if err := ro.saveResource(ctx, r); err != nil {
		return nil, err
	}
	if current.Name != r.Name {
		if err := ro.cascadeRename(ctx, current.Name, r.Name); err != nil {
			return nil, err
		}
	}
	return &r, nil
}

// Rename changes a resource's display name and rewrites the name on every
// allocation and leave joined to it. A no-op when the name is unchanged.
func (ro *Roster) Rename(ctx context.Context, id, newName string) (*engine.Resource, error) {
	if newName == "" {
		return nil, &engine.InvalidInputError{Field: "name", Reason: "must not be empty"}
	}

	res, err := ro.store.GetResource(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Name == newName {
		return res, nil
	}

	holder, err := ro.ByName(ctx, newName)
	if err != nil {
		return nil, err
	}
	if holder != nil && holder.ID != id {
		return nil, &DuplicateNameError{Name: newName, ExistingID: holder.ID}
	}

	oldName := res.Name
	res.Name = newName
	if err := ro.saveResource(ctx, *res); err != nil {
		return nil, err
	}
	if err := ro.cascadeRename(ctx, oldName, newName); err != nil {
		return nil, err
	}
	return res, nil
}

// Remove deletes a resource. Refused with InUseError while any of its
// allocations still counts toward utilization; completed and cancelled
// allocations stay behind as history. The resource's leaves go with it.
func (ro *Roster) Remove(ctx context.Context, id string) error {
	res, err := ro.store.GetResource(ctx, id)
	if err != nil {
		return err
	}

	allocs, err := ro.store.ListAllocations(ctx)
	if err != nil {
		return err
	}
	var active []string
	for _, a := range allocs {
		if a.ResourceName == res.Name && a.Status.CountsTowardUtilization() {
			active = append(active, a.ID)
		}
	}
	if len(active) > 0 {
		return &InUseError{Name: res.Name, ResourceID: id, ActiveAllocationIDs: active}
	}

	leaves, err := ro.store.ListLeaves(ctx)
	if err != nil {
		return err
	}
	for _, l := range leaves {
		if l.ResourceName == res.Name {
			if err := ro.store.DeleteLeave(ctx, l.ID); err != nil {
				return err
			}
		}
	}

	return ro.store.DeleteResource(ctx, id)
}

// Get returns a resource by id (delegated).
func (ro *Roster) Get(ctx context.Context, id string) (*engine.Resource, error) {
	return ro.store.GetResource(ctx, id)
}

// List returns all resources (delegated).
func (ro *Roster) List(ctx context.Context) ([]engine.Resource, error) {
	return ro.store.ListResources(ctx)
}

// ByName returns the resource holding a display name, or nil if the name
// is free.
func (ro *Roster) ByName(ctx context.Context, name string) (*engine.Resource, error) {
	if ro.names != nil {
		res, err := ro.names.GetResourceByName(ctx, name)
		if engine.IsNotFound(err) {
			return nil, nil
		}
		return res, err
	}

	// No by-name query on this store; scan the list.
	all, err := ro.store.ListResources(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].Name == name {
			return &all[i], nil
		}
	}
	return nil, nil
}

// =============================================================================
// LEAVE OPERATIONS
// =============================================================================

// AddLeave validates and persists a leave period. The resource must exist
// and the range must be a complete, ordered span.
func (ro *Roster) AddLeave(ctx context.Context, l engine.LeavePeriod) (*engine.LeavePeriod, error) {
	if l.ResourceName == "" {
		return nil, &engine.InvalidInputError{Field: "resourceName", Reason: "must not be empty"}
	}
	if !l.Range.IsComplete() {
		return nil, &engine.InvalidInputError{Field: "dates", Reason: "start and end are both required"}
	}
	if !l.Range.IsOrdered() {
		return nil, &engine.InvalidInputError{Field: "dates", Reason: "start must not be after end"}
	}

	res, err := ro.ByName(ctx, l.ResourceName)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, &engine.NotFoundError{Kind: "resource", ID: l.ResourceName}
	}

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if err := ro.store.SaveLeave(ctx, l); err != nil {
		return nil, err
	}
	return &l, nil
}

// RemoveLeave deletes a leave period (delegated).
func (ro *Roster) RemoveLeave(ctx context.Context, id string) error {
	return ro.store.DeleteLeave(ctx, id)
}

// =============================================================================
// VALIDATION HELPERS
// =============================================================================

func validateResource(r engine.Resource) error {
	if r.Name == "" {
		return &engine.InvalidInputError{Field: "name", Reason: "must not be empty"}
	}
	if r.TierLevel < 0 {
		return &engine.InvalidInputError{Field: "tierLevel", Reason: "must not be negative"}
	}
	if !isFinite(r.MaxCapacity) || r.MaxCapacity < 0 {
		return &engine.InvalidInputError{Field: "maxCapacity", Reason: "must be a finite non-negative number"}
	}
	if !isFinite(r.OverAllocationThreshold) || r.OverAllocationThreshold < 0 {
		return &engine.InvalidInputError{Field: "overAllocationThreshold", Reason: "must be a finite non-negative number"}
	}
	// Only meaningful when both are explicitly set; zero reads as default.
	if r.MaxCapacity > 0 && r.OverAllocationThreshold > 0 && r.OverAllocationThreshold < r.MaxCapacity {
		return &engine.InvalidInputError{Field: "overAllocationThreshold", Reason: "must not be below maxCapacity"}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// saveResource writes through to the store, rewrapping database-level name
// collisions (lost races) as DuplicateNameError.
func (ro *Roster) saveResource(ctx context.Context, r engine.Resource) error {
	err := ro.store.SaveResource(ctx, r)
	if errors.Is(err, engine.ErrDuplicateName) {
		return &DuplicateNameError{Name: r.Name}
	}
	return err
}

// cascadeRename rewrites the resource-name join on allocations and leaves.
func (ro *Roster) cascadeRename(ctx context.Context, oldName, newName string) error {
	allocs, err := ro.store.ListAllocations(ctx)
	if err != nil {
		return err
	}
	for _, a := range allocs {
		if a.ResourceName != oldName {
			continue
		}
		a.ResourceName = newName
		if err := ro.store.SaveAllocation(ctx, a); err != nil {
			return err
		}
	}

	leaves, err := ro.store.ListLeaves(ctx)
	if err != nil {
		return err
	}
	for _, l := range leaves {
		if l.ResourceName != oldName {
			continue
		}
		l.ResourceName = newName
		if err := ro.store.SaveLeave(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// DuplicateNameError is returned when a write would give two resources the
// same display name. ExistingID is empty when the collision was detected by
// the database rather than the pre-write check.
type DuplicateNameError struct {
	Name       string
	ExistingID string
}

func (e *DuplicateNameError) Error() string {
	if e.ExistingID == "" {
		return fmt.Sprintf("resource name already on roster: %q", e.Name)
	}
	return fmt.Sprintf("resource name already on roster: %q is taken by %s", e.Name, e.ExistingID)
}

// InUseError is returned when removing a resource that still holds
// allocations counting toward utilization.
type InUseError struct {
	Name                string
	ResourceID          string
	ActiveAllocationIDs []string
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("resource in use: %q still has %d allocation(s) counting toward utilization",
		e.Name, len(e.ActiveAllocationIDs))
}
