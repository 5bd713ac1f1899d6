/*
store.go - Persistence interface for roster state

PURPOSE:
  Defines the contract between the host application and storage. The
  validation core itself never touches a Store - it reads Snapshots. The
  Store's job is CRUD for the four record kinds plus assembling the
  consistent Snapshot a validation call consumes.

SNAPSHOT CONTRACT:
  Snapshot(ctx) returns a copy the caller owns: later writes through the
  store must not mutate a snapshot already handed out. Implementations
  return records in a deterministic order (sorted by id) so content
  fingerprints are stable.

NOT-FOUND CONVENTION:
  Get* returns (nil, *NotFoundError) for missing ids. Delete* of a
  missing id is also a NotFoundError; callers that don't care test with
  IsNotFound.

IMPLEMENTATIONS:
  - store/sqlite: production persistence
  - engine/store: in-memory for tests and demos

SEE ALSO:
  - snapshot.go: What a Snapshot is
  - roster package: Domain invariants layered over this interface
*/
package engine

import "context"

// Store handles persistence of roster state: resources, allocations,
// cost centers, and leave periods.
type Store interface {
	SaveResource(ctx context.Context, r Resource) error
	GetResource(ctx context.Context, id string) (*Resource, error)
	DeleteResource(ctx context.Context, id string) error
	ListResources(ctx context.Context) ([]Resource, error)

	SaveAllocation(ctx context.Context, a Allocation) error
	GetAllocation(ctx context.Context, id string) (*Allocation, error)
	DeleteAllocation(ctx context.Context, id string) error
	ListAllocations(ctx context.Context) ([]Allocation, error)

	SaveCostCenter(ctx context.Context, cc CostCenter) error
	GetCostCenter(ctx context.Context, id string) (*CostCenter, error)
	DeleteCostCenter(ctx context.Context, id string) error
	ListCostCenters(ctx context.Context) ([]CostCenter, error)

	SaveLeave(ctx context.Context, l LeavePeriod) error
	DeleteLeave(ctx context.Context, id string) error
	ListLeaves(ctx context.Context) ([]LeavePeriod, error)

	// Snapshot assembles the immutable state a validation call reads.
	Snapshot(ctx context.Context) (*Snapshot, error)

	// Reset clears all data (for testing/demo scenarios).
	Reset(ctx context.Context) error

	Close() error
}
