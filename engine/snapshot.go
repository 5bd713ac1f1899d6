/*
snapshot.go - Immutable state container for validation calls

PURPOSE:
  The engine never talks to storage. The host obtains a consistent view of
  resources, allocations, cost centers and leaves, wraps it in a Snapshot,
  and passes it to the checks. Nothing in this package mutates a Snapshot;
  callers must not either while a call is in flight.

LOOKUPS:
  Linear scans. Snapshots in this system's working sets are hundreds of
  rows, and the scans keep the container a plain value with no hidden
  index state to invalidate.

FINGERPRINT:
  AllocationsFingerprint hashes the allocation set deterministically
  (sorted by id, length-prefixed fields) so a session cache can key
  utilization results by content, not by pointer. Only allocations are
  hashed: utilization reads nothing else.

SEE ALSO:
  - cache.go: SessionCache keyed by the fingerprint
  - store.go: Store.Snapshot assembles these from persistence
*/
package engine

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"
)

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is the full state a validation call reads: the roster, the
// existing allocations, the cost centers, and registered leave periods.
type Snapshot struct {
	Resources   []Resource
	Allocations []Allocation
	CostCenters []CostCenter
	Leaves      []LeavePeriod
}

// ResourceByName returns the resource with the given display name, or nil.
func (s *Snapshot) ResourceByName(name string) *Resource {
	for i := range s.Resources {
		if s.Resources[i].Name == name {
			return &s.Resources[i]
		}
	}
	return nil
}

// ResourceByID returns the resource with the given id, or nil.
func (s *Snapshot) ResourceByID(id string) *Resource {
	for i := range s.Resources {
		if s.Resources[i].ID == id {
			return &s.Resources[i]
		}
	}
	return nil
}

// CostCenterByID returns the cost center with the given id, or nil.
func (s *Snapshot) CostCenterByID(id string) *CostCenter {
	for i := range s.CostCenters {
		if s.CostCenters[i].ID == id {
			return &s.CostCenters[i]
		}
	}
	return nil
}

// LeavesFor returns the leave periods registered for a resource name.
func (s *Snapshot) LeavesFor(resourceName string) []LeavePeriod {
	var out []LeavePeriod
	for _, l := range s.Leaves {
		if l.ResourceName == resourceName {
			out = append(out, l)
		}
	}
	return out
}

// =============================================================================
// FINGERPRINT - Content hash over the collections utilization reads
// =============================================================================

// AllocationsFingerprint returns a hex sha256 over the allocation set.
// Deterministic: allocations are sorted by id and every field is
// length-prefixed, so equal content always hashes equal regardless of
// slice order.
func (s *Snapshot) AllocationsFingerprint() string {
	ids := make([]int, len(s.Allocations))
	for i := range ids {
		ids[i] = i
	}
	sort.Slice(ids, func(a, b int) bool {
		return s.Allocations[ids[a]].ID < s.Allocations[ids[b]].ID
	})

	h := sha256.New()
	writeField := func(data []byte) {
		var lengthBytes [8]byte
		binary.BigEndian.PutUint64(lengthBytes[:], uint64(len(data)))
		h.Write(lengthBytes[:])
		h.Write(data)
	}
	writeFloat := func(v float64) {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
		writeField(b[:])
	}

	writeFloat(float64(len(ids)))
	for _, i := range ids {
		a := s.Allocations[i]
		writeField([]byte(a.ID))
		writeField([]byte(a.ResourceName))
		writeField([]byte(string(a.Status)))
		writeFloat(a.Percentage)
	}

	return hex.EncodeToString(h.Sum(nil))
}
