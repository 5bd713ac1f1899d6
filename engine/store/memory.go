// Package store provides an in-memory Store implementation.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/staffing-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	resources   map[string]engine.Resource
	allocations map[string]engine.Allocation
	costCenters map[string]engine.CostCenter
	leaves      map[string]engine.LeavePeriod
}

func NewMemory() *Memory {
	return &Memory{
		resources:   make(map[string]engine.Resource),
		allocations: make(map[string]engine.Allocation),
		costCenters: make(map[string]engine.CostCenter),
		leaves:      make(map[string]engine.LeavePeriod),
	}
}

// =============================================================================
// RESOURCES
// =============================================================================

func (m *Memory) SaveResource(_ context.Context, r engine.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[r.ID] = r
	return nil
}

func (m *Memory) GetResource(_ context.Context, id string) (*engine.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.resources[id]
	if !ok {
		return nil, &engine.NotFoundError{Kind: "resource", ID: id}
	}
	return &r, nil
}

func (m *Memory) DeleteResource(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[id]; !ok {
		return &engine.NotFoundError{Kind: "resource", ID: id}
	}
	delete(m.resources, id)
	return nil
}

func (m *Memory) ListResources(_ context.Context) ([]engine.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Resource, 0, len(m.resources))
	for _, r := range m.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

func (m *Memory) SaveAllocation(_ context.Context, a engine.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.CostCenterSnapshot != nil {
		ref := *a.CostCenterSnapshot
		a.CostCenterSnapshot = &ref
	}
	m.allocations[a.ID] = a
	return nil
}

func (m *Memory) GetAllocation(_ context.Context, id string) (*engine.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.allocations[id]
	if !ok {
		return nil, &engine.NotFoundError{Kind: "allocation", ID: id}
	}
	if a.CostCenterSnapshot != nil {
		ref := *a.CostCenterSnapshot
		a.CostCenterSnapshot = &ref
	}
	return &a, nil
}

func (m *Memory) DeleteAllocation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.allocations[id]; !ok {
		return &engine.NotFoundError{Kind: "allocation", ID: id}
	}
	delete(m.allocations, id)
	return nil
}

func (m *Memory) ListAllocations(_ context.Context) ([]engine.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.allocationsLocked(), nil
}

func (m *Memory) allocationsLocked() []engine.Allocation {
	out := make([]engine.Allocation, 0, len(m.allocations))
	for _, a := range m.allocations {
		if a.CostCenterSnapshot != nil {
			ref := *a.CostCenterSnapshot
			a.CostCenterSnapshot = &ref
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// =============================================================================
// COST CENTERS
// =============================================================================

func (m *Memory) SaveCostCenter(_ context.Context, cc engine.CostCenter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.costCenters[cc.ID] = cc
	return nil
}

func (m *Memory) GetCostCenter(_ context.Context, id string) (*engine.CostCenter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cc, ok := m.costCenters[id]
	if !ok {
		return nil, &engine.NotFoundError{Kind: "cost center", ID: id}
	}
	return &cc, nil
}

func (m *Memory) DeleteCostCenter(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.costCenters[id]; !ok {
		return &engine.NotFoundError{Kind: "cost center", ID: id}
	}
	delete(m.costCenters, id)
	return nil
}

func (m *Memory) ListCostCenters(_ context.Context) ([]engine.CostCenter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.CostCenter, 0, len(m.costCenters))
	for _, cc := range m.costCenters {
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// LEAVES
// =============================================================================

func (m *Memory) SaveLeave(_ context.Context, l engine.LeavePeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[l.ID] = l
	return nil
}

func (m *Memory) DeleteLeave(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leaves[id]; !ok {
		return &engine.NotFoundError{Kind: "leave", ID: id}
	}
	delete(m.leaves, id)
	return nil
}

func (m *Memory) ListLeaves(_ context.Context) ([]engine.LeavePeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.LeavePeriod, 0, len(m.leaves))
	for _, l := range m.leaves {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// =============================================================================
// SNAPSHOT / LIFECYCLE
// =============================================================================

// Snapshot copies the full state under one read lock so validation sees a
// consistent view. The copy is the caller's; later writes don't touch it.
func (m *Memory) Snapshot(_ context.Context) (*engine.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := &engine.Snapshot{
		Resources:   make([]engine.Resource, 0, len(m.resources)),
		Allocations: m.allocationsLocked(),
		CostCenters: make([]engine.CostCenter, 0, len(m.costCenters)),
		Leaves:      make([]engine.LeavePeriod, 0, len(m.leaves)),
	}
	for _, r := range m.resources {
		snap.Resources = append(snap.Resources, r)
	}
	for _, cc := range m.costCenters {
		snap.CostCenters = append(snap.CostCenters, cc)
	}
	for _, l := range m.leaves {
		snap.Leaves = append(snap.Leaves, l)
	}

	sort.Slice(snap.Resources, func(i, j int) bool { return snap.Resources[i].ID < snap.Resources[j].ID })
	sort.Slice(snap.CostCenters, func(i, j int) bool { return snap.CostCenters[i].ID < snap.CostCenters[j].ID })
	sort.Slice(snap.Leaves, func(i, j int) bool { return snap.Leaves[i].ID < snap.Leaves[j].ID })
	return snap, nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources = make(map[string]engine.Resource)
	m.allocations = make(map[string]engine.Allocation)
	m.costCenters = make(map[string]engine.CostCenter)
	m.leaves = make(map[string]engine.LeavePeriod)
	return nil
}

func (m *Memory) Close() error { return nil }
