/*
monitor.go - Background over-allocation monitor

PURPOSE:
  Periodically sweeps the roster for resources above their over-allocation
  threshold, logs what it finds, and keeps the last sweep queryable.

DESIGN:
  - Runs a background goroutine with configurable sweep interval
  - Runs the over-allocation detector across the full snapshot
  - Logs every over-committed resource it finds
  - Updates the staffing_over_allocated_resources gauge per sweep

CONFIGURATION:
  - CheckInterval: How often to sweep (default: 5 minutes)
  - Enabled: Whether the monitor is active (default: true)

USAGE:
  monitor := NewUtilizationMonitor(store)
  monitor.Start()
  // ... later
  monitor.Stop()

ENDPOINTS:
  GET  /api/monitor/status  Sweeper state and last sweep result
  POST /api/monitor/run     Trigger one sweep

SEE ALSO:
  - engine/overallocation.go: OverAllocationDetector
  - metrics.go: Gauge and sweep counter
*/
package api

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/warp/staffing-engine/engine"
	"github.com/warp/staffing-engine/store/sqlite"
)

// SweepResult is the outcome of one monitor pass.
type SweepResult struct {
	At            time.Time
	OverAllocated []engine.OverAllocationReport
}

// UtilizationMonitor periodically sweeps for over-committed resources.
type UtilizationMonitor struct {
	Store         *sqlite.Store
	CheckInterval time.Duration
	Enabled       bool

	detector *engine.OverAllocationDetector

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	// stateMu guards the sweep state; sweeps must not contend with the
	// lifecycle lock held across Stop's wait.
	stateMu   sync.Mutex
	running   bool
	sweeps    int
	lastSweep *SweepResult
}

// NewUtilizationMonitor creates a new monitor.
func NewUtilizationMonitor(store *sqlite.Store) *UtilizationMonitor {
	return &UtilizationMonitor{
		Store:         store,
		CheckInterval: 5 * time.Minute,
		Enabled:       true,
		detector:      engine.NewOverAllocationDetector(),
		stop:          make(chan bool),
	}
}

// Start begins the monitor.
func (m *UtilizationMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Enabled {
		log.Println("[Monitor] Disabled, not starting")
		return
	}

	m.ticker = time.NewTicker(m.CheckInterval)
	m.wg.Add(1)

	m.stateMu.Lock()
	m.running = true
	m.stateMu.Unlock()

	go m.run()

	log.Printf("[Monitor] Started with sweep interval: %v", m.CheckInterval)
}

// Stop stops the monitor.
func (m *UtilizationMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ticker != nil {
		m.ticker.Stop()
		close(m.stop)
		m.wg.Wait()

		m.stateMu.Lock()
		m.running = false
		m.stateMu.Unlock()

		log.Println("[Monitor] Stopped")
	}
}

func (m *UtilizationMonitor) run() {
	defer m.wg.Done()

	// Sweep immediately on start
	m.sweep()

	for {
		select {
		case <-m.ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *UtilizationMonitor) sweep() {
	ctx := context.Background()

	snap, err := m.Store.Snapshot(ctx)
	if err != nil {
		log.Printf("[Monitor] Error loading snapshot: %v", err)
		return
	}

	reports, err := m.detector.OverAllocated(snap)
	if err != nil {
		log.Printf("[Monitor] Error detecting over-allocation: %v", err)
		return
	}

	for _, report := range reports {
		log.Printf("[Monitor] %s over-allocated: %.0f%% committed, threshold %.0f%%",
			report.ResourceName, report.CurrentUtilization*100, report.OverAllocationThreshold*100)
	}

	setOverAllocatedGauge(len(reports))
	recordMonitorSweep()

	m.stateMu.Lock()
	m.sweeps++
	m.lastSweep = &SweepResult{At: time.Now(), OverAllocated: reports}
	m.stateMu.Unlock()
}

// RunNow triggers an immediate sweep (for testing/admin). Works even when
// the background loop is disabled.
func (m *UtilizationMonitor) RunNow() {
	m.sweep()
}

// Status reports the monitor's state and the last sweep result.
func (m *UtilizationMonitor) Status() MonitorStatusDTO {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	dto := MonitorStatusDTO{
		Running:    m.running,
		Interval:   m.CheckInterval.String(),
		SweepCount: m.sweeps,
	}
	if m.lastSweep != nil {
		dto.LastSweepAt = m.lastSweep.At.Format(time.RFC3339)
		dto.OverAllocatedCount = len(m.lastSweep.OverAllocated)
		dto.OverAllocated = toOverAllocationDTOs(m.lastSweep.OverAllocated)
	}
	return dto
}

// =============================================================================
// MONITOR HANDLERS
// =============================================================================

// GetMonitorStatus returns the sweeper state and last sweep result.
// GET /api/monitor/status
func (h *Handler) GetMonitorStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Monitor.Status())
}

// RunMonitor triggers one sweep and returns the refreshed status.
// POST /api/monitor/run
func (h *Handler) RunMonitor(w http.ResponseWriter, r *http.Request) {
	h.Monitor.RunNow()
	writeJSON(w, http.StatusOK, h.Monitor.Status())
}
