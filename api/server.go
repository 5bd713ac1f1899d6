/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend tooling

ROUTE GROUPS:
  /api/resources/*      Roster management and utilization views
  /api/allocations/*    Allocation CRUD with validation
  /api/validate/*       Dry-run validation
  /api/budget/*         Budget capacity checks
  /api/cost-centers/*   Cost center management and spend reports
  /api/leaves/*         Leave registration
  /api/scenarios/*      Demo scenarios
  /api/monitor/*        Background sweeper
  /api/admin/*          Admin operations (reset)
  /healthz              Liveness probe
  /metrics              Prometheus metrics

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Resource routes
		r.Route("/resources", func(r chi.Router) {
			r.Get("/", h.ListResources)
			r.Post("/", h.CreateResource)
			r.Get("/summary", h.GetUtilizationSummary)
			r.Get("/{id}", h.GetResource)
			r.Put("/{id}", h.UpdateResource)
			r.Delete("/{id}", h.DeleteResource)
			r.Get("/{id}/utilization", h.GetResourceUtilization)
			r.Get("/{id}/availability", h.GetResourceAvailability)
		})

		// Allocation routes
		r.Route("/allocations", func(r chi.Router) {
			r.Get("/", h.ListAllocations)
			r.Post("/", h.CreateAllocation)
			r.Get("/{id}", h.GetAllocation)
			r.Put("/{id}", h.UpdateAllocation)
			r.Delete("/{id}", h.DeleteAllocation)
		})

		// Validation routes
		r.Route("/validate", func(r chi.Router) {
			r.Post("/allocation", h.ValidateAllocation)
			r.Post("/allocations", h.ValidateAllocations)
		})

		// Budget routes
		r.Route("/budget", func(r chi.Router) {
			r.Post("/check", h.CheckBudget)
		})

		// Cost center routes
		r.Route("/cost-centers", func(r chi.Router) {
			r.Get("/", h.ListCostCenters)
			r.Post("/", h.CreateCostCenter)
			r.Get("/{id}", h.GetCostCenter)
			r.Put("/{id}", h.UpdateCostCenter)
			r.Delete("/{id}", h.DeleteCostCenter)
			r.Get("/{id}/spend", h.GetCostCenterSpend)
		})

		// Leave routes
		r.Route("/leaves", func(r chi.Router) {
			r.Get("/", h.ListLeaves)
			r.Post("/", h.CreateLeave)
			r.Delete("/{id}", h.DeleteLeave)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})

		// Monitor routes
		r.Route("/monitor", func(r chi.Router) {
			r.Get("/status", h.GetMonitorStatus)
			r.Post("/run", h.RunMonitor)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/reset", h.ResetDatabase)
		})
	})

	// Liveness probe
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Landing page
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Staffing Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Staffing Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/resources">/api/resources</a> - List roster</li>
<li><a href="/api/resources/summary">/api/resources/summary</a> - Availability summary</li>
<li><a href="/api/allocations">/api/allocations</a> - List allocations</li>
<li><a href="/api/cost-centers">/api/cost-centers</a> - List cost centers</li>
<li><a href="/api/scenarios">/api/scenarios</a> - List demo scenarios</li>
<li><a href="/api/monitor/status">/api/monitor/status</a> - Monitor status</li>
<li><a href="/metrics">/metrics</a> - Prometheus metrics</li>
</ul>
</body>
</html>`))
	})

	return r
}
