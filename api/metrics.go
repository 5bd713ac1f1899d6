/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Registers and updates the Prometheus collectors for validation traffic.
  server.go exposes the default registry on /metrics.

METRICS:
  staffing_validation_outcomes_total{check,severity}  counter
  staffing_validation_requests_total{admissible}      counter
  staffing_budget_checks_total{result}                counter
  staffing_over_allocated_resources                   gauge
  staffing_monitor_sweeps_total                       counter

SEE ALSO:
  - handlers.go: Records validation and budget counters
  - monitor.go: Records sweeps and the over-allocation gauge
*/
package api

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/warp/staffing-engine/engine"
)

var (
	validationOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_validation_outcomes_total",
		Help: "Validation outcomes emitted by the pipeline, by check and severity.",
	}, []string{"check", "severity"})

	validationRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_validation_requests_total",
		Help: "Validated allocation requests, by admissibility.",
	}, []string{"admissible"})

	budgetChecks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "staffing_budget_checks_total",
		Help: "Budget capacity checks, by verdict.",
	}, []string{"result"})

	overAllocatedResources = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "staffing_over_allocated_resources",
		Help: "Resources above their over-allocation threshold, per the last sweep.",
	})

	monitorSweeps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "staffing_monitor_sweeps_total",
		Help: "Completed over-allocation monitor sweeps.",
	})
)

func init() {
	prometheus.MustRegister(
		validationOutcomes,
		validationRequests,
		budgetChecks,
		overAllocatedResources,
		monitorSweeps,
	)
}

func recordValidationOutcomes(outcomes []engine.ValidationOutcome) {
	for _, o := range outcomes {
		validationOutcomes.WithLabelValues(string(o.Check), string(o.Severity)).Inc()
	}
}

func recordValidationRequest(admissible bool) {
	validationRequests.WithLabelValues(strconv.FormatBool(admissible)).Inc()
}

func recordBudgetCheck(result string) {
	budgetChecks.WithLabelValues(result).Inc()
}

func setOverAllocatedGauge(count int) {
	overAllocatedResources.Set(float64(count))
}

func recordMonitorSweep() {
	monitorSweeps.Inc()
}
