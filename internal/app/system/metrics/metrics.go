// Package metrics holds the Prometheus collectors the service exports on
// /metrics. Collectors register with the default registry at init.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lessonhub"

// Ledger write operations, used as the "op" label of LedgerWrites.
const (
	OpAssign   = "assign"
	OpUnassign = "unassign"
	OpPriority = "priority"
	OpReorder  = "reorder"
	OpActivate = "activate"
	OpDisable  = "deactivate"
)

var (
	// LedgerWrites counts committed ledger mutations.
	LedgerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_writes_total",
		Help:      "Committed assignment ledger writes by ledger and operation.",
	}, []string{"ledger", "op"})

	// PriorityBumps counts writes whose requested priority was already held
	// and were moved to the end of the container's order instead.
	PriorityBumps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_priority_bumps_total",
		Help:      "Priority conflicts resolved by moving the incoming row to the end.",
	}, []string{"ledger"})

	// PriorityRetries counts writes re-run after a concurrent writer took
	// the same slot first.
	PriorityRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_priority_retries_total",
		Help:      "Ledger writes retried after losing a race on the priority index.",
	}, []string{"ledger"})

	// ReorderAborts counts reorder batches that changed nothing.
	ReorderAborts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ledger_reorder_aborts_total",
		Help:      "Reorder batches rolled back.",
	}, []string{"ledger"})

	// HTTPRequests counts served requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route pattern and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
