// SPDX-License-Identifier: MIT

// Package metrics exposes the Prometheus collectors of the movie info service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store operation outcomes.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

var (
	storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "movieinfo_store_operation_duration_seconds",
		Help:    "Latency of storage operations by backend, operation and result",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "op", "result"})

	storeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieinfo_store_operations_total",
		Help: "Storage operations by backend, operation and result",
	}, []string{"backend", "op", "result"}) // result=ok|not_found|error

	storeUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "movieinfo_store_up",
		Help: "Whether the last store ping succeeded (1) or failed (0)",
	}, []string{"backend"})
)

// ObserveStoreOperation records one storage call.
func ObserveStoreOperation(backend, op, result string, d time.Duration) {
	storeOperationDuration.WithLabelValues(backend, op, result).Observe(d.Seconds())
	storeOperationsTotal.WithLabelValues(backend, op, result).Inc()
}

// SetStoreUp records the outcome of the last readiness ping.
func SetStoreUp(backend string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	storeUp.WithLabelValues(backend).Set(v)
}
