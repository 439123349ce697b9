// SPDX-License-Identifier: MIT

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	movieInfoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieinfo_requests_total",
		Help: "Movie info operations by operation and outcome",
	}, []string{"op", "outcome"}) // outcome=success|not_found|invalid|failure

	validationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieinfo_validation_failures_total",
		Help: "Rejected payloads by violated field",
	}, []string{"field"})

	// Operational metrics
	configReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movieinfo_config_reloads_total",
		Help: "Configuration reload attempts by outcome",
	}, []string{"outcome"}) // outcome=success|failure
)

// Outcomes for RecordMovieInfoOperation.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeFailure  = "failure"
)

// RecordMovieInfoOperation counts one handled service operation.
func RecordMovieInfoOperation(op, outcome string) {
	movieInfoRequestsTotal.WithLabelValues(op, outcome).Inc()
}

// RecordValidationFailure counts a rejected field.
func RecordValidationFailure(field string) {
	validationFailuresTotal.WithLabelValues(field).Inc()
}

// RecordConfigReload counts a configuration reload attempt.
func RecordConfigReload(success bool) {
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	configReloadsTotal.WithLabelValues(outcome).Inc()
}
