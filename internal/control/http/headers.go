// SPDX-License-Identifier: MIT

package http

// Canonical header names.
const (
	// HeaderRequestID carries request correlation across middleware, problem
	// responses and tests.
	HeaderRequestID = "X-Request-ID"
	// HeaderCorrelationID is propagated from upstream callers when present.
	HeaderCorrelationID = "X-Correlation-ID"
)

// Content types written by the movie info API.
const (
	ContentTypeJSON    = "application/json"
	ContentTypeText    = "text/plain; charset=utf-8"
	ContentTypeProblem = "application/problem+json"
)

// JSONKeyRequestID is the JSON key for request correlation in problem bodies.
const JSONKeyRequestID = "requestId"
