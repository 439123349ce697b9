// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldMovieInfoID   = "movie_info_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Record fields
	FieldYear  = "year"
	FieldCount = "count"

	// Storage fields
	FieldBackend   = "backend"
	FieldOperation = "op"

	// HTTP fields
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldRoute    = "route"
	FieldStatus   = "status"
	FieldBytes    = "bytes"
	FieldDuration = "duration_ms"
	FieldRemote   = "remote_addr"
)
