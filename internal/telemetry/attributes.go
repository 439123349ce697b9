// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Span attribute keys used by the store spans.
const (
	// Storage attributes
	DBSystemKey    = "db.system"
	DBOperationKey = "db.operation"

	// Movie info attributes
	MovieInfoIDKey   = "movieinfo.id"
	MovieInfoYearKey = "movieinfo.year"
	ResultCountKey   = "movieinfo.result_count"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// StoreAttributes creates storage span attributes. Empty id and zero year are omitted.
func StoreAttributes(backend, op, id string, year int) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(DBSystemKey, backend),
		attribute.String(DBOperationKey, op),
	}
	if id != "" {
		attrs = append(attrs, attribute.String(MovieInfoIDKey, id))
	}
	if year != 0 {
		attrs = append(attrs, attribute.Int(MovieInfoYearKey, year))
	}
	return attrs
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(err error, errorType string) []attribute.KeyValue {
	if err == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
