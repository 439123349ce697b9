// SPDX-License-Identifier: MIT

package model

import "strings"

// Rule messages reported for invalid fields.
const (
	RuleMustBePresent  = "must be present"
	RuleMustBePositive = "must be a positive value"
)

// FieldError is a single violated field rule.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + " " + e.Message
}

// ValidationError lists every violated rule of a record in check order.
type ValidationError struct {
	Fields []FieldError
}

// Error joins the violations with "," in check order,
// e.g. "name must be present,year must be a positive value".
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, ",")
}

// Validate checks the request boundary rules. Name is checked before year.
// It returns nil when m is valid.
func Validate(m *MovieInfo) *ValidationError {
	var errs []FieldError
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: RuleMustBePresent})
	}
	if m.Year <= 0 {
		errs = append(errs, FieldError{Field: "year", Message: RuleMustBePositive})
	}
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Fields: errs}
}
