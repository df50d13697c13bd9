// Package errs holds the typed errors the service layer returns and the HTTP
// layer translates into status codes.
package errs

import (
	"sort"
	"strings"
)

// NotFoundError reports that the entity a mutation targets does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ConflictError reports a request that is well-formed but collides with the
// current state, e.g. a duplicate ISBN or an author that still has books.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ValidationError maps request field names to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError is a shorthand for a single-field ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}

	return "validation failed: " + strings.Join(parts, "; ")
}
