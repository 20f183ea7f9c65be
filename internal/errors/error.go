// Package errors provides the error taxonomy of the product catalog.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrProductNotFound reports that no row matched the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrStoreUnavailable reports a transport level failure reaching the store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConstraint reports a data level rejection by the store.
	ErrConstraint = errors.New("constraint violation")
	// ErrTemplateUnavailable reports that the page template could not be loaded.
	ErrTemplateUnavailable = errors.New("template unavailable")
)

// ValidationError maps field names to the rule each field failed.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError from field/rule pairs.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
