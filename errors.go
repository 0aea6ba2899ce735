// Package sdk holds the storage-level errors shared by every schema describer
// of the nabu-3 SDK generator.
package sdk

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for describer operations.
var (
	// ErrNotFound is returned when a requested storage does not exist.
	ErrNotFound = errors.New("nabu: storage not found")

	// ErrNoSchema is returned when no schema name was given and the
	// describer cannot infer the current one.
	ErrNoSchema = errors.New("nabu: schema not selected")
)

// NotFoundError represents an error when a table or schema is not found.
type NotFoundError struct {
	label string
	id    any // Optional: the name that was searched for
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	if e.id != nil {
		return fmt.Sprintf("nabu: %s not found (name=%v)", e.label, e.id)
	}
	return fmt.Sprintf("nabu: %s not found", e.label)
}

// Is reports whether the target error matches NotFoundError.
// This allows errors.Is(notFoundErr, ErrNotFound) to return true.
func (e *NotFoundError) Is(err error) bool {
	return err == ErrNotFound
}

// Label returns the kind of storage that was looked up.
func (e *NotFoundError) Label() string {
	return e.label
}

// ID returns the name that was searched for, if available.
func (e *NotFoundError) ID() any {
	return e.id
}

// NewNotFoundError returns a new NotFoundError for the given storage kind.
func NewNotFoundError(label string) *NotFoundError {
	return &NotFoundError{label: label}
}

// NewNotFoundErrorWithID returns a new NotFoundError with the name that was searched for.
func NewNotFoundErrorWithID(label string, id any) *NotFoundError {
	return &NotFoundError{label: label, id: id}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// AggregateError collects the failures of one batch: the classes of a
// generation run or the entries of a manifest.
type AggregateError struct {
	// Batch names what was processed, such as "generation" or "manifest".
	Batch  string
	Errors []error
}

// Error lists every failure on its own line.
func (e *AggregateError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "nabu: " + e.Batch + ": no errors"
	case 1:
		return "nabu: " + e.Batch + ": " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "nabu: %s: %d errors:", e.Batch, len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors so errors.Is and errors.As can walk them.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns the non-nil errs of batch as an AggregateError,
// or nil when there are none.
func NewAggregateError(batch string, errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &AggregateError{Batch: batch, Errors: filtered}
}
