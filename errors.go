package folio

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("folio: not found")
	ErrAlreadyExists = errors.New("folio: already exists")
	ErrInvalidInput  = errors.New("folio: invalid input")

	// Client errors
	ErrClientNotFound = errors.New("folio: client not found")
	ErrClientInUse    = errors.New("folio: client is referenced by documents")

	// Document errors
	ErrDocumentNotFound = errors.New("folio: document not found")
	ErrUnknownClient    = errors.New("folio: document references an unknown client")
	ErrImmutableField   = errors.New("folio: field cannot change after creation")

	// Numbering errors
	ErrNumberCollision = errors.New("folio: document number already issued")

	// Concurrency errors
	ErrVersionConflict = errors.New("folio: record was modified concurrently")

	// Store errors
	ErrStoreNotReady   = errors.New("folio: store not ready")
	ErrStoreClosed     = errors.New("folio: store is closed")
	ErrMigrationFailed = errors.New("folio: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("folio: validation failed for %s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrInvalidInput.
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "folio: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("folio: %d errors occurred: %s", len(e.Errors), e.Errors[0])
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e MultiError) Unwrap() []error {
	return e.Errors
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// Invalid records a ValidationError for field.
func (e *MultiError) Invalid(field, message string) {
	e.Add(ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// Err returns the multi-error itself when it holds anything, otherwise nil.
func (e MultiError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrDocumentNotFound)
}

// IsValidation returns true if the error was caused by rejected input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsConflict returns true if the error signals a write that lost a race or
// would break a uniqueness or reference rule.
func IsConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrNumberCollision) ||
		errors.Is(err, ErrClientInUse)
}
