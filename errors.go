package elmkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrInvalidShape indicates the input matches none of the accepted shapes.
	ErrInvalidShape = errors.New("elmkit: invalid input shape")

	// ErrEmptyInput indicates a message sequence with zero elements.
	ErrEmptyInput = errors.New("elmkit: empty message sequence")

	// ErrInvalidMessage indicates a message failed validation: missing role
	// or content, empty role, or empty string content.
	ErrInvalidMessage = errors.New("elmkit: invalid message")

	// ErrInvalidFieldType indicates a field carries the wrong structural type.
	ErrInvalidFieldType = errors.New("elmkit: invalid field type")
)

// ShapeError reports a top-level input that matches none of the accepted
// shapes, or a payload whose 'messages' field is not a sequence.
type ShapeError struct {
	Got    string // Go type of the rejected value
	Reason string // Human-readable explanation
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("cannot normalize %s: %s", e.Got, e.Reason)
}

func (e *ShapeError) Unwrap() error {
	return ErrInvalidShape
}

// ValidationError reports a message that is structurally a record but fails
// field validation.
type ValidationError struct {
	Field  string // The field that failed validation
	Index  int    // Message position in the input sequence, -1 for single inputs
	Reason string // Human-readable explanation
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("message %d: '%s' %s", e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("'%s' %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidMessage
}

// FieldTypeError reports a field or sequence element whose value has the
// wrong structural type.
type FieldTypeError struct {
	Field string // The field or sequence carrying the offending value
	Index int    // Element position within that field, -1 if not positional
	Got   string // Go type of the offending value
	Want  string // Expected type description
}

func (e *FieldTypeError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("'%s': want %s, got %s at index %d", e.Field, e.Want, e.Got, e.Index)
	}
	return fmt.Sprintf("'%s': want %s, got %s", e.Field, e.Want, e.Got)
}

func (e *FieldTypeError) Unwrap() error {
	return ErrInvalidFieldType
}

// IsShapeError checks if an error means the input shape was not recognized.
func IsShapeError(err error) bool {
	return errors.Is(err, ErrInvalidShape)
}

// IsValidationError checks if an error means a message failed field validation.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidMessage)
}

// IsFieldTypeError checks if an error means a field carried the wrong type.
func IsFieldTypeError(err error) bool {
	return errors.Is(err, ErrInvalidFieldType)
}

// IsInputError checks if an error came from caller input rather than a bug.
// All normalization failures are input errors; none is transient and none
// should be retried.
func IsInputError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrEmptyInput) {
		return true
	}

	return IsShapeError(err) || IsValidationError(err) || IsFieldTypeError(err)
}
