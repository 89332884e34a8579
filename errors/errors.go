// Package errors holds the error taxonomy shared by the snippets: IO and parse failures
// from the user loader, type mismatches from the ordering helpers, and a small collector
// for joining several errors into one.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrWrongType = errors.New("wrong type")
	ErrIO        = errors.New("io error")
	ErrParse     = errors.New("parse error")
)

// IOError reports a missing or unreadable input file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	msg := ErrIO.Error()

	if e.Path != "" {
		msg += ": " + e.Path
	}

	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}

	return msg
}

// Unwrap exposes both ErrIO and the underlying cause to errors.Is.
func (e *IOError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrIO}
	}

	return []error{ErrIO, e.Err}
}

// ParseError reports malformed structured input. Index is the zero-based position
// of the offending record, or -1 when the fault isn't tied to a single record.
type ParseError struct {
	Path  string
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	prefix := ErrParse.Error()
	if e.Path != "" {
		prefix += ": " + e.Path
	}

	if e.Index >= 0 {
		prefix += fmt.Sprintf(": record %d", e.Index)
	}

	if e.Err == nil {
		return prefix
	}

	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

// Unwrap exposes both ErrParse and the underlying cause to errors.Is.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}

	return []error{ErrParse, e.Err}
}

// TypeMismatchError is returned when an ordering relation is attempted between
// values of incompatible types.
type TypeMismatchError struct {
	Op    string
	Left  string
	Right string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: unsupported operand types for %s: %s and %s", ErrWrongType, e.Op, e.Left, e.Right)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrWrongType
}

// NewTypeMismatch builds a TypeMismatchError from the two operands.
func NewTypeMismatch(op string, left, right any) *TypeMismatchError {
	return &TypeMismatchError{
		Op:    op,
		Left:  fmt.Sprintf("%T", left),
		Right: fmt.Sprintf("%T", right),
	}
}

// Collection is a thread-unsafe utility for accumulating multiple errors.
// It provides methods to add errors, check for errors, and retrieve them as a single combined error.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are automatically ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// GetError returns the collected errors as a single error.
// Returns nil if the collection is empty, the single error if there's only one,
// or a joined error (using errors.Join) if there are multiple errors.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
