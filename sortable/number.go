package sortable

import (
	"fmt"

	"github.com/amp-labs/amp-snippets/xform"
)

// Number is an immutable wrapper around a single numeric value that orders itself
// against other Numbers of the same underlying type.
//
// Example:
//
//	a := sortable.NewNumber(5)
//	b := sortable.NewNumber(10)
//	a.LessThan(b)    // true
//	a.LessOrEqual(a) // true
//
// Comparing against a value whose type isn't known statically goes through the
// package-level helpers, which refuse to coerce:
//
//	_, err := sortable.LessThan(a, 10) // *errors.TypeMismatchError
type Number[T xform.Numeric] struct {
	value T
}

// Compile-time check that Number implements Sortable.
var _ Sortable[Number[int]] = Number[int]{}

// NewNumber wraps value.
func NewNumber[T xform.Numeric](value T) Number[T] {
	return Number[T]{value: value}
}

// Value returns the wrapped value.
func (n Number[T]) Value() T {
	return n.value
}

// Equals returns true if both Numbers hold the same value.
func (n Number[T]) Equals(other Number[T]) bool {
	return n.value == other.value
}

// LessThan returns true if this Number is numerically less than the other.
func (n Number[T]) LessThan(other Number[T]) bool {
	return n.value < other.value
}

// LessOrEqual returns true if this Number is numerically less than or equal to the other.
func (n Number[T]) LessOrEqual(other Number[T]) bool {
	return n.value <= other.value
}

// GreaterThan returns true if this Number is numerically greater than the other.
func (n Number[T]) GreaterThan(other Number[T]) bool {
	return n.value > other.value
}

func (n Number[T]) String() string {
	return fmt.Sprint(n.value)
}
