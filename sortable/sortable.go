// Package sortable provides ordering interfaces and comparable value types.
package sortable

import (
	"github.com/amp-labs/amp-snippets/compare"
	"github.com/amp-labs/amp-snippets/errors"
)

type Sortable[T any] interface {
	compare.Comparable[T]

	LessThan(other T) bool
}

// LessThan reports a < other. It fails with *errors.TypeMismatchError unless other is a T.
func LessThan[T Sortable[T]](a T, other any) (bool, error) {
	b, err := operand(a, other, "<")
	if err != nil {
		return false, err
	}

	return a.LessThan(b), nil
}

// LessOrEqual reports a <= other. It fails with *errors.TypeMismatchError unless other is a T.
func LessOrEqual[T Sortable[T]](a T, other any) (bool, error) {
	b, err := operand(a, other, "<=")
	if err != nil {
		return false, err
	}

	return a.LessThan(b) || a.Equals(b), nil
}

// GreaterThan reports a > other. It fails with *errors.TypeMismatchError unless other is a T.
func GreaterThan[T Sortable[T]](a T, other any) (bool, error) {
	b, err := operand(a, other, ">")
	if err != nil {
		return false, err
	}

	return b.LessThan(a), nil
}

// operand narrows other to T. A non-nil *T is dereferenced; anything else is a mismatch.
func operand[T Sortable[T]](a T, other any, op string) (T, error) {
	switch b := other.(type) {
	case T:
		return b, nil
	case *T:
		if b != nil {
			return *b, nil
		}
	}

	var zero T

	return zero, errors.NewTypeMismatch(op, a, other)
}
