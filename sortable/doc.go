// Package sortable provides the Sortable ordering interface and the Number value type.
//
// # Overview
//
// [Sortable] extends [github.com/amp-labs/amp-snippets/compare.Comparable] with a
// LessThan method, giving both equality and ordering. [Number] wraps any Go numeric
// value and implements Sortable against other Numbers of the same type, with typed
// LessThan, LessOrEqual and GreaterThan methods.
//
// # Statically and dynamically typed comparisons
//
// The typed methods can only be called with another Number of the same type, so the
// compiler rules out mismatched operands:
//
//	a, b := sortable.NewNumber(5), sortable.NewNumber(10)
//	a.LessThan(b)    // true
//	b.LessOrEqual(a) // false
//	a.GreaterThan(b) // false
//
// When the right-hand side arrives as an any (decoded payloads, reflection, CLI
// input), use the package-level [LessThan], [LessOrEqual] and [GreaterThan]. They
// accept any Sortable on the left and return a
// [github.com/amp-labs/amp-snippets/errors.TypeMismatchError] when the right-hand
// side is not the same type. No conversion is attempted, so Number[int] and
// Number[float64] never compare:
//
//	ok, err := sortable.LessThan(a, sortable.NewNumber(10)) // true, nil
//	_, err = sortable.LessThan(a, 10)                       // ErrWrongType
//	_, err = sortable.LessThan(a, sortable.NewNumber(10.0)) // ErrWrongType
//
// # Thread Safety
//
// Number is an immutable value type and is safe to share between goroutines.
package sortable
