// Package using provides a resource management pattern similar to C#'s "using" statement
// or Java's try-with-resources. It ensures that resources are properly cleaned up after use,
// even when errors occur.
//
// Example usage:
//
//	res := using.NewResource(func() (*os.File, using.Closer, error) {
//	    f, err := os.Open("users.json")
//	    return f, using.WrapCloser(f), err
//	})
//
//	n, err := using.Apply(res, func(f *os.File) (int, error) {
//	    data, err := io.ReadAll(f)
//	    return len(data), err
//	})
//	// File is closed here, even if an error occurred
package using

import (
	"errors"
	"io"

	errors2 "github.com/amp-labs/amp-snippets/errors"
)

var (
	// ErrResourceNil is returned when a nil resource is passed to Apply.
	ErrResourceNil = errors.New("resource is nil")
	// ErrFuncNil is returned when a nil function is passed to Apply.
	ErrFuncNil = errors.New("f is nil")
)

// Closer is a function that cleans up a resource. It follows the same signature as io.Closer.Close().
type Closer func() error

// Resource represents a managed resource that can be used safely with automatic cleanup.
type Resource[V any] struct {
	create func() (V, Closer, error)
}

// NewResource creates a Resource from a function that returns a value, closer, and error.
// The closer will be automatically invoked when the resource is used via Apply().
func NewResource[V any](f func() (V, Closer, error)) *Resource[V] {
	return &Resource[V]{
		create: f,
	}
}

// Apply calls userFunc with the resource value and closes the resource afterward.
// Errors from userFunc and the closer are collected into one. The result is returned
// even when closing fails, alongside the close error. If acquiring the resource fails,
// that error is returned unchanged and userFunc is never called.
func Apply[V, R any](resource *Resource[V], userFunc func(value V) (R, error)) (result R, errOut error) {
	if resource == nil {
		return result, ErrResourceNil
	}

	if userFunc == nil {
		return result, ErrFuncNil
	}

	val, closer, err := resource.create()
	if err != nil {
		return result, err
	}

	errs := errors2.Collection{}

	defer func() {
		if closer != nil {
			errs.Add(closer())
		}

		errOut = errs.GetError()
	}()

	result, err = userFunc(val)
	errs.Add(err)

	return result, nil
}

// WrapCloser adapts an io.Closer to a Closer. A nil io.Closer yields a no-op.
func WrapCloser(closer io.Closer) Closer {
	return func() error {
		if closer != nil {
			return closer.Close()
		}

		return nil
	}
}
