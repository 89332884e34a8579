// Package closer provides utilities for managing io.Closer resources.
//
// The package includes:
//   - Closer: Closes several io.Closer instances in order and joins their errors
//   - CustomCloser: Creates an io.Closer from any cleanup function
//   - ForReader: Pairs a reader with the closer that releases whatever backs it
package closer

import (
	"errors"
	"io"
)

// customCloser wraps a function to make it an io.Closer.
type customCloser struct {
	closeFn func() error
}

// CustomCloser creates an io.Closer from a cleanup function.
// Returns nil if closeFn is nil.
func CustomCloser(closeFn func() error) io.Closer {
	if closeFn == nil {
		return nil
	}

	return &customCloser{closeFn: closeFn}
}

// Close executes the wrapped cleanup function and returns its result.
func (c *customCloser) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}

	return nil
}

// Closer is a collector that manages multiple io.Closer instances and closes them
// all at once, collecting any errors that occur during the close operations.
//
// Example usage:
//
//	zr, err := zstd.NewReader(file)
//	if err != nil {
//	    return err
//	}
//
//	closer := NewCloser(CustomCloser(func() error { zr.Close(); return nil }), file)
//
//	// Decoder first, then the file, even if one of them fails
//	return closer.Close()
type Closer struct {
	closers []io.Closer
}

// NewCloser creates a Closer over closers, which are closed in the given order.
// Nil closers are skipped.
func NewCloser(closers ...io.Closer) *Closer {
	return &Closer{closers: closers}
}

// Close closes every io.Closer in order.
// If any closers return errors, all closers will still be attempted, and all errors
// will be collected and returned as a joined error using errors.Join.
func (c *Closer) Close() error {
	var errs []error

	for _, closer := range c.closers {
		if closer != nil {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// ForReader returns an io.ReadCloser that reads from reader and closes closer.
// A nil closer makes Close a no-op.
func ForReader(reader io.Reader, closer io.Closer) io.ReadCloser {
	if closer == nil {
		return io.NopCloser(reader)
	}

	return &readCloser{Reader: reader, Closer: closer}
}
