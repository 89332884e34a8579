package logger

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// AnnotateError wraps an error with slog key-value pairs. When the error is logged
// through a logger set up by ConfigureLoggingWithOptions, the pairs appear as
// top-level attributes of the record, even if the error was wrapped again on the way up.
//
//	users, err := Load(ctx, path)
//	if err != nil {
//	    return AnnotateError(err, "path", path, "format", format)
//	}
//
// Returns nil if err is nil.
func AnnotateError(err error, args ...any) error {
	if err == nil {
		return nil
	}

	r := slog.NewRecord(time.Now(), slog.LevelDebug, "", 0)
	r.Add(args...)

	var errAttrs []slog.Attr

	r.Attrs(func(attr slog.Attr) bool {
		errAttrs = append(errAttrs, attr)

		return true
	})

	return &slogError{
		err:   err,
		attrs: errAttrs,
	}
}

type slogError struct {
	err   error
	attrs []slog.Attr
}

func (s *slogError) Error() string {
	return s.err.Error()
}

func (s *slogError) Unwrap() error {
	return s.err
}

// slogErrorLogger decorates a slog.Handler so that errors created by AnnotateError
// contribute their attributes to the record.
type slogErrorLogger struct {
	inner slog.Handler
}

var _ slog.Handler = (*slogErrorLogger)(nil)

func (s *slogErrorLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return s.inner.Enabled(ctx, level)
}

func (s *slogErrorLogger) Handle(ctx context.Context, record slog.Record) error {
	var (
		baseAttrs []slog.Attr
		errAttrs  []slog.Attr
	)

	record.Attrs(func(attr slog.Attr) bool {
		val := attr.Value.Any()

		var se *slogError

		if err, ok := val.(error); ok && errors.As(err, &se) {
			// Keep the full message (wrapping included) and lift the annotations out.
			baseAttrs = append(baseAttrs, slog.String(attr.Key, err.Error()))
			errAttrs = append(errAttrs, se.attrs...)
		} else {
			baseAttrs = append(baseAttrs, attr)
		}

		return true
	})

	if len(errAttrs) > 0 {
		r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
		r.AddAttrs(baseAttrs...)
		r.AddAttrs(errAttrs...)

		return s.inner.Handle(ctx, r)
	}

	return s.inner.Handle(ctx, record)
}

func (s *slogErrorLogger) WithAttrs(attrs []slog.Attr) slog.Handler {
	handler := s.inner.WithAttrs(attrs)

	return &slogErrorLogger{
		inner: handler,
	}
}

func (s *slogErrorLogger) WithGroup(name string) slog.Handler {
	handler := s.inner.WithGroup(name)

	return &slogErrorLogger{
		inner: handler,
	}
}
