package logger

import (
	"context"
	"errors"
	"log/slog"
)

// fanout hands each record to several handlers. Records below level are dropped
// before any handler sees them.
type fanout struct {
	level    slog.Leveler
	handlers []slog.Handler
}

var _ slog.Handler = (*fanout)(nil)

func newFanout(level slog.Leveler, handlers ...slog.Handler) *fanout {
	return &fanout{level: level, handlers: handlers}
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	if level < f.level.Level() {
		return false
	}

	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (f *fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error

	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}

		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *fanout) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *fanout) each(wrap func(slog.Handler) slog.Handler) *fanout {
	handlers := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		handlers[i] = wrap(h)
	}

	return newFanout(f.level, handlers...)
}
