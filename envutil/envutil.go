// Package envutil reads typed configuration values from environment variables.
//
// Each reader returns a Reader[T] which carries the key, whether it was present, and
// any parse error, so defaults and validation compose as options:
//
//	level := envutil.SlogLevel(ctx, "LOG_LEVEL", envutil.Default(slog.LevelInfo)).ValueOrFatal()
//
// Values set on the context with WithEnvOverride take precedence over the process
// environment, which keeps tests parallel-safe.
package envutil

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/amp-labs/amp-snippets/xform"
)

// get returns a Reader for the given environment variable key.
func get(ctx context.Context, key string) Reader[string] {
	val, ok := getEnvOverride(ctx, key)
	if !ok {
		val, ok = os.LookupEnv(key)
	}

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String returns a Reader for the given environment variable key.
func String(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(get(ctx, key), opts)
}

func Bool(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(ctx, key), xform.Bool), opts)
}

func Int[I xform.Intish](ctx context.Context, key string, opts ...Option[I]) Reader[I] {
	return apply(Map(Map(get(ctx, key), xform.Int64), xform.CastNumeric[int64, I]), opts)
}

// SlogLevel returns a Reader for the given environment variable key.
// The value is trimmed and lower-cased before parsing.
func SlogLevel(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(Map(Map(get(ctx, key), xform.TrimString), xform.ToLower), xform.SlogLevel), opts)
}

// Duration returns a Reader for a time.Duration such as "5s".
func Duration(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(Map(get(ctx, key), xform.TrimString), xform.Duration), opts)
}
