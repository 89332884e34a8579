package envutil

import (
	"context"
)

type envContextKey string

// WithEnvOverride returns a context in which key reads as value, regardless of the
// process environment. Readers given that context see the override first.
func WithEnvOverride(ctx context.Context, key string, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, envContextKey(key), value)
}

func getEnvOverride(ctx context.Context, key string) (string, bool) {
	if ctx == nil {
		return "", false
	}

	val, ok := ctx.Value(envContextKey(key)).(string)

	return val, ok
}

// WithEnvOverrides applies WithEnvOverride for every entry in vars.
func WithEnvOverrides(ctx context.Context, vars map[string]string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	for key, value := range vars {
		ctx = WithEnvOverride(ctx, key, value)
	}

	return ctx
}
