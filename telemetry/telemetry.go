// Package telemetry configures OpenTelemetry tracing and log export from the
// environment. Both are off unless OTEL_ENABLED is true and an endpoint is configured
// for them; otherwise the global no-op tracer stays in place and spans cost nothing.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amp-labs/amp-snippets/build"
	"github.com/amp-labs/amp-snippets/envutil"
	"github.com/amp-labs/amp-snippets/logger"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const defaultTimeout = 5 * time.Second

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	LogsEndpoint   string
	Enabled        bool
	Timeout        time.Duration
}

// Providers holds whatever Initialize set up. The zero value is valid and does nothing.
type Providers struct {
	tracer *sdktrace.TracerProvider
	logger *sdklog.LoggerProvider
	name   string
}

// LogHandler returns a slog.Handler that exports records over OTLP, or nil when log
// export is off.
func (p *Providers) LogHandler() slog.Handler {
	if p == nil || p.logger == nil {
		return nil
	}

	return otelslog.NewHandler(p.name, otelslog.WithLoggerProvider(p.logger))
}

// Shutdown flushes and stops every provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error

	if p.tracer != nil {
		errs = append(errs, p.tracer.Shutdown(ctx))
	}

	if p.logger != nil {
		errs = append(errs, p.logger.Shutdown(ctx))
	}

	return errors.Join(errs...)
}

// LoadConfigFromEnv loads OpenTelemetry configuration from environment variables.
// The service name defaults to the logging subsystem on ctx.
func LoadConfigFromEnv(ctx context.Context) (*Config, error) {
	enabled, err := envutil.Bool(ctx, "OTEL_ENABLED", envutil.Default(false)).Value()
	if err != nil {
		return nil, err
	}

	svcName, err := envutil.String(ctx, "OTEL_SERVICE_NAME",
		envutil.Default(logger.GetSubsystem(ctx))).Value()
	if err != nil {
		return nil, err
	}

	svcVersion, err := envutil.String(ctx, "OTEL_SERVICE_VERSION",
		envutil.Default(build.Current().Version)).Value()
	if err != nil {
		return nil, err
	}

	endpoint, err := envutil.String(ctx, "OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", envutil.Default("")).Value()
	if err != nil {
		return nil, err
	}

	logsEndpoint, err := envutil.String(ctx, "OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", envutil.Default("")).Value()
	if err != nil {
		return nil, err
	}

	timeout, err := envutil.Duration(ctx, "OTEL_EXPORTER_OTLP_TRACES_TIMEOUT",
		envutil.Default(defaultTimeout)).Value()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    svcName,
		ServiceVersion: svcVersion,
		Endpoint:       endpoint,
		LogsEndpoint:   logsEndpoint,
		Enabled:        enabled,
		Timeout:        timeout,
	}, nil
}

// Initialize installs a global tracer provider exporting over OTLP/HTTP to Endpoint,
// and a logger provider exporting to LogsEndpoint. Either is skipped when its endpoint
// is empty; when tracing is disabled altogether the returned Providers do nothing.
func Initialize(ctx context.Context, config *Config) (*Providers, error) {
	log := logger.Get(ctx)

	if !config.Enabled {
		log.Debug("OpenTelemetry is disabled")

		return &Providers{}, nil
	}

	if config.Endpoint == "" && config.LogsEndpoint == "" {
		log.Warn("OpenTelemetry endpoints not configured, telemetry will be disabled")

		return &Providers{}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &Providers{name: config.ServiceName}

	if config.Endpoint != "" {
		if providers.tracer, err = newTracerProvider(ctx, config, res); err != nil {
			return nil, err
		}

		otel.SetTracerProvider(providers.tracer)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	if config.LogsEndpoint != "" {
		if providers.logger, err = newLoggerProvider(ctx, config, res); err != nil {
			return nil, errors.Join(err, providers.Shutdown(ctx))
		}
	}

	log.Debug("OpenTelemetry initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"endpoint", config.Endpoint,
		"logs_endpoint", config.LogsEndpoint,
	)

	return providers, nil
}

func newTracerProvider(ctx context.Context, config *Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}

func newLoggerProvider(ctx context.Context, config *Config, res *resource.Resource) (*sdklog.LoggerProvider, error) {
	exporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(config.LogsEndpoint),
		otlploghttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}

	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	), nil
}
