package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Trace exporters accepted by Options.TraceExporter.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Instruments bundles the runtime-wide observability dependencies.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// MetricReader collects the users counters on demand.
	MetricReader sdkmetric.Reader
}

// Options describe the process being instrumented.
type Options struct {
	ServiceName string
	Environment string
	// LogLevel overrides the environment default (debug in development/local, info elsewhere).
	LogLevel string
	// LogOutput defaults to stdout.
	LogOutput io.Writer

	// TraceExporter is otlp, stdout or none. Empty means otlp with a stdout fallback.
	TraceExporter string
	OTLPEndpoint  string
	OTLPInsecure  bool
	// SampleRatio is the share of root spans kept; 0 or above 1 keeps all.
	SampleRatio float64
}

// Init wires slog, the tracer and meter providers, and the global propagator.
// The returned shutdown flushes pending spans.
func Init(ctx context.Context, opts Options) (*Instruments, func(context.Context) error, error) {
	opts = opts.withDefaults()
	level, err := parseLevel(opts.LogLevel, opts.Environment)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(opts.LogOutput, &slog.HandlerOptions{Level: level, AddSource: true})).
		With(slog.String("service", opts.ServiceName))
	slog.SetDefault(logger)

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(
			attribute.String("service.name", opts.ServiceName),
			attribute.String("deployment.environment", opts.Environment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build otel resource: %w", err)
	}

	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))),
	}
	exporter, err := buildSpanExporter(ctx, opts, logger)
	if err != nil {
		return nil, nil, err
	}
	if exporter != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporter))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader))

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Debug("observability initialized",
		slog.String("environment", opts.Environment),
		slog.String("trace_exporter", opts.TraceExporter),
		slog.Float64("sample_ratio", opts.SampleRatio),
	)

	shutdown := func(ctx context.Context) error {
		return errors.Join(meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
	}
	return &Instruments{
		Logger:         logger,
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		MetricReader:   reader,
	}, shutdown, nil
}

// Tracer returns a named tracer from the configured provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter returns a named meter, or a no-op meter before Init.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Environment) == "" {
		o.Environment = "local"
	}
	if o.LogOutput == nil {
		o.LogOutput = os.Stdout
	}
	o.TraceExporter = strings.ToLower(strings.TrimSpace(o.TraceExporter))
	if o.SampleRatio <= 0 || o.SampleRatio > 1 {
		o.SampleRatio = 1
	}
	return o
}

func parseLevel(raw, environment string) (slog.Level, error) {
	if strings.TrimSpace(raw) == "" {
		if environment == "development" || environment == "local" {
			return slog.LevelDebug, nil
		}
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}

// buildSpanExporter returns nil when tracing export is switched off.
func buildSpanExporter(ctx context.Context, opts Options, logger *slog.Logger) (sdktrace.SpanExporter, error) {
	switch opts.TraceExporter {
	case ExporterNone:
		return nil, nil
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "", ExporterOTLP:
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", opts.TraceExporter)
	}

	var otlpOpts []otlptracehttp.Option
	if endpoint := strings.TrimSpace(opts.OTLPEndpoint); endpoint != "" {
		otlpOpts = append(otlpOpts, otlptracehttp.WithEndpoint(endpoint))
	}
	if opts.OTLPInsecure {
		otlpOpts = append(otlpOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, otlpOpts...)
	if err == nil {
		return exporter, nil
	}
	if opts.TraceExporter == ExporterOTLP {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}
	logger.Warn("OTLP trace exporter unavailable, exporting spans to stdout", slog.String("error", err.Error()))
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}
