// pkg/telemetry/telemetry.go
package telemetry

import (
	"context"
	"os"
	"strings"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/xdg"
	cerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const serviceID = "scribe"

var tracer trace.Tracer = noop.NewTracerProvider().Tracer(serviceID)

// Init configures OpenTelemetry; call this early in main(). Spans and
// metrics are only exported when telemetry is enabled, and then go to JSONL
// files under the XDG state directory. The returned function flushes and
// closes the exporters.
func Init(service string) (func(context.Context) error, error) {
	if !Enabled() {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		tracer = tp.Tracer(service)
		return func(context.Context) error { return nil }, nil
	}

	traceFile, err := openStateFile("telemetry.jsonl")
	if err != nil {
		return nil, err
	}
	metricFile, err := openStateFile("metrics.jsonl")
	if err != nil {
		_ = traceFile.Close()
		return nil, err
	}
	closeFiles := func() error {
		err := traceFile.Close()
		if closeErr := metricFile.Close(); err == nil {
			err = closeErr
		}
		return err
	}

	spanExp, err := stdouttrace.New(
		stdouttrace.WithWriter(traceFile),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		_ = closeFiles()
		return nil, cerr.Wrap(err, "failed to create span exporter")
	}
	metricExp, err := stdoutmetric.New(
		stdoutmetric.WithWriter(metricFile),
		stdoutmetric.WithoutTimestamps(),
	)
	if err != nil {
		_ = closeFiles()
		return nil, cerr.Wrap(err, "failed to create metric exporter")
	}

	res := sdkresource.NewWithAttributes(
		semconv.SchemaURL,
		attribute.String("service.name", service),
		attribute.String("service.instance.id", uuid.New().String()),
		attribute.String("host.name", hostname()),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExp),
		sdktrace.WithResource(res),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	tracer = tp.Tracer(service)

	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if mErr := mp.Shutdown(ctx); err == nil {
			err = mErr
		}
		if closeErr := closeFiles(); err == nil {
			err = closeErr
		}
		return err
	}, nil
}

func openStateFile(name string) (*os.File, error) {
	path := xdg.XDGStatePath(serviceID, name)
	if err := xdg.EnsureDir(path); err != nil {
		return nil, cerr.Wrap(err, "failed to create telemetry directory")
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, xdg.FilePermPrivate)
	if err != nil {
		return nil, cerr.Wrapf(err, "failed to open %s", name)
	}
	return file, nil
}

// Start a telemetry span with optional attributes.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Enabled reports whether spans should be exported: SCRIBE_TELEMETRY=on,
// or a telemetry_on marker file in the state directory.
func Enabled() bool {
	switch strings.ToLower(os.Getenv("SCRIBE_TELEMETRY")) {
	case "on", "1", "true":
		return true
	case "off", "0", "false":
		return false
	}
	_, err := os.Stat(xdg.XDGStatePath(serviceID, "telemetry_on"))
	return err == nil
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}
