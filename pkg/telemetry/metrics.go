// pkg/telemetry/metrics.go
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments recorded for each synthesized message.
type Metrics struct {
	messages  metric.Int64Counter
	synthTime metric.Float64Histogram
}

// NewMetrics creates the instruments on the global meter provider. Init
// installs an exporting provider when telemetry is enabled.
func NewMetrics() (*Metrics, error) {
	return NewMetricsWithProvider(otel.GetMeterProvider())
}

// NewMetricsWithProvider creates the instruments on mp.
func NewMetricsWithProvider(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(serviceID)

	messages, err := meter.Int64Counter("scribe_messages_total",
		metric.WithDescription("Commit messages produced, by source and provider"))
	if err != nil {
		return nil, err
	}

	synthTime, err := meter.Float64Histogram("scribe_synthesis_duration_seconds",
		metric.WithDescription("Time spent producing one commit message"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Metrics{messages: messages, synthTime: synthTime}, nil
}

// RecordMessage counts one message and its synthesis time. A nil receiver
// records nothing.
func (m *Metrics) RecordMessage(ctx context.Context, source, provider string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("provider", provider),
	)
	m.messages.Add(ctx, 1, attrs)
	m.synthTime.Record(ctx, elapsed.Seconds(), attrs)
}
