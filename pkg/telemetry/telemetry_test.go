package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestEnabled(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	t.Setenv("SCRIBE_TELEMETRY", "")
	assert.False(t, Enabled())

	require.NoError(t, os.MkdirAll(filepath.Join(state, "scribe"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(state, "scribe", "telemetry_on"), nil, 0o600))
	assert.True(t, Enabled())

	t.Setenv("SCRIBE_TELEMETRY", "off")
	assert.False(t, Enabled())

	t.Setenv("SCRIBE_TELEMETRY", "on")
	assert.True(t, Enabled())
}

func TestInitDisabledIsNoop(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("SCRIBE_TELEMETRY", "off")

	shutdown, err := Init("scribe-test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, span := Start(context.Background(), "noop", attribute.Int("n", 1))
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitEnabledWritesSpans(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)
	t.Setenv("SCRIBE_TELEMETRY", "on")

	shutdown, err := Init("scribe-test")
	require.NoError(t, err)

	_, span := Start(context.Background(), "commit.Generate")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
	require.NoError(t, shutdown(context.Background()))

	data, err := os.ReadFile(filepath.Join(state, "scribe", "telemetry.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "commit.Generate")
}

func TestStartNilContext(t *testing.T) {
	//nolint:staticcheck // nil context is handled explicitly
	ctx, span := Start(nil, "nil-ctx")
	defer span.End()
	assert.NotNil(t, ctx)
}

func TestMetricsRecordMessage(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	m, err := NewMetricsWithProvider(mp)
	require.NoError(t, err)

	m.RecordMessage(ctx, "heuristic", "none", 3*time.Millisecond)
	m.RecordMessage(ctx, "heuristic", "none", 5*time.Millisecond)
	m.RecordMessage(ctx, "ai", "openai", time.Second)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[string]int64{}
	var histogramSeen bool
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			switch md.Name {
			case "scribe_messages_total":
				sum, ok := md.Data.(metricdata.Sum[int64])
				require.True(t, ok)
				for _, dp := range sum.DataPoints {
					source, _ := dp.Attributes.Value("source")
					counts[source.AsString()] += dp.Value
				}
			case "scribe_synthesis_duration_seconds":
				histogramSeen = true
			}
		}
	}

	assert.Equal(t, map[string]int64{"heuristic": 2, "ai": 1}, counts)
	assert.True(t, histogramSeen)
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordMessage(context.Background(), "ai", "openai", time.Second)
	})
}

func TestInitEnabledWritesMetrics(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)
	t.Setenv("SCRIBE_TELEMETRY", "on")

	shutdown, err := Init("scribe-test")
	require.NoError(t, err)

	m, err := NewMetrics()
	require.NoError(t, err)
	m.RecordMessage(context.Background(), "heuristic", "none", time.Millisecond)
	require.NoError(t, shutdown(context.Background()))

	data, err := os.ReadFile(filepath.Join(state, "scribe", "metrics.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "scribe_messages_total")
}
