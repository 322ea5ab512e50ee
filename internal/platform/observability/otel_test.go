package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func initForTest(t *testing.T, opts Options) (*Instruments, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts.LogOutput = &buf
	instruments, shutdown, err := Init(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = shutdown(ctx)
	})
	return instruments, &buf
}

func TestInit(t *testing.T) {
	instruments, buf := initForTest(t, Options{ServiceName: "users-api-test", Environment: "production", TraceExporter: ExporterNone})

	assert.NotNil(t, instruments.Tracer("test"))
	instruments.Logger.Debug("hidden")
	instruments.Logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"service":"users-api-test"`)
}

func TestInitCollectsMeters(t *testing.T) {
	instruments, _ := initForTest(t, Options{ServiceName: "users-api-test", TraceExporter: ExporterNone})

	counter, err := instruments.Meter("test").Int64Counter("users.test.counter")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	var rm metricdata.ResourceMetrics
	require.NoError(t, instruments.MetricReader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)
	sum := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	assert.EqualValues(t, 3, sum.DataPoints[0].Value)
}

func TestInitStdoutExporter(t *testing.T) {
	instruments, _ := initForTest(t, Options{ServiceName: "users-api-test", TraceExporter: " Stdout "})
	assert.NotNil(t, instruments.TracerProvider)
}

func TestInitRejectsBadSettings(t *testing.T) {
	var buf bytes.Buffer
	_, _, err := Init(context.Background(), Options{ServiceName: "x", LogOutput: &buf, TraceExporter: "zipkin"})
	require.ErrorContains(t, err, "zipkin")

	_, _, err = Init(context.Background(), Options{ServiceName: "x", LogOutput: &buf, LogLevel: "loud"})
	require.ErrorContains(t, err, "loud")
}

func TestNilInstrumentsFallBack(t *testing.T) {
	var instruments *Instruments
	assert.NotNil(t, instruments.Tracer("x"))
	assert.NotNil(t, instruments.Meter("x"))
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		raw, env string
		want     slog.Level
	}{
		{"", "development", slog.LevelDebug},
		{"", "local", slog.LevelDebug},
		{"", "production", slog.LevelInfo},
		{"warn", "development", slog.LevelWarn},
		{" ERROR ", "production", slog.LevelError},
	}
	for _, tc := range cases {
		got, err := parseLevel(tc.raw, tc.env)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%q/%q", tc.raw, tc.env)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{SampleRatio: 4}.withDefaults()
	assert.Equal(t, "local", opts.Environment)
	assert.Equal(t, 1.0, opts.SampleRatio)
	assert.NotNil(t, opts.LogOutput)
	assert.Equal(t, 0.5, Options{SampleRatio: 0.5}.withDefaults().SampleRatio)
}
