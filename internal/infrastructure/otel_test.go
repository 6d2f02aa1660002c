package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skucheck/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestOTelInitialization(t *testing.T) {
	providers, err := InitializeOTel(nil, quietLogger())
	require.NoError(t, err)
	require.NotNil(t, providers)

	// tracing is off by default but the tracer is still usable
	assert.Nil(t, providers.TracerProvider)
	assert.NotNil(t, providers.Tracer)

	assert.NotNil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.PrometheusHTTP)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestOTelConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OTelConfig
		wantErr bool
	}{
		{"all disabled", OTelConfig{TraceExporter: "none", MetricExporter: "none"}, false},
		{"stdout traces", OTelConfig{TraceExporter: "stdout", MetricExporter: "none", SampleRatio: 1}, false},
		{"prometheus", OTelConfig{TraceExporter: "none", MetricExporter: "prometheus"}, false},
		{"unknown trace exporter", OTelConfig{TraceExporter: "jaeger"}, true},
		{"unknown metric exporter", OTelConfig{MetricExporter: "statsd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ServiceName = ServiceName
			providers, err := InitializeOTel(&cfg, quietLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.NoError(t, providers.Shutdown(context.Background()))
		})
	}
}

func TestNewOTelConfig(t *testing.T) {
	cfg := NewOTelConfig(config.TelemetryConfig{
		Environment:    "production",
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    0.5,
	})
	assert.Equal(t, ServiceName, cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, 0.5, cfg.SampleRatio)
	assert.NotEmpty(t, cfg.ServiceVersion)
}

func TestPrometheusEndpoint_ExposesRunMetrics(t *testing.T) {
	// twice, to prove registries do not collide
	for i := 0; i < 2; i++ {
		providers, err := InitializeOTel(DefaultOTelConfig(), quietLogger())
		require.NoError(t, err)

		metrics, err := CreateBusinessMetrics(providers.Meter)
		require.NoError(t, err)

		ctx := context.Background()
		RecordRunMetrics(ctx, metrics, RunMetrics{
			Source:          "cli",
			Duration:        250 * time.Millisecond,
			Bytes:           1024,
			Rows:            11,
			ContentProblems: 1,
			QuartileFlags:   1,
			MedianFlags:     1,
			RecordsAtRisk:   2,
		})
		RecordRunMetrics(ctx, metrics, RunMetrics{Source: "api", Err: errors.New("boom")})

		rec := httptest.NewRecorder()
		providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		body := rec.Body.String()
		assert.Contains(t, body, "validation_runs_total")
		assert.Contains(t, body, "validation_rows_total")
		assert.Contains(t, body, `rule="risk"`)
		assert.Contains(t, body, "validation_errors_total")
		assert.Contains(t, body, "go_goroutines")

		require.NoError(t, providers.Shutdown(ctx))
	}
}

func TestRecordRunMetrics_NilMetrics(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordRunMetrics(context.Background(), nil, RunMetrics{Rows: 1})
	})
}

func TestSpanHelpers(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    ServiceName,
		TraceExporter:  "stdout",
		MetricExporter: "none",
		SampleRatio:    1,
	}, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ctx, span := providers.Tracer.Start(context.Background(), "validation.run")
	assert.True(t, span.IsRecording())

	assert.NotPanics(t, func() {
		SetSpanAttributes(ctx, map[string]interface{}{
			"rows":   11,
			"source": "cli",
			"ratio":  0.5,
			"ok":     true,
			"other":  time.Second,
		})
		RecordError(ctx, errors.New("failed"))
	})
	span.End()

	// helpers are no-ops without a recording span
	assert.NotPanics(t, func() {
		RecordError(context.Background(), errors.New("ignored"))
		SetSpanAttributes(context.Background(), map[string]interface{}{"k": "v"})
	})
}
