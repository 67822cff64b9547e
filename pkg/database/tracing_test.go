package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestTraceCommand_Success(t *testing.T) {
	exporter := setupTestTracer(t)

	_, end := TraceCommand(context.Background(), "SET NX", "console:pending:s1:create")
	end(nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "redis.SET NX", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)

	attrs := map[string]string{}
	for _, a := range spans[0].Attributes {
		attrs[string(a.Key)] = a.Value.Emit()
	}
	assert.Equal(t, "redis", attrs["db.system"])
	assert.Equal(t, "console:pending:s1:create", attrs["db.redis.key"])
}

func TestTraceCommand_Error(t *testing.T) {
	exporter := setupTestTracer(t)

	_, end := TraceCommand(context.Background(), "EVAL", "k")
	end(errors.New("connection reset"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "connection reset", spans[0].Status.Description)
}

func TestSlowCommandLogging(t *testing.T) {
	setupTestTracer(t)
	t.Cleanup(func() { SetSlowCommandLogging(0, nil) })

	var buf bytes.Buffer
	SetSlowCommandLogging(time.Nanosecond, slog.New(slog.NewJSONHandler(&buf, nil)))

	_, end := TraceCommand(context.Background(), "EVAL", "k")
	end(errors.New("timeout"))

	assert.Contains(t, buf.String(), "slow redis command")
	assert.Contains(t, buf.String(), "timeout")
}

func TestSlowCommandLogging_FastOrDisabled(t *testing.T) {
	setupTestTracer(t)
	t.Cleanup(func() { SetSlowCommandLogging(0, nil) })

	var buf bytes.Buffer
	SetSlowCommandLogging(time.Hour, slog.New(slog.NewJSONHandler(&buf, nil)))
	_, end := TraceCommand(context.Background(), "GET", "k")
	end(nil)
	assert.Empty(t, buf.String())

	SetSlowCommandLogging(0, nil)
	_, end = TraceCommand(context.Background(), "GET", "k")
	assert.NotPanics(t, func() { end(nil) })
}
