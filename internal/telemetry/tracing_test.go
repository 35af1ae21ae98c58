package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vibin/research-agent/config"
)

func TestStartDisabledIsNoop(t *testing.T) {
	shutdown, err := Start(context.Background(), config.TelemetryConfig{Enabled: false, Endpoint: "localhost:4318"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStartEnabledWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Start(context.Background(), config.TelemetryConfig{Enabled: true})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTracerStartsSpans(t *testing.T) {
	_, span := Tracer().Start(context.Background(), "test-span")
	defer span.End()
	assert.NotNil(t, span)
}

func TestStartAcceptsCollectorURL(t *testing.T) {
	var exports atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/traces", r.URL.Path)
		exports.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	defer otel.SetTracerProvider(noop.NewTracerProvider())

	shutdown, err := Start(context.Background(), config.TelemetryConfig{Enabled: true, Endpoint: srv.URL + "/"})
	require.NoError(t, err)

	_, span := Tracer().Start(context.Background(), "research")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Equal(t, int32(1), exports.Load())
}
