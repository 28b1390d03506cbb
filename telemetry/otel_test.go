package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestSetupNoopWithoutEndpoint(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), "", "gasline-test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	require.Equal(t, before, otel.GetTracerProvider())
}

func TestSetupWithEndpoint(t *testing.T) {
	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})

	// non-routable, nothing is exported before shutdown
	shutdown, err := Setup(context.Background(), "http://192.0.2.1:4318", "gasline-test")
	require.NoError(t, err)
	require.IsType(t, propagation.TraceContext{}, otel.GetTextMapPropagator())
	require.NoError(t, shutdown(context.Background()))
}
