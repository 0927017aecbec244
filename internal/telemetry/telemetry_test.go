package telemetry_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"

	"github.com/vango-dev/depstate/internal/config"
	"github.com/vango-dev/depstate/internal/telemetry"
)

func TestSetupNoopWithoutEndpoint(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := telemetry.Setup(context.Background(), config.TraceConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
	if otel.GetTracerProvider() != before {
		t.Error("no-op setup replaced the global tracer provider")
	}
}

func TestSetupInstallsProvider(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	// Non-routable address; nothing is exported because no spans are recorded.
	shutdown, err := telemetry.Setup(context.Background(), config.TraceConfig{
		Endpoint: "http://192.0.2.1:4318",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if otel.GetTracerProvider() == before {
		t.Error("global tracer provider not installed")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
