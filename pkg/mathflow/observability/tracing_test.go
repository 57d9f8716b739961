package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs a tracer provider with an in-memory exporter
// and rebinds the package-level tracer to it.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("mathflow")

	cleanup := func() {
		otel.SetTracerProvider(original)
		tracer = otel.Tracer("mathflow")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("shutdown tracer provider: %v", err)
		}
	}
	return exporter, cleanup
}

func TestStartRunSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("records name and attributes", func(t *testing.T) {
		_, span := sm.StartRunSpan(context.Background(), "solver", "run-123")
		require.NotNil(t, span)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "mathflow.run", spans[0].Name)

		var graphName, runID string
		for _, attr := range spans[0].Attributes {
			switch attr.Key {
			case "graph.name":
				graphName = attr.Value.AsString()
			case "run.id":
				runID = attr.Value.AsString()
			}
		}
		assert.Equal(t, "solver", graphName)
		assert.Equal(t, "run-123", runID)
	})

	t.Run("returns a derived context", func(t *testing.T) {
		exporter.Reset()

		ctx := context.Background()
		newCtx, span := sm.StartRunSpan(ctx, "solver", "run-456")
		assert.NotEqual(t, ctx, newCtx)

		span.End()
		require.Len(t, exporter.GetSpans(), 1)
	})
}

func TestStartNodeSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("records node.id attribute", func(t *testing.T) {
		_, span := sm.StartNodeSpan(context.Background(), "generator")
		require.NotNil(t, span)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "mathflow.node", spans[0].Name)

		var nodeID string
		for _, attr := range spans[0].Attributes {
			if attr.Key == "node.id" {
				nodeID = attr.Value.AsString()
			}
		}
		assert.Equal(t, "generator", nodeID)
	})

	t.Run("node span is a child of the run span", func(t *testing.T) {
		exporter.Reset()

		ctx, runSpan := sm.StartRunSpan(context.Background(), "solver", "run-1")
		_, nodeSpan := sm.StartNodeSpan(ctx, "validator")
		nodeSpan.End()
		runSpan.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 2)

		var child *tracetest.SpanStub
		for i := range spans {
			if spans[i].Name == "mathflow.node" {
				child = &spans[i]
			}
		}
		require.NotNil(t, child)
		assert.True(t, child.Parent.IsValid())
	})
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()

	t.Run("nil error sets OK status", func(t *testing.T) {
		_, span := sm.StartRunSpan(context.Background(), "solver", "run-1")
		sm.EndSpanWithError(span, nil)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Ok, spans[0].Status.Code)
		assert.Equal(t, "", spans[0].Status.Description)
	})

	t.Run("error sets Error status and records the exception", func(t *testing.T) {
		exporter.Reset()

		_, span := sm.StartRunSpan(context.Background(), "solver", "run-2")
		sm.EndSpanWithError(span, errors.New("model timed out"))

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "model timed out", spans[0].Status.Description)

		found := false
		for _, event := range spans[0].Events {
			if event.Name == "exception" {
				found = true
			}
		}
		assert.True(t, found, "expected exception event")
	})

	t.Run("nil span does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, nil)
		})
		assert.NotPanics(t, func() {
			sm.EndSpanWithError(nil, errors.New("x"))
		})
	})
}
