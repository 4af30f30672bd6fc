package httpapi

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const handlerSpanPrefix = "httpapi.Handler."

var apiTracer = otel.Tracer("futalyst/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// startHandlerSpan opens a child of the otelhttp server span for one handler.
// Routes excluded from tracing, such as /healthz, have no parent and get a
// no-op span.
func startHandlerSpan(r *http.Request, handler string) (context.Context, trace.Span) {
	ctx := r.Context()
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, handlerSpanPrefix+handler, trace.WithAttributes(routeAttributes(r)...))
}

// routeAttributes tags a span with the league and run ids bound by the mux.
func routeAttributes(r *http.Request) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if id := pathValue(r, "leagueID"); id != "" {
		attrs = append(attrs, attribute.String("futalyst.league_id", id))
	}
	if id := pathValue(r, "runID"); id != "" {
		attrs = append(attrs, attribute.String("futalyst.run_id", id))
	}
	return attrs
}
