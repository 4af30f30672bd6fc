package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys shared with the HTTP handler spans.
const (
	leagueIDKey = attribute.Key("futalyst.league_id")
	runIDKey    = attribute.Key("futalyst.run_id")
)

var usecaseTracer = otel.Tracer("futalyst/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan only opens a child span when the request is already traced.
// Blank attribute values are dropped.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	kept := attrs[:0:0]
	for _, kv := range attrs {
		if kv.Value.Type() == attribute.STRING && strings.TrimSpace(kv.Value.AsString()) == "" {
			continue
		}
		kept = append(kept, kv)
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(kept...))
}

func leagueAttr(id string) attribute.KeyValue {
	return leagueIDKey.String(strings.TrimSpace(id))
}

func runAttr(id string) attribute.KeyValue {
	return runIDKey.String(strings.TrimSpace(id))
}
