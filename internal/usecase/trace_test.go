package usecase

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func tracedContext() context.Context {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01},
		SpanID:     trace.SpanID{0x02},
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestStartUsecaseSpan(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		spanName string
		wantNoop bool
	}{
		{name: "untraced request", ctx: context.Background(), spanName: "usecase.StandingsService.GetStandings", wantNoop: true},
		{name: "blank name", ctx: tracedContext(), spanName: "  ", wantNoop: true},
		{name: "traced request", ctx: tracedContext(), spanName: "usecase.EvaluationService.EvaluateLeague", wantNoop: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, span := startUsecaseSpan(tt.ctx, tt.spanName, leagueAttr("lg_1"))
			defer span.End()

			if got := span == usecaseNoopSpan; got != tt.wantNoop {
				t.Fatalf("noop=%v want=%v", got, tt.wantNoop)
			}
			if !tt.wantNoop && trace.SpanFromContext(ctx).SpanContext().TraceID() != trace.SpanContextFromContext(tt.ctx).TraceID() {
				t.Fatalf("expected child span to stay on the parent trace")
			}
		})
	}
}

func TestSpanAttributes(t *testing.T) {
	if got := leagueAttr(" lg_1 "); got.Key != "futalyst.league_id" || got.Value.AsString() != "lg_1" {
		t.Fatalf("leagueAttr=%v", got)
	}
	if got := runAttr("run_9"); got.Key != "futalyst.run_id" || got.Value.AsString() != "run_9" {
		t.Fatalf("runAttr=%v", got)
	}
}
