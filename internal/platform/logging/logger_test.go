package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerContextFields(t *testing.T) {
	core, logs := observer.New(LevelDebug)
	logger := FromZap(zap.New(core))

	ctx := WithContextFields(context.Background(), "user_id", "u1")
	ctx = WithContextFields(ctx, "game_version", "fc25")
	logger.With("component", "test").WarnContext(ctx, "join failed", "error", errors.New("league is full"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entries=%d want=1", len(entries))
	}
	fields := entries[0].ContextMap()
	for key, want := range map[string]string{
		"component":    "test",
		"user_id":      "u1",
		"game_version": "fc25",
		"error":        "league is full",
	} {
		if fields[key] != want {
			t.Fatalf("field %s=%v want=%s", key, fields[key], want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	core, logs := observer.New(LevelWarn)
	logger := FromZap(zap.New(core))

	logger.Info("ignored")
	logger.Error("kept", "league_id", "l1")

	if logs.Len() != 1 || logs.All()[0].Message != "kept" {
		t.Fatalf("unexpected entries: %+v", logs.All())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range tests {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q)=%v want=%v", raw, got, want)
		}
	}
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var logger *Logger
	logger.Info("no panic")
	logger.ErrorContext(context.Background(), "no panic")
}
