package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/futalyst/internal/platform/logging"
	"github.com/riskibarqy/futalyst/internal/usecase"
)

type stubCompleter struct {
	calls  atomic.Int32
	result usecase.CompletionResult
	err    error
}

func (s *stubCompleter) CompleteDue(context.Context) (usecase.CompletionResult, error) {
	s.calls.Add(1)
	return s.result, s.err
}

func TestCompletionSweeperRunOnce(t *testing.T) {
	completer := &stubCompleter{result: usecase.CompletionResult{Due: 2, Completed: 1, Failed: 1}}
	sweeper := NewCompletionSweeper(completer, time.Minute, logging.NewNop())

	got := sweeper.RunOnce(context.Background())
	if got != completer.result {
		t.Fatalf("unexpected result: %+v", got)
	}

	completer.err = errors.New("db down")
	completer.result = usecase.CompletionResult{}
	if got := sweeper.RunOnce(context.Background()); got.Due != 0 {
		t.Fatalf("expected empty result on error, got %+v", got)
	}
	if completer.calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", completer.calls.Load())
	}
}

func TestCompletionSweeperStartRunsJob(t *testing.T) {
	completer := &stubCompleter{}
	sweeper := NewCompletionSweeper(completer, 20*time.Millisecond, logging.NewNop())

	if err := sweeper.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer func() {
		if err := sweeper.Shutdown(); err != nil {
			t.Fatalf("shutdown failed: %v", err)
		}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for completer.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if completer.calls.Load() == 0 {
		t.Fatalf("expected the sweep job to run")
	}
}

func TestCompletionSweeperShutdownWithoutStart(t *testing.T) {
	sweeper := NewCompletionSweeper(&stubCompleter{}, 0, nil)
	if sweeper.interval != defaultSweepInterval {
		t.Fatalf("expected default interval, got %v", sweeper.interval)
	}
	if err := sweeper.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
