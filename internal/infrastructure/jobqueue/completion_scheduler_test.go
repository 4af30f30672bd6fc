package jobqueue

import (
	"context"
	"testing"
	"time"
)

type recordedJob struct {
	path    string
	payload any
	delay   time.Duration
	dedupID string
}

type recordingQueue struct {
	jobs []recordedJob
}

func (q *recordingQueue) Enqueue(_ context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	q.jobs = append(q.jobs, recordedJob{path: path, payload: payload, delay: delay, dedupID: deduplicationID})
	return nil
}

func TestCompletionScheduler(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	queue := &recordingQueue{}
	scheduler := NewCompletionScheduler(queue)
	scheduler.now = func() time.Time { return now }

	if err := scheduler.ScheduleLeagueCompletion(context.Background(), " lg-1 ", now.Add(2*time.Hour)); err != nil {
		t.Fatalf("schedule failed: %v", err)
	}
	if err := scheduler.ScheduleLeagueCompletion(context.Background(), "lg-2", now.Add(-time.Minute)); err != nil {
		t.Fatalf("schedule past end failed: %v", err)
	}
	if err := scheduler.ScheduleLeagueCompletion(context.Background(), "", now); err == nil {
		t.Fatalf("expected error for empty league id")
	}

	if len(queue.jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(queue.jobs))
	}
	first := queue.jobs[0]
	if first.path != CompleteLeaguePath || first.delay != 2*time.Hour || first.dedupID != "complete-league-lg-1" {
		t.Fatalf("unexpected job: %+v", first)
	}
	if payload, ok := first.payload.(CompleteLeaguePayload); !ok || payload.LeagueID != "lg-1" {
		t.Fatalf("unexpected payload: %+v", first.payload)
	}
	if queue.jobs[1].delay != 0 {
		t.Fatalf("past end date should enqueue without delay, got %v", queue.jobs[1].delay)
	}
}
