package jobqueue

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
)

// CompleteLeaguePath is the internal callback that completes one league.
const CompleteLeaguePath = "/v1/internal/jobs/complete-league"

type enqueuer interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

// CompleteLeaguePayload is the body QStash delivers to CompleteLeaguePath.
type CompleteLeaguePayload struct {
	LeagueID string `json:"league_id"`
}

// CompletionScheduler queues a completion callback for a league's end date.
type CompletionScheduler struct {
	queue enqueuer
	now   func() time.Time
}

func NewCompletionScheduler(queue enqueuer) *CompletionScheduler {
	return &CompletionScheduler{queue: queue, now: time.Now}
}

func (s *CompletionScheduler) ScheduleLeagueCompletion(ctx context.Context, leagueID string, at time.Time) error {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return crerr.New("league id is required")
	}

	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	return s.queue.Enqueue(ctx, CompleteLeaguePath, CompleteLeaguePayload{LeagueID: leagueID}, delay, "complete-league-"+leagueID)
}
