package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/standing"
	basecache "github.com/riskibarqy/futalyst/internal/platform/cache"
)

type countingStandingRepo struct {
	rows  map[string][]standing.ChallengeResult
	lists int
}

func (r *countingStandingRepo) ReplaceByLeague(_ context.Context, leagueID string, results []standing.ChallengeResult) error {
	r.rows[leagueID] = append([]standing.ChallengeResult(nil), results...)
	return nil
}

func (r *countingStandingRepo) ListByLeague(_ context.Context, leagueID string) ([]standing.ChallengeResult, error) {
	r.lists++
	return append([]standing.ChallengeResult(nil), r.rows[leagueID]...), nil
}

func (r *countingStandingRepo) DeleteByLeague(_ context.Context, leagueID string) error {
	delete(r.rows, leagueID)
	return nil
}

func TestStandingRepository_InvalidatesOnReplace(t *testing.T) {
	next := &countingStandingRepo{rows: map[string][]standing.ChallengeResult{}}
	repo := NewStandingRepository(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	_ = repo.ReplaceByLeague(ctx, "l1", []standing.ChallengeResult{{ChallengeID: "off_1", UserID: "a", PointsAwarded: 3}})
	for i := 0; i < 3; i++ {
		rows, err := repo.ListByLeague(ctx, "l1")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("rows=%d want=1", len(rows))
		}
	}
	if next.lists != 1 {
		t.Fatalf("expected one backend read, got %d", next.lists)
	}

	_ = repo.ReplaceByLeague(ctx, "l1", []standing.ChallengeResult{
		{ChallengeID: "off_1", UserID: "a", PointsAwarded: 0},
		{ChallengeID: "off_1", UserID: "b", PointsAwarded: 3},
	})
	rows, _ := repo.ListByLeague(ctx, "l1")
	if len(rows) != 2 || next.lists != 2 {
		t.Fatalf("expected fresh rows after replace, rows=%d reads=%d", len(rows), next.lists)
	}
}
