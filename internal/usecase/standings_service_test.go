package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
)

func TestStandingsService_GetStandings(t *testing.T) {
	env, item := newScenarioEnv(t)
	if err := env.leagues.Join(context.Background(), league.Participant{LeagueID: item.ID, UserID: "carol", JoinedAt: testNow}); err != nil {
		t.Fatalf("Join error: %v", err)
	}

	// standings evaluate lazily, no explicit EvaluateLeague call.
	view, err := env.standSvc.GetStandings(context.Background(), userCtx("carol"), item.ID)
	if err != nil {
		t.Fatalf("GetStandings error: %v", err)
	}
	if view.League.ID != item.ID {
		t.Fatalf("unexpected league: %+v", view.League)
	}

	want := []standing.Standing{
		{LeagueID: item.ID, UserID: "alice", Points: 3, Rank: 1, ChallengesWon: 1},
		{LeagueID: item.ID, UserID: "bob", Points: 3, Rank: 1, ChallengesWon: 1},
		{LeagueID: item.ID, UserID: "carol", Points: 0, Rank: 2, ChallengesWon: 0},
	}
	if len(view.Rows) != len(want) {
		t.Fatalf("rows=%d want=%d", len(view.Rows), len(want))
	}
	for i := range want {
		if view.Rows[i] != want[i] {
			t.Fatalf("row %d=%+v want=%+v", i, view.Rows[i], want[i])
		}
	}
}

func TestStandingsService_ListResults(t *testing.T) {
	env, item := newScenarioEnv(t)

	results, err := env.standSvc.ListResults(context.Background(), userCtx("alice"), item.ID)
	if err != nil {
		t.Fatalf("ListResults error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	if _, err := env.standSvc.ListResults(context.Background(), userCtx("mallory"), item.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestStandingsService_CompletedLeagueServesStoredResults(t *testing.T) {
	env, item := newScenarioEnv(t)
	if _, err := env.completion.CompleteLeague(context.Background(), userCtx("alice"), item.ID); err != nil {
		t.Fatalf("CompleteLeague error: %v", err)
	}

	view, err := env.standSvc.GetStandings(context.Background(), userCtx("bob"), item.ID)
	if err != nil {
		t.Fatalf("GetStandings error: %v", err)
	}
	if view.League.Status != league.StatusCompleted {
		t.Fatalf("expected completed league, got %s", view.League.Status)
	}
	if len(view.Rows) != 2 || view.Rows[0].Points != 3 || view.Rows[1].Points != 3 {
		t.Fatalf("unexpected frozen standings: %+v", view.Rows)
	}
}

type failingEvaluator struct{}

func (failingEvaluator) EnsureLeagueUpToDate(context.Context, league.League) error {
	return errors.New("evaluator down")
}

func TestStandingsService_EvaluatorFailure(t *testing.T) {
	env, item := newScenarioEnv(t)
	svc := NewStandingsService(env.leagues, env.standings, failingEvaluator{})

	if _, err := svc.GetStandings(context.Background(), userCtx("alice"), item.ID); err == nil {
		t.Fatalf("expected evaluator error")
	}
}
