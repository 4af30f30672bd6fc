package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
)

func scenarioSelections() []league.Selection {
	return []league.Selection{
		{ChallengeID: "def_7", Points: 3},
		{ChallengeID: "off_1", Points: 3},
	}
}

// newScenarioEnv seeds the two player league used across evaluation tests:
// alice scores 5 with no red card, bob scores 8 with one red card.
func newScenarioEnv(t *testing.T) (*testEnv, league.League) {
	t.Helper()

	env := newTestEnv(t,
		testRun("run-a", "alice", run.Game{GoalsScored: 3}, run.Game{GoalsScored: 2}),
		testRun("run-b", "bob", run.Game{GoalsScored: 4, RedCards: 1}, run.Game{GoalsScored: 4}),
	)
	item := seedLeague(t, env, "L1", "alice", scenarioSelections(),
		league.Participant{UserID: "alice", RunID: strPtr("run-a")},
		league.Participant{UserID: "bob", RunID: strPtr("run-b")},
	)
	return env, item
}

func pointsByKey(results []standing.ChallengeResult) map[string]int {
	out := make(map[string]int, len(results))
	for _, r := range results {
		out[r.ChallengeID+"/"+r.UserID] = r.PointsAwarded
	}
	return out
}

func TestEvaluationService_EvaluateLeague(t *testing.T) {
	env, item := newScenarioEnv(t)

	results, err := env.evalSvc.EvaluateLeague(context.Background(), userCtx("bob"), item.ID)
	if err != nil {
		t.Fatalf("EvaluateLeague error: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	want := map[string]int{
		"def_7/alice": 3,
		"def_7/bob":   0,
		"off_1/alice": 0,
		"off_1/bob":   3,
	}
	got := pointsByKey(results)
	for key, points := range want {
		if got[key] != points {
			t.Fatalf("%s points=%d want=%d", key, got[key], points)
		}
	}

	for _, r := range results {
		if r.ChallengeID == "off_1" && r.UserID == "bob" {
			if r.Value == nil || *r.Value != 8 || r.Rank != 1 {
				t.Fatalf("unexpected off_1 result for bob: %+v", r)
			}
		}
		if !r.EvaluatedAt.Equal(testNow) {
			t.Fatalf("unexpected evaluated at: %v", r.EvaluatedAt)
		}
	}

	stored, err := env.standings.ListByLeague(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("ListByLeague error: %v", err)
	}
	if len(stored) != 4 {
		t.Fatalf("expected 4 stored results, got %d", len(stored))
	}
}

func TestEvaluationService_EvaluateLeagueIsIdempotent(t *testing.T) {
	env, item := newScenarioEnv(t)

	first, err := env.evalSvc.EvaluateLeague(context.Background(), userCtx("alice"), item.ID)
	if err != nil {
		t.Fatalf("first evaluation error: %v", err)
	}
	second, err := env.evalSvc.EvaluateLeague(context.Background(), userCtx("alice"), item.ID)
	if err != nil {
		t.Fatalf("second evaluation error: %v", err)
	}

	a, b := pointsByKey(first), pointsByKey(second)
	if len(a) != len(b) {
		t.Fatalf("result count changed: %d vs %d", len(a), len(b))
	}
	for key, points := range a {
		if b[key] != points {
			t.Fatalf("%s changed from %d to %d", key, points, b[key])
		}
	}

	stored, err := env.standings.ListByLeague(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("ListByLeague error: %v", err)
	}
	if len(stored) != 4 {
		t.Fatalf("expected results to be replaced, got %d rows", len(stored))
	}
}

func TestEvaluationService_PrunesResultsOfFormerParticipants(t *testing.T) {
	env, item := newScenarioEnv(t)

	if _, err := env.evalSvc.EvaluateLeague(context.Background(), userCtx("alice"), item.ID); err != nil {
		t.Fatalf("EvaluateLeague error: %v", err)
	}
	if err := env.leagueSvc.LeaveLeague(context.Background(), userCtx("bob"), item.ID); err != nil {
		t.Fatalf("LeaveLeague error: %v", err)
	}
	results, err := env.evalSvc.EvaluateLeague(context.Background(), userCtx("alice"), item.ID)
	if err != nil {
		t.Fatalf("EvaluateLeague error: %v", err)
	}
	for _, r := range results {
		if r.UserID == "bob" {
			t.Fatalf("former participant still has results: %+v", r)
		}
	}

	// alice alone now leads the goal race.
	if got := pointsByKey(results)["off_1/alice"]; got != 3 {
		t.Fatalf("off_1/alice points=%d want=3", got)
	}
}

func TestEvaluationService_UnlinkedParticipantScoresNothing(t *testing.T) {
	env, item := newScenarioEnv(t)
	if err := env.leagues.Join(context.Background(), league.Participant{LeagueID: item.ID, UserID: "carol", JoinedAt: testNow}); err != nil {
		t.Fatalf("Join error: %v", err)
	}

	results, err := env.evalSvc.EvaluateLeague(context.Background(), userCtx("carol"), item.ID)
	if err != nil {
		t.Fatalf("EvaluateLeague error: %v", err)
	}
	for _, r := range results {
		if r.UserID != "carol" {
			continue
		}
		if r.PointsAwarded != 0 || r.Value != nil || r.Rank != 0 {
			t.Fatalf("unlinked participant got a scored result: %+v", r)
		}
	}
}

func TestEvaluationService_EvaluateLeagueErrors(t *testing.T) {
	env, item := newScenarioEnv(t)

	if _, err := env.evalSvc.EvaluateLeague(context.Background(), userCtx("mallory"), item.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := env.evalSvc.EvaluateLeague(context.Background(), userCtx("alice"), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := env.evalSvc.EvaluateLeague(context.Background(), RequestContext{}, item.ID); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	if _, err := env.leagues.Complete(context.Background(), item.ID, testNow); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if _, err := env.evalSvc.EvaluateLeague(context.Background(), userCtx("alice"), item.ID); !errors.Is(err, ErrInactiveLeague) {
		t.Fatalf("expected ErrInactiveLeague, got %v", err)
	}
}

func TestEvaluationService_CompletedLeagueResultsAreFrozen(t *testing.T) {
	env, item := newScenarioEnv(t)

	completed, err := env.completion.CompleteLeague(context.Background(), userCtx("alice"), item.ID)
	if err != nil {
		t.Fatalf("CompleteLeague error: %v", err)
	}

	// a later run edit must not change what the completed league shows.
	env.runs.Put(testRun("run-a", "alice", run.Game{GoalsScored: 20}))

	if err := env.evalSvc.EnsureLeagueUpToDate(context.Background(), completed); err != nil {
		t.Fatalf("EnsureLeagueUpToDate error: %v", err)
	}
	if _, err := env.evalSvc.Recompute(context.Background(), completed); !errors.Is(err, ErrInactiveLeague) {
		t.Fatalf("expected frozen results to reject recompute, got %v", err)
	}

	results, err := env.standings.ListByLeague(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("ListByLeague error: %v", err)
	}
	if got := pointsByKey(results)["off_1/alice"]; got != 0 {
		t.Fatalf("frozen off_1/alice points=%d want=0", got)
	}
}
