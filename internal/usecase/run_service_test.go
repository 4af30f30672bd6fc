package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/futalyst/internal/domain/league"
)

func TestRunService_ListMyRuns(t *testing.T) {
	old := testRun("run-old", "alice")
	old.GameVersion = "fc24"
	env := newTestEnv(t, testRun("run-a", "alice"), old, testRun("run-b", "bob"))

	all, err := env.runSvc.ListMyRuns(context.Background(), RequestContext{UserID: "alice"})
	if err != nil {
		t.Fatalf("ListMyRuns error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(all))
	}

	current, err := env.runSvc.ListMyRuns(context.Background(), userCtx("alice"))
	if err != nil {
		t.Fatalf("ListMyRuns error: %v", err)
	}
	if len(current) != 1 || current[0].ID != "run-a" {
		t.Fatalf("unexpected filtered runs: %+v", current)
	}
}

func TestRunService_DeleteRun(t *testing.T) {
	env := newTestEnv(t,
		testRun("run-a", "alice"),
		testRun("run-b", "bob"),
		testRun("run-free", "alice"),
	)
	item := seedLeague(t, env, "L1", "alice", scenarioSelections(),
		league.Participant{UserID: "alice", RunID: strPtr("run-a")},
	)

	tests := []struct {
		name      string
		userID    string
		runID     string
		targetErr error
	}{
		{name: "linked to active league", userID: "alice", runID: "run-a", targetErr: ErrLinkConflict},
		{name: "foreign run", userID: "alice", runID: "run-b", targetErr: ErrForbidden},
		{name: "missing run", userID: "alice", runID: "nope", targetErr: ErrNotFound},
		{name: "blank id", userID: "alice", runID: " ", targetErr: ErrValidation},
		{name: "free run", userID: "alice", runID: "run-free"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := env.runSvc.DeleteRun(context.Background(), userCtx(tc.userID), tc.runID)
			if tc.targetErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected %v, got %v", tc.targetErr, err)
			}
		})
	}

	if _, exists, _ := env.runs.GetByID(context.Background(), "run-a"); !exists {
		t.Fatalf("linked run must survive a rejected delete")
	}

	if _, err := env.leagues.Complete(context.Background(), item.ID, testNow); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if err := env.runSvc.DeleteRun(context.Background(), userCtx("alice"), "run-a"); err != nil {
		t.Fatalf("delete after completion error: %v", err)
	}

	p, _, err := env.leagues.GetParticipant(context.Background(), item.ID, "alice")
	if err != nil {
		t.Fatalf("GetParticipant error: %v", err)
	}
	if p.RunID != nil {
		t.Fatalf("completed league still points at deleted run: %+v", p)
	}
}
