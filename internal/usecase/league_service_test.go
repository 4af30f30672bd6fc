package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
)

func validCreateInput() CreateLeagueInput {
	return CreateLeagueInput{
		Name:       "Sunday Sweats",
		EndsAt:     testNow.Add(7 * 24 * time.Hour),
		Challenges: catalogSelections(league.MinChallenges),
	}
}

func TestLeagueService_CreateLeague(t *testing.T) {
	env := newTestEnv(t, testRun("run-admin", "admin", run.Game{GoalsScored: 2}))

	input := validCreateInput()
	input.AdminRunID = "run-admin"
	input.Invitees = []string{"friend-1", "friend-2"}

	item, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), input)
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}
	if item.ID != "lg-1" || item.Slug != "sunday-sweats" || item.Status != league.StatusActive {
		t.Fatalf("unexpected league: %+v", item)
	}
	if item.GameVersion != "fc25" {
		t.Fatalf("unexpected game version: %s", item.GameVersion)
	}
	for i, sel := range item.Challenges {
		if sel.Points <= 0 {
			t.Fatalf("selection %d has no points: %+v", i, sel)
		}
	}

	participants, err := env.leagues.ListParticipants(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("ListParticipants error: %v", err)
	}
	if len(participants) != 1 || participants[0].UserID != "admin" || participants[0].LinkedRunID() != "run-admin" {
		t.Fatalf("unexpected roster: %+v", participants)
	}

	invitations, err := env.leagueSvc.ListMyInvitations(context.Background(), userCtx("friend-2"))
	if err != nil {
		t.Fatalf("ListMyInvitations error: %v", err)
	}
	if len(invitations) != 1 || invitations[0].LeagueID != item.ID {
		t.Fatalf("unexpected invitations: %+v", invitations)
	}

	if len(env.scheduler.leagues) != 1 || env.scheduler.leagues[0] != item.ID {
		t.Fatalf("completion was not scheduled: %+v", env.scheduler.leagues)
	}
}

func TestLeagueService_CreateLeagueValidation(t *testing.T) {
	env := newTestEnv(t,
		testRun("run-admin", "admin"),
		testRun("run-other", "other"),
	)

	tests := []struct {
		name      string
		mutate    func(*CreateLeagueInput)
		targetErr error
	}{
		{name: "missing name", mutate: func(in *CreateLeagueInput) { in.Name = "  " }, targetErr: ErrValidation},
		{name: "end date in past", mutate: func(in *CreateLeagueInput) { in.EndsAt = testNow.Add(-time.Minute) }, targetErr: ErrValidation},
		{name: "too few challenges", mutate: func(in *CreateLeagueInput) { in.Challenges = catalogSelections(league.MinChallenges - 1) }, targetErr: ErrValidation},
		{name: "too many challenges", mutate: func(in *CreateLeagueInput) { in.Challenges = catalogSelections(league.MaxChallenges + 1) }, targetErr: ErrValidation},
		{
			name: "unknown challenge",
			mutate: func(in *CreateLeagueInput) {
				in.Challenges[0].ChallengeID = "nope"
			},
			targetErr: ErrValidation,
		},
		{
			name: "negative points",
			mutate: func(in *CreateLeagueInput) {
				in.Challenges[0].Points = -2
			},
			targetErr: ErrValidation,
		},
		{name: "self invite", mutate: func(in *CreateLeagueInput) { in.Invitees = []string{"admin"} }, targetErr: ErrValidation},
		{name: "unknown admin run", mutate: func(in *CreateLeagueInput) { in.AdminRunID = "missing" }, targetErr: ErrNotFound},
		{name: "foreign admin run", mutate: func(in *CreateLeagueInput) { in.AdminRunID = "run-other" }, targetErr: ErrForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)

			_, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), input)
			if !errors.Is(err, tc.targetErr) {
				t.Fatalf("expected %v, got %v", tc.targetErr, err)
			}
		})
	}

	if _, err := env.leagueSvc.CreateLeague(context.Background(), RequestContext{}, validCreateInput()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without user, got %v", err)
	}
}

func TestLeagueService_CreateLeagueGameVersionMismatch(t *testing.T) {
	oldRun := testRun("run-fc24", "admin")
	oldRun.GameVersion = "fc24"
	env := newTestEnv(t, oldRun)

	input := validCreateInput()
	input.AdminRunID = oldRun.ID
	if _, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), input); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	item, err := env.leagueSvc.CreateLeague(context.Background(), RequestContext{UserID: "admin"}, input)
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}
	if item.GameVersion != "fc24" {
		t.Fatalf("expected game version from admin run, got %q", item.GameVersion)
	}
}

func TestLeagueService_CreateLeagueRetriesCodeCollision(t *testing.T) {
	env := newTestEnv(t)
	env.leagueSvc.codeGen = &scriptedCodes{codes: []string{"TAKEN1", "TAKEN1", "TAKEN1", "FRESH1"}}

	first, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), validCreateInput())
	if err != nil || first.Code != "TAKEN1" {
		t.Fatalf("first create: league=%+v err=%v", first, err)
	}

	second, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), validCreateInput())
	if err != nil {
		t.Fatalf("second create error: %v", err)
	}
	if second.Code != "FRESH1" {
		t.Fatalf("expected retried code FRESH1, got %s", second.Code)
	}

	env.leagueSvc.codeGen = &scriptedCodes{codes: []string{"TAKEN1", "TAKEN1", "TAKEN1"}}
	if _, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), validCreateInput()); !errors.Is(err, league.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode after exhausting attempts, got %v", err)
	}
}

func TestLeagueService_CreateLeagueSchedulerFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.scheduler.err = errors.New("qstash down")

	if _, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), validCreateInput()); err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}
}

func TestLeagueService_JoinLeague(t *testing.T) {
	env := newTestEnv(t,
		testRun("run-a", "alice"),
		testRun("run-b", "bob"),
	)
	item, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), validCreateInput())
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}

	if _, err := env.leagueSvc.JoinLeague(context.Background(), userCtx("alice"), " "+item.Code+" ", "run-a"); err != nil {
		t.Fatalf("JoinLeague error: %v", err)
	}
	if _, err := env.leagueSvc.JoinLeague(context.Background(), userCtx("alice"), item.Code, ""); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on second join, got %v", err)
	}
	if _, err := env.leagueSvc.JoinLeague(context.Background(), userCtx("bob"), "ZZZZZZ", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}
	if _, err := env.leagueSvc.JoinLeague(context.Background(), userCtx("bob"), item.Code, "run-a"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign run, got %v", err)
	}

	other, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), validCreateInput())
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}
	if _, err := env.leagueSvc.JoinLeague(context.Background(), userCtx("alice"), other.Code, "run-a"); !errors.Is(err, ErrLinkConflict) {
		t.Fatalf("expected ErrLinkConflict for run linked elsewhere, got %v", err)
	}
}

func TestLeagueService_JoinLeagueCapacity(t *testing.T) {
	env := newTestEnv(t)
	item, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), validCreateInput())
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}

	for i := 1; i < league.MaxParticipants; i++ {
		userID := "member-" + string(rune('a'+i))
		if _, err := env.leagueSvc.JoinLeague(context.Background(), userCtx(userID), item.Code, ""); err != nil {
			t.Fatalf("join %d error: %v", i, err)
		}
	}
	if _, err := env.leagueSvc.JoinLeague(context.Background(), userCtx("late"), item.Code, ""); !errors.Is(err, ErrCapacity) {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
}

func TestLeagueService_Invitations(t *testing.T) {
	env := newTestEnv(t)
	input := validCreateInput()
	input.Invitees = []string{"alice", "bob"}
	item, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), input)
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}

	detail, err := env.leagueSvc.GetLeague(context.Background(), userCtx("alice"), item.ID)
	if err != nil {
		t.Fatalf("pending invitee should see league: %v", err)
	}
	if len(detail.Participants) != 1 {
		t.Fatalf("unexpected roster: %+v", detail.Participants)
	}

	if _, err := env.leagueSvc.AcceptInvitation(context.Background(), userCtx("alice"), item.ID, ""); err != nil {
		t.Fatalf("AcceptInvitation error: %v", err)
	}
	if _, err := env.leagueSvc.AcceptInvitation(context.Background(), userCtx("alice"), item.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second accept, got %v", err)
	}

	if err := env.leagueSvc.DeclineInvitation(context.Background(), userCtx("bob"), item.ID); err != nil {
		t.Fatalf("DeclineInvitation error: %v", err)
	}
	if _, err := env.leagueSvc.GetLeague(context.Background(), userCtx("bob"), item.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("declined invitee should not see league, got %v", err)
	}
	if _, err := env.leagueSvc.AcceptInvitation(context.Background(), userCtx("carol"), item.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without invitation, got %v", err)
	}

	pending, err := env.leagueSvc.ListMyInvitations(context.Background(), userCtx("bob"))
	if err != nil {
		t.Fatalf("ListMyInvitations error: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending invitations, got %+v", pending)
	}
}

func TestLeagueService_LinkRun(t *testing.T) {
	env := newTestEnv(t,
		testRun("run-a1", "alice"),
		testRun("run-a2", "alice"),
	)
	item := seedLeague(t, env, "L1", "admin", catalogSelections(2), league.Participant{UserID: "alice"})
	seedLeague(t, env, "L2", "admin", catalogSelections(2), league.Participant{UserID: "alice"})

	p, err := env.leagueSvc.LinkRun(context.Background(), userCtx("alice"), item.ID, strPtr("run-a1"))
	if err != nil {
		t.Fatalf("LinkRun error: %v", err)
	}
	if p.LinkedRunID() != "run-a1" {
		t.Fatalf("unexpected participant: %+v", p)
	}

	// relinking the same run is a no-op.
	if _, err := env.leagueSvc.LinkRun(context.Background(), userCtx("alice"), item.ID, strPtr("run-a1")); err != nil {
		t.Fatalf("idempotent LinkRun error: %v", err)
	}
	if _, err := env.leagueSvc.LinkRun(context.Background(), userCtx("alice"), "L2", strPtr("run-a1")); !errors.Is(err, ErrLinkConflict) {
		t.Fatalf("expected ErrLinkConflict, got %v", err)
	}
	if _, err := env.leagueSvc.LinkRun(context.Background(), userCtx("bob"), item.ID, nil); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non member, got %v", err)
	}

	p, err = env.leagueSvc.LinkRun(context.Background(), userCtx("alice"), item.ID, nil)
	if err != nil {
		t.Fatalf("unlink error: %v", err)
	}
	if p.RunID != nil {
		t.Fatalf("expected run to be unlinked: %+v", p)
	}
	if _, err := env.leagueSvc.LinkRun(context.Background(), userCtx("alice"), "L2", strPtr("run-a1")); err != nil {
		t.Fatalf("link after unlink error: %v", err)
	}

	if _, err := env.leagues.Complete(context.Background(), item.ID, testNow); err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if _, err := env.leagueSvc.LinkRun(context.Background(), userCtx("alice"), item.ID, strPtr("run-a2")); !errors.Is(err, ErrInactiveLeague) {
		t.Fatalf("expected ErrInactiveLeague, got %v", err)
	}
}

func TestLeagueService_LeaveLeague(t *testing.T) {
	env := newTestEnv(t)
	item := seedLeague(t, env, "L1", "admin", catalogSelections(2), league.Participant{UserID: "alice"})

	if err := env.leagueSvc.LeaveLeague(context.Background(), userCtx("admin"), item.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected admin leave to be forbidden, got %v", err)
	}
	if err := env.leagueSvc.LeaveLeague(context.Background(), userCtx("alice"), item.ID); err != nil {
		t.Fatalf("LeaveLeague error: %v", err)
	}
	if err := env.leagueSvc.LeaveLeague(context.Background(), userCtx("alice"), item.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden after leaving, got %v", err)
	}
}

func TestLeagueService_ReplaceChallenges(t *testing.T) {
	env := newTestEnv(t)
	item, err := env.leagueSvc.CreateLeague(context.Background(), userCtx("admin"), validCreateInput())
	if err != nil {
		t.Fatalf("CreateLeague error: %v", err)
	}

	next := catalogSelections(league.MaxChallenges)
	next[0].Points = 9
	updated, err := env.leagueSvc.ReplaceChallenges(context.Background(), userCtx("admin"), item.ID, next)
	if err != nil {
		t.Fatalf("ReplaceChallenges error: %v", err)
	}
	if len(updated.Challenges) != league.MaxChallenges || updated.Challenges[0].Points != 9 {
		t.Fatalf("unexpected challenges: %+v", updated.Challenges)
	}

	stored, _, err := env.leagues.GetByID(context.Background(), item.ID)
	if err != nil || len(stored.Challenges) != league.MaxChallenges {
		t.Fatalf("challenges were not persisted: %+v err=%v", stored.Challenges, err)
	}

	if _, err := env.leagueSvc.ReplaceChallenges(context.Background(), userCtx("alice"), item.ID, next); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non admin, got %v", err)
	}
	if _, err := env.leagueSvc.ReplaceChallenges(context.Background(), userCtx("admin"), item.ID, next[:3]); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestLeagueService_DeleteLeague(t *testing.T) {
	env := newTestEnv(t)
	item := seedLeague(t, env, "L1", "admin", catalogSelections(2), league.Participant{UserID: "alice"})

	if err := env.leagueSvc.DeleteLeague(context.Background(), userCtx("alice"), item.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := env.leagueSvc.DeleteLeague(context.Background(), userCtx("admin"), item.ID); err != nil {
		t.Fatalf("DeleteLeague error: %v", err)
	}
	if _, err := env.leagueSvc.GetLeague(context.Background(), userCtx("admin"), item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestLeagueService_ListMyLeaguesFiltersGameVersion(t *testing.T) {
	env := newTestEnv(t)
	seedLeague(t, env, "L1", "admin", catalogSelections(2))
	old := seedLeague(t, env, "L2", "admin", catalogSelections(2))
	old.GameVersion = "fc24"
	oldAdmin := league.Participant{LeagueID: "L3", UserID: "admin", JoinedAt: testNow}
	old.ID, old.Code = "L3", "CL3"
	if err := env.leagues.Create(context.Background(), old, oldAdmin, nil); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	all, err := env.leagueSvc.ListMyLeagues(context.Background(), RequestContext{UserID: "admin"})
	if err != nil {
		t.Fatalf("ListMyLeagues error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 leagues, got %d", len(all))
	}

	filtered, err := env.leagueSvc.ListMyLeagues(context.Background(), userCtx("admin"))
	if err != nil {
		t.Fatalf("ListMyLeagues error: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 fc25 leagues, got %d", len(filtered))
	}
}
