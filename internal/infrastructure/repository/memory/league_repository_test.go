package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
)

func newTestLeague(repo *LeagueRepository, id, code string, adminRunID *string) error {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l := league.League{
		ID:              id,
		Name:            "Friends " + id,
		AdminUserID:     "admin",
		Code:            code,
		MaxParticipants: league.MaxParticipants,
		EndsAt:          now.Add(72 * time.Hour),
		Status:          league.StatusActive,
		CreatedAt:       now,
	}
	admin := league.Participant{LeagueID: id, UserID: "admin", RunID: adminRunID, JoinedAt: now}
	invites := []league.Invitation{{LeagueID: id, UserID: "invitee", InvitedBy: "admin", Status: league.InvitationPending, CreatedAt: now}}
	return repo.Create(context.Background(), l, admin, invites)
}

func TestLeagueRepository_JoinEnforcesCapacityUnderConcurrency(t *testing.T) {
	t.Parallel()

	repo := NewLeagueRepository()
	if err := newTestLeague(repo, "l1", "CODE0001", nil); err != nil {
		t.Fatalf("create league: %v", err)
	}

	const joiners = 50
	var joined atomic.Int32
	var full atomic.Int32
	var wg sync.WaitGroup
	wg.Add(joiners)
	for i := 0; i < joiners; i++ {
		i := i
		go func() {
			defer wg.Done()
			err := repo.Join(context.Background(), league.Participant{LeagueID: "l1", UserID: fmt.Sprintf("u%02d", i), JoinedAt: time.Now()})
			switch {
			case err == nil:
				joined.Add(1)
			case errors.Is(err, league.ErrLeagueFull):
				full.Add(1)
			default:
				t.Errorf("unexpected join error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := joined.Load(); got != league.MaxParticipants-1 {
		t.Fatalf("joined=%d want=%d", got, league.MaxParticipants-1)
	}
	participants, err := repo.ListParticipants(context.Background(), "l1")
	if err != nil {
		t.Fatalf("list participants: %v", err)
	}
	if len(participants) != league.MaxParticipants {
		t.Fatalf("participants=%d want=%d", len(participants), league.MaxParticipants)
	}
}

func TestLeagueRepository_JoinAcceptsInvitationAndRejectsDuplicates(t *testing.T) {
	repo := NewLeagueRepository()
	ctx := context.Background()
	if err := newTestLeague(repo, "l1", "CODE0001", nil); err != nil {
		t.Fatalf("create league: %v", err)
	}

	if err := repo.Join(ctx, league.Participant{LeagueID: "l1", UserID: "invitee", JoinedAt: time.Now()}); err != nil {
		t.Fatalf("join: %v", err)
	}
	inv, ok, _ := repo.GetInvitation(ctx, "l1", "invitee")
	if !ok || inv.Status != league.InvitationAccepted || inv.RespondedAt == nil {
		t.Fatalf("expected accepted invitation, got %+v", inv)
	}
	if err := repo.Join(ctx, league.Participant{LeagueID: "l1", UserID: "invitee"}); !errors.Is(err, league.ErrAlreadyParticipant) {
		t.Fatalf("expected ErrAlreadyParticipant, got %v", err)
	}
}

func TestLeagueRepository_RunLinks(t *testing.T) {
	repo := NewLeagueRepository()
	ctx := context.Background()
	runID := "run-1"

	if err := newTestLeague(repo, "l1", "CODE0001", &runID); err != nil {
		t.Fatalf("create league: %v", err)
	}
	if err := newTestLeague(repo, "l2", "CODE0002", &runID); !errors.Is(err, league.ErrRunLinked) {
		t.Fatalf("expected ErrRunLinked for second active league, got %v", err)
	}
	if err := newTestLeague(repo, "l2", "CODE0001", nil); !errors.Is(err, league.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}

	if !repo.HasActiveLink(runID) {
		t.Fatalf("expected active link")
	}
	if _, err := repo.Complete(ctx, "l1", time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := repo.Complete(ctx, "l1", time.Now()); !errors.Is(err, league.ErrLeagueInactive) {
		t.Fatalf("expected ErrLeagueInactive on second complete, got %v", err)
	}
	links, _ := repo.FindActiveLinks(ctx, runID)
	if len(links) != 0 {
		t.Fatalf("expected no active links after completion, got %+v", links)
	}

	if err := repo.ClearRunLinks(ctx, runID); err != nil {
		t.Fatalf("clear run links: %v", err)
	}
	p, _, _ := repo.GetParticipant(ctx, "l1", "admin")
	if p.RunID != nil {
		t.Fatalf("expected completed league link to be cleared")
	}
}

func TestRunRepository_DeleteGuardedByActiveLink(t *testing.T) {
	leagues := NewLeagueRepository()
	runs := NewRunRepository(SeedRuns(), leagues)
	ctx := context.Background()
	runID := "run-alpha-w1"

	if err := newTestLeague(leagues, "l1", "CODE0001", &runID); err != nil {
		t.Fatalf("create league: %v", err)
	}
	if err := runs.Delete(ctx, runID); !errors.Is(err, run.ErrLinkedToActiveLeague) {
		t.Fatalf("expected ErrLinkedToActiveLeague, got %v", err)
	}

	if _, err := leagues.Complete(ctx, "l1", time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := runs.Delete(ctx, runID); err != nil {
		t.Fatalf("delete after completion: %v", err)
	}
	if _, ok, _ := runs.GetByID(ctx, runID); ok {
		t.Fatalf("expected run to be deleted")
	}
}

func TestStandingRepository_FrozenAfterCompletion(t *testing.T) {
	leagues := NewLeagueRepository()
	results := NewStandingRepository(leagues)
	ctx := context.Background()

	if err := newTestLeague(leagues, "l1", "CODE0001", nil); err != nil {
		t.Fatalf("create league: %v", err)
	}
	rows := []standing.ChallengeResult{{LeagueID: "l1", ChallengeID: "off_1", UserID: "admin", PointsAwarded: 3}}
	if err := results.ReplaceByLeague(ctx, "l1", rows); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if _, err := leagues.Complete(ctx, "l1", time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := results.ReplaceByLeague(ctx, "l1", nil); !errors.Is(err, standing.ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
	stored, _ := results.ListByLeague(ctx, "l1")
	if len(stored) != 1 {
		t.Fatalf("frozen results changed: %+v", stored)
	}
}
