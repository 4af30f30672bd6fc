package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/challenge"
	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	"github.com/riskibarqy/futalyst/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
)

var testNow = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

type sequenceIDs struct {
	prefix string
	next   int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%d", g.prefix, g.next), nil
}

type scriptedCodes struct {
	codes []string
	next  int
}

func (g *scriptedCodes) NewCode() (string, error) {
	defer func() { g.next++ }()
	if g.next >= len(g.codes) {
		return fmt.Sprintf("CODE%04d", g.next), nil
	}
	return g.codes[g.next], nil
}

type recordingScheduler struct {
	leagues []string
	err     error
}

func (s *recordingScheduler) ScheduleLeagueCompletion(_ context.Context, leagueID string, _ time.Time) error {
	s.leagues = append(s.leagues, leagueID)
	return s.err
}

type testEnv struct {
	leagues    *memory.LeagueRepository
	runs       *memory.RunRepository
	standings  *memory.StandingRepository
	scheduler  *recordingScheduler
	leagueSvc  *LeagueService
	evalSvc    *EvaluationService
	standSvc   *StandingsService
	runSvc     *RunService
	completion *CompletionService
}

func newTestEnv(t *testing.T, runs ...run.Run) *testEnv {
	t.Helper()

	leagues := memory.NewLeagueRepository()
	runRepo := memory.NewRunRepository(runs, leagues)
	standings := memory.NewStandingRepository(leagues)
	scheduler := &recordingScheduler{}
	logger := logging.NewNop()
	catalog := challenge.DefaultCatalog()

	leagueSvc := NewLeagueService(leagues, runRepo, standings, catalog, &sequenceIDs{prefix: "lg"}, &scriptedCodes{}, scheduler, logger)
	leagueSvc.now = func() time.Time { return testNow }
	evalSvc := NewEvaluationService(leagues, runRepo, standings, catalog, logger)
	evalSvc.now = func() time.Time { return testNow }
	completion := NewCompletionService(leagues, evalSvc, logger, 2)
	completion.now = func() time.Time { return testNow }

	return &testEnv{
		leagues:    leagues,
		runs:       runRepo,
		standings:  standings,
		scheduler:  scheduler,
		leagueSvc:  leagueSvc,
		evalSvc:    evalSvc,
		standSvc:   NewStandingsService(leagues, standings, evalSvc),
		runSvc:     NewRunService(runRepo, leagues, logger),
		completion: completion,
	}
}

// catalogSelections picks the first n catalog challenges with default points.
func catalogSelections(n int) []league.Selection {
	items := challenge.DefaultCatalog().List()
	out := make([]league.Selection, 0, n)
	for i := 0; i < n && i < len(items); i++ {
		out = append(out, league.Selection{ChallengeID: items[i].ID})
	}
	return out
}

func userCtx(userID string) RequestContext {
	return RequestContext{UserID: userID, GameVersion: "fc25"}
}

// testRun builds a run whose games carry the given goals and red cards.
func testRun(id, userID string, games ...run.Game) run.Run {
	for i := range games {
		games[i].ID = fmt.Sprintf("%s-g%d", id, i+1)
		games[i].RunID = id
		games[i].Number = i + 1
		games[i].PlayedAt = testNow.Add(time.Duration(i) * time.Hour)
		if games[i].Outcome == "" {
			games[i].Outcome = run.OutcomeWin
		}
	}
	return run.Run{
		ID:          id,
		UserID:      userID,
		GameVersion: "fc25",
		Title:       "Weekend League",
		WeekStart:   testNow.Add(-24 * time.Hour),
		CreatedAt:   testNow.Add(-24 * time.Hour),
		Games:       games,
	}
}

// seedLeague stores a league directly, bypassing the challenge count rule so
// scenarios can focus on a few challenges.
func seedLeague(t *testing.T, env *testEnv, id, admin string, selections []league.Selection, members ...league.Participant) league.League {
	t.Helper()

	item := league.League{
		ID:              id,
		Name:            "Scenario " + id,
		Slug:            "scenario-" + id,
		AdminUserID:     admin,
		Code:            "C" + id,
		GameVersion:     "fc25",
		MaxParticipants: league.MaxParticipants,
		EndsAt:          testNow.Add(72 * time.Hour),
		Status:          league.StatusActive,
		Challenges:      selections,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	adminParticipant := league.Participant{LeagueID: id, UserID: admin, JoinedAt: testNow}
	for _, m := range members {
		if m.UserID == admin {
			adminParticipant.RunID = m.RunID
		}
	}
	if err := env.leagues.Create(context.Background(), item, adminParticipant, nil); err != nil {
		t.Fatalf("seed league: %v", err)
	}
	for i, m := range members {
		if m.UserID == admin {
			continue
		}
		m.LeagueID = id
		m.JoinedAt = testNow.Add(time.Duration(i+1) * time.Minute)
		if err := env.leagues.Join(context.Background(), m); err != nil {
			t.Fatalf("seed member %s: %v", m.UserID, err)
		}
	}
	return item
}

func strPtr(v string) *string {
	return &v
}
