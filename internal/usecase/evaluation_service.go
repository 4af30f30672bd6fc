package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/challenge"
	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"
)

const defaultRunLoadWorkers = 8

type EvaluationService struct {
	leagueRepo   league.Repository
	runRepo      run.Repository
	standingRepo standing.Repository
	catalog      *challenge.Catalog
	logger       *logging.Logger
	workers      int
	flight       singleflight.Group
	now          func() time.Time
}

func NewEvaluationService(
	leagueRepo league.Repository,
	runRepo run.Repository,
	standingRepo standing.Repository,
	catalog *challenge.Catalog,
	logger *logging.Logger,
) *EvaluationService {
	if catalog == nil {
		catalog = challenge.DefaultCatalog()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &EvaluationService{
		leagueRepo:   leagueRepo,
		runRepo:      runRepo,
		standingRepo: standingRepo,
		catalog:      catalog,
		logger:       logger,
		workers:      defaultRunLoadWorkers,
		now:          time.Now,
	}
}

// EvaluateLeague recomputes every challenge result of an active league on
// behalf of a member.
func (s *EvaluationService) EvaluateLeague(ctx context.Context, rc RequestContext, leagueID string) ([]standing.ChallengeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.EvaluateLeague", leagueAttr(leagueID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return nil, err
	}
	item, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return nil, err
	}
	if _, err := requireParticipant(ctx, s.leagueRepo, item.ID, rc.UserID); err != nil {
		return nil, err
	}
	if !item.IsActive() {
		return nil, fmt.Errorf("%w: league=%s results are frozen", ErrInactiveLeague, item.ID)
	}

	return s.Recompute(ctx, item)
}

// EnsureLeagueUpToDate refreshes results of an active league. Completed
// leagues are left untouched.
func (s *EvaluationService) EnsureLeagueUpToDate(ctx context.Context, item league.League) error {
	if !item.IsActive() {
		return nil
	}
	_, err := s.Recompute(ctx, item)
	return err
}

// Recompute evaluates item and atomically replaces its stored results.
// Concurrent calls for the same league share one evaluation.
func (s *EvaluationService) Recompute(ctx context.Context, item league.League) ([]standing.ChallengeResult, error) {
	v, err, _ := s.flight.Do(item.ID, func() (any, error) {
		return s.recompute(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	results, _ := v.([]standing.ChallengeResult)
	return append([]standing.ChallengeResult(nil), results...), nil
}

func (s *EvaluationService) recompute(ctx context.Context, item league.League) ([]standing.ChallengeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EvaluationService.recompute", leagueAttr(item.ID))
	defer span.End()

	participants, err := s.leagueRepo.ListParticipants(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list league participants: %w", err)
	}

	entries, err := s.loadEntries(ctx, participants)
	if err != nil {
		return nil, err
	}

	evaluatedAt := s.now().UTC()
	results := make([]standing.ChallengeResult, 0, len(item.Challenges)*len(entries))
	for _, sel := range item.Challenges {
		ch, ok := s.catalog.Get(sel.ChallengeID)
		if !ok {
			s.logger.WarnContext(ctx, "skip challenge missing from catalog",
				"league_id", item.ID,
				"challenge_id", sel.ChallengeID,
				"catalog_version", s.catalog.Version(),
			)
			continue
		}

		outcomes, err := challenge.Evaluate(ch, sel.Points, entries)
		if err != nil {
			return nil, fmt.Errorf("evaluate challenge=%s: %w", ch.ID, err)
		}
		for _, outcome := range outcomes {
			results = append(results, standing.ChallengeResult{
				LeagueID:      item.ID,
				ChallengeID:   ch.ID,
				UserID:        outcome.UserID,
				PointsAwarded: outcome.Points,
				Value:         outcome.Value,
				Rank:          outcome.Rank,
				AchievedAt:    outcome.AchievedAt,
				EvaluatedAt:   evaluatedAt,
			})
		}
	}

	if err := s.standingRepo.ReplaceByLeague(ctx, item.ID, results); err != nil {
		return nil, translateRepoError(err, "replace league results")
	}

	s.logger.DebugContext(ctx, "league evaluated",
		"league_id", item.ID,
		"participants", len(entries),
		"results", len(results),
	)
	return results, nil
}

// loadEntries fetches every linked run concurrently. Missing runs and runs
// owned by someone else contribute nothing.
func (s *EvaluationService) loadEntries(ctx context.Context, participants []league.Participant) ([]challenge.Entry, error) {
	p := pool.NewWithResults[challenge.Entry]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(s.workerCount(len(participants)))

	for _, participant := range participants {
		participant := participant
		p.Go(func(ctx context.Context) (challenge.Entry, error) {
			entry := challenge.Entry{UserID: participant.UserID, JoinedAt: participant.JoinedAt}
			runID := strings.TrimSpace(participant.LinkedRunID())
			if runID == "" {
				return entry, nil
			}

			item, exists, err := s.runRepo.GetByID(ctx, runID)
			if err != nil {
				return challenge.Entry{}, fmt.Errorf("get run=%s for user=%s: %w", runID, participant.UserID, err)
			}
			if exists && item.UserID == participant.UserID {
				entry.Run = &item
			}
			return entry, nil
		})
	}

	loaded, err := p.Wait()
	if err != nil {
		return nil, err
	}

	// pool results arrive in completion order; restore roster order.
	byUser := make(map[string]challenge.Entry, len(loaded))
	for _, entry := range loaded {
		byUser[entry.UserID] = entry
	}
	entries := make([]challenge.Entry, 0, len(participants))
	for _, participant := range participants {
		entries = append(entries, byUser[participant.UserID])
	}
	return entries, nil
}

func (s *EvaluationService) workerCount(n int) int {
	workers := s.workers
	if workers <= 0 {
		workers = defaultRunLoadWorkers
	}
	if n > 0 && n < workers {
		return n
	}
	return workers
}
