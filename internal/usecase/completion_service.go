package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
)

const defaultCompletionWorkers = 4

// finalEvaluator runs the last evaluation before a league is frozen.
type finalEvaluator interface {
	EnsureLeagueUpToDate(ctx context.Context, item league.League) error
}

type CompletionResult struct {
	Due       int
	Completed int
	Skipped   int
	Failed    int
}

type CompletionService struct {
	leagueRepo league.Repository
	evaluator  finalEvaluator
	logger     *logging.Logger
	workers    int
	now        func() time.Time
}

func NewCompletionService(leagueRepo league.Repository, evaluator finalEvaluator, logger *logging.Logger, workers int) *CompletionService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultCompletionWorkers
	}
	return &CompletionService{
		leagueRepo: leagueRepo,
		evaluator:  evaluator,
		logger:     logger,
		workers:    workers,
		now:        time.Now,
	}
}

// CompleteLeague is the admin action. Completing a completed league fails
// with ErrInactiveLeague.
func (s *CompletionService) CompleteLeague(ctx context.Context, rc RequestContext, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompletionService.CompleteLeague", leagueAttr(leagueID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return league.League{}, err
	}
	item, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if item.AdminUserID != rc.UserID {
		return league.League{}, fmt.Errorf("%w: only the league admin can complete it", ErrForbidden)
	}
	if !item.IsActive() {
		return league.League{}, fmt.Errorf("%w: league=%s already completed", ErrInactiveLeague, item.ID)
	}

	return s.complete(ctx, item)
}

// CompleteLeagueByJob is the scheduled path. An already completed league is
// a no-op so redelivered jobs succeed. A job delivered before the end date
// still completes the league.
func (s *CompletionService) CompleteLeagueByJob(ctx context.Context, leagueID string) (league.League, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompletionService.CompleteLeagueByJob", leagueAttr(leagueID))
	defer span.End()

	item, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return league.League{}, false, err
	}
	if !item.IsActive() {
		return item, false, nil
	}
	if s.now().Before(item.EndsAt) {
		s.logger.WarnContext(ctx, "complete league job delivered before end date",
			"league_id", item.ID,
			"ends_at", item.EndsAt,
		)
	}

	completed, err := s.complete(ctx, item)
	if errors.Is(err, ErrInactiveLeague) {
		return completed, false, nil
	}
	if err != nil {
		return league.League{}, false, err
	}
	return completed, true, nil
}

// CompleteDue completes every active league whose end date has passed.
func (s *CompletionService) CompleteDue(ctx context.Context) (CompletionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompletionService.CompleteDue")
	defer span.End()

	now := s.now().UTC()
	due, err := s.leagueRepo.ListDue(ctx, now)
	if err != nil {
		return CompletionResult{}, fmt.Errorf("list due leagues: %w", err)
	}
	result := CompletionResult{Due: len(due)}
	if len(due) == 0 {
		return result, nil
	}

	workerCount := s.workers
	if len(due) < workerCount {
		workerCount = len(due)
	}
	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return CompletionResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var completedCount atomic.Int32
	var skippedCount atomic.Int32
	var failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, item := range due {
		item := item
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			_, err := s.complete(ctx, item)
			switch {
			case err == nil:
				completedCount.Add(1)
			case errors.Is(err, ErrInactiveLeague):
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "complete due league failed", "league_id", item.ID, "error", err)
			}
		}); err != nil {
			workers.Done()
			return CompletionResult{}, fmt.Errorf("submit league completion to worker pool: %w", err)
		}
	}
	workers.Wait()

	result.Completed = int(completedCount.Load())
	result.Skipped = int(skippedCount.Load())
	result.Failed = int(failedCount.Load())
	return result, nil
}

func (s *CompletionService) complete(ctx context.Context, item league.League) (league.League, error) {
	if s.evaluator != nil {
		if err := s.evaluator.EnsureLeagueUpToDate(ctx, item); err != nil {
			return league.League{}, fmt.Errorf("final evaluation for league=%s: %w", item.ID, err)
		}
	}

	completed, err := s.leagueRepo.Complete(ctx, item.ID, s.now().UTC())
	if err != nil {
		return league.League{}, translateRepoError(err, "complete league")
	}

	s.logger.InfoContext(ctx, "league completed", "league_id", completed.ID)
	return completed, nil
}
