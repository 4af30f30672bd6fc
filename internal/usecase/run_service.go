package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
)

type RunService struct {
	runRepo    run.Repository
	leagueRepo league.Repository
	logger     *logging.Logger
}

func NewRunService(runRepo run.Repository, leagueRepo league.Repository, logger *logging.Logger) *RunService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RunService{
		runRepo:    runRepo,
		leagueRepo: leagueRepo,
		logger:     logger,
	}
}

// ListMyRuns returns the caller's runs, narrowed to the selected game version
// when one is set.
func (s *RunService) ListMyRuns(ctx context.Context, rc RequestContext) ([]run.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunService.ListMyRuns")
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return nil, err
	}
	items, err := s.runRepo.ListByUser(ctx, rc.UserID)
	if err != nil {
		return nil, fmt.Errorf("list runs by user: %w", err)
	}
	if rc.GameVersion == "" {
		return items, nil
	}

	out := make([]run.Run, 0, len(items))
	for _, item := range items {
		if item.GameVersion == rc.GameVersion {
			out = append(out, item)
		}
	}
	return out, nil
}

// DeleteRun removes a run owned by the caller. A run still linked to an
// active league cannot be deleted; links held by completed leagues are
// cleared first.
func (s *RunService) DeleteRun(ctx context.Context, rc RequestContext, runID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RunService.DeleteRun", runAttr(runID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return err
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return fmt.Errorf("%w: run id is required", ErrValidation)
	}

	item, exists, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return fmt.Errorf("get run by id: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: run=%s", ErrNotFound, runID)
	}
	if item.UserID != rc.UserID {
		return fmt.Errorf("%w: run belongs to another user", ErrForbidden)
	}

	links, err := s.leagueRepo.FindActiveLinks(ctx, runID)
	if err != nil {
		return fmt.Errorf("find active run links: %w", err)
	}
	if len(links) > 0 {
		return fmt.Errorf("%w: run is linked to active league=%s", ErrLinkConflict, links[0].LeagueID)
	}

	if err := s.leagueRepo.ClearRunLinks(ctx, runID); err != nil {
		return fmt.Errorf("clear completed league links: %w", err)
	}
	if err := s.runRepo.Delete(ctx, runID); err != nil {
		return translateRepoError(err, "delete run")
	}

	s.logger.InfoContext(ctx, "run deleted", "run_id", runID)
	return nil
}
