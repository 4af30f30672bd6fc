package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
)

// leagueEvaluator brings a league's results up to date before they are read.
type leagueEvaluator interface {
	EnsureLeagueUpToDate(ctx context.Context, item league.League) error
}

type StandingsView struct {
	League league.League
	Rows   []standing.Standing
}

type StandingsService struct {
	leagueRepo   league.Repository
	standingRepo standing.Repository
	evaluator    leagueEvaluator
}

func NewStandingsService(leagueRepo league.Repository, standingRepo standing.Repository, evaluator leagueEvaluator) *StandingsService {
	return &StandingsService{
		leagueRepo:   leagueRepo,
		standingRepo: standingRepo,
		evaluator:    evaluator,
	}
}

func (s *StandingsService) GetStandings(ctx context.Context, rc RequestContext, leagueID string) (StandingsView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GetStandings", leagueAttr(leagueID))
	defer span.End()

	item, participants, results, err := s.load(ctx, rc, leagueID)
	if err != nil {
		return StandingsView{}, err
	}

	userIDs := make([]string, 0, len(participants))
	for _, p := range participants {
		userIDs = append(userIDs, p.UserID)
	}

	return StandingsView{
		League: item,
		Rows:   standing.Aggregate(item.ID, userIDs, results),
	}, nil
}

func (s *StandingsService) ListResults(ctx context.Context, rc RequestContext, leagueID string) ([]standing.ChallengeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListResults", leagueAttr(leagueID))
	defer span.End()

	_, _, results, err := s.load(ctx, rc, leagueID)
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *StandingsService) load(ctx context.Context, rc RequestContext, leagueID string) (league.League, []league.Participant, []standing.ChallengeResult, error) {
	rc, err := rc.normalize()
	if err != nil {
		return league.League{}, nil, nil, err
	}
	item, err := loadLeague(ctx, s.leagueRepo, leagueID)
	if err != nil {
		return league.League{}, nil, nil, err
	}
	participants, err := requireParticipant(ctx, s.leagueRepo, item.ID, rc.UserID)
	if err != nil {
		return league.League{}, nil, nil, err
	}

	if s.evaluator != nil {
		if err := s.evaluator.EnsureLeagueUpToDate(ctx, item); err != nil {
			return league.League{}, nil, nil, fmt.Errorf("update league results for league=%s: %w", item.ID, err)
		}
	}

	results, err := s.standingRepo.ListByLeague(ctx, item.ID)
	if err != nil {
		return league.League{}, nil, nil, fmt.Errorf("list league results: %w", err)
	}
	return item, participants, results, nil
}
