package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
)

// leagueStatusReader lets the result store refuse writes for frozen leagues.
type leagueStatusReader interface {
	GetByID(ctx context.Context, leagueID string) (league.League, bool, error)
}

type StandingRepository struct {
	mu      sync.RWMutex
	results map[string][]standing.ChallengeResult
	leagues leagueStatusReader
}

func NewStandingRepository(leagues leagueStatusReader) *StandingRepository {
	return &StandingRepository{
		results: make(map[string][]standing.ChallengeResult),
		leagues: leagues,
	}
}

func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, results []standing.ChallengeResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.leagues != nil {
		l, exists, err := r.leagues.GetByID(ctx, leagueID)
		if err != nil {
			return err
		}
		if !exists {
			return league.ErrLeagueNotFound
		}
		if !l.IsActive() {
			return standing.ErrFrozen
		}
	}

	rows := make([]standing.ChallengeResult, 0, len(results))
	for _, result := range results {
		rows = append(rows, cloneResult(result))
	}
	sortResults(rows)
	r.results[leagueID] = rows
	return nil
}

func (r *StandingRepository) ListByLeague(_ context.Context, leagueID string) ([]standing.ChallengeResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.results[leagueID]
	out := make([]standing.ChallengeResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneResult(row))
	}
	return out, nil
}

func (r *StandingRepository) DeleteByLeague(_ context.Context, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.results, leagueID)
	return nil
}

func sortResults(rows []standing.ChallengeResult) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ChallengeID != rows[j].ChallengeID {
			return rows[i].ChallengeID < rows[j].ChallengeID
		}
		return rows[i].UserID < rows[j].UserID
	})
}

func cloneResult(row standing.ChallengeResult) standing.ChallengeResult {
	out := row
	if row.Value != nil {
		v := *row.Value
		out.Value = &v
	}
	if row.AchievedAt != nil {
		v := *row.AchievedAt
		out.AchievedAt = &v
	}
	return out
}
