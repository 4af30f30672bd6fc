package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
	basecache "github.com/riskibarqy/futalyst/internal/platform/cache"
)

// LeagueRepository caches league lookups by id. Writes that change a league
// row evict it; roster and invitation methods pass straight through.
type LeagueRepository struct {
	league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{Repository: next, cache: cache}
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueKey(leagueID), func(ctx context.Context) (any, error) {
		item, exists, err := r.Repository.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	item := cached.value
	item.Challenges = append([]league.Selection(nil), item.Challenges...)
	return item, cached.exists, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League, admin league.Participant, invitations []league.Invitation) error {
	if err := r.Repository.Create(ctx, l, admin, invitations); err != nil {
		return err
	}
	r.cache.Delete(ctx, leagueKey(l.ID))
	return nil
}

func (r *LeagueRepository) ReplaceChallenges(ctx context.Context, leagueID string, selections []league.Selection, updatedAt time.Time) error {
	defer r.cache.Delete(ctx, leagueKey(leagueID))
	return r.Repository.ReplaceChallenges(ctx, leagueID, selections, updatedAt)
}

func (r *LeagueRepository) Complete(ctx context.Context, leagueID string, at time.Time) (league.League, error) {
	defer r.cache.Delete(ctx, leagueKey(leagueID))
	return r.Repository.Complete(ctx, leagueID, at)
}

func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	defer r.cache.Delete(ctx, leagueKey(leagueID))
	return r.Repository.Delete(ctx, leagueID)
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

func leagueKey(leagueID string) string {
	return "league:id:" + leagueID
}

// StandingRepository caches result rows per league. Any write for a league
// evicts its rows.
type StandingRepository struct {
	next  standing.Repository
	cache *basecache.Store
}

func NewStandingRepository(next standing.Repository, cache *basecache.Store) *StandingRepository {
	return &StandingRepository{next: next, cache: cache}
}

func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, results []standing.ChallengeResult) error {
	defer r.cache.Delete(ctx, resultsKey(leagueID))
	return r.next.ReplaceByLeague(ctx, leagueID, results)
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]standing.ChallengeResult, error) {
	v, err := r.cache.GetOrLoad(ctx, resultsKey(leagueID), func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]standing.ChallengeResult(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]standing.ChallengeResult)
	return append([]standing.ChallengeResult(nil), items...), nil
}

func (r *StandingRepository) DeleteByLeague(ctx context.Context, leagueID string) error {
	defer r.cache.Delete(ctx, resultsKey(leagueID))
	return r.next.DeleteByLeague(ctx, leagueID)
}

func resultsKey(leagueID string) string {
	return "results:league:" + leagueID
}
