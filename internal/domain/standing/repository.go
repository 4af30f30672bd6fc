package standing

import "context"

// Repository stores challenge results. ReplaceByLeague upserts the given rows
// and prunes every other row of the league in one atomic step; it returns
// ErrFrozen when the league is completed.
type Repository interface {
	ReplaceByLeague(ctx context.Context, leagueID string, results []ChallengeResult) error
	ListByLeague(ctx context.Context, leagueID string) ([]ChallengeResult, error)
	DeleteByLeague(ctx context.Context, leagueID string) error
}
