package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
	qb "github.com/riskibarqy/futalyst/internal/platform/querybuilder"
)

const upsertChallengeResultSuffix = `ON CONFLICT (league_public_id, challenge_id, user_id) DO UPDATE SET
	points_awarded = EXCLUDED.points_awarded,
	value = EXCLUDED.value,
	rank = EXCLUDED.rank,
	achieved_at = EXCLUDED.achieved_at,
	evaluated_at = EXCLUDED.evaluated_at`

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

// ReplaceByLeague holds the league row lock while it upserts and prunes, so a
// concurrent completion either waits for it or freezes the league first.
func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, results []standing.ChallengeResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace league results: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := lockActiveLeague(ctx, tx, leagueID); err != nil {
		if errors.Is(err, league.ErrLeagueInactive) {
			return standing.ErrFrozen
		}
		return err
	}

	if len(results) > 0 {
		rows := make([]challengeResultTableModel, 0, len(results))
		for _, result := range results {
			rows = append(rows, resultInsertFromDomain(leagueID, result))
		}
		query, args, err := qb.InsertModels("challenge_results", rows, upsertChallengeResultSuffix)
		if err != nil {
			return fmt.Errorf("build upsert league results query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert league results: %w", err)
		}
	}

	query, args, err := qb.DeleteFrom("challenge_results").
		Where(pruneConditions(leagueID, results)...).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build prune league results query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune league results: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace league results tx: %w", err)
	}
	return nil
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]standing.ChallengeResult, error) {
	query, args, err := qb.Select("*").From("challenge_results").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("challenge_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league results query: %w", err)
	}

	var rows []challengeResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list league results: %w", err)
	}

	out := make([]standing.ChallengeResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, resultFromRow(row))
	}
	return out, nil
}

func (r *StandingRepository) DeleteByLeague(ctx context.Context, leagueID string) error {
	query, args, err := qb.DeleteFrom("challenge_results").
		Where(qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league results query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete league results: %w", err)
	}
	return nil
}

// pruneConditions matches every stored row of the league that is not part of
// results.
func pruneConditions(leagueID string, results []standing.ChallengeResult) []qb.Condition {
	conditions := []qb.Condition{qb.Eq("league_public_id", leagueID)}
	if len(results) == 0 {
		return conditions
	}

	var expr strings.Builder
	args := make([]any, 0, len(results)*2)
	expr.WriteString("(challenge_id, user_id) NOT IN (")
	for i, result := range results {
		if i > 0 {
			expr.WriteString(", ")
		}
		expr.WriteString("(?, ?)")
		args = append(args, result.ChallengeID, result.UserID)
	}
	expr.WriteString(")")
	return append(conditions, qb.Expr(expr.String(), args...))
}
