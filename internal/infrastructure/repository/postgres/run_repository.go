package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	qb "github.com/riskibarqy/futalyst/internal/platform/querybuilder"
)

var runGameColumns = []string{
	"public_id", "run_public_id", "number", "played_at", "outcome",
	"goals_scored", "goals_conceded", "shots", "shots_on_target", "possession",
	"passes", "passes_completed", "xg_for", "xg_against", "yellow_cards",
	"red_cards", "formation", "extra_time", "penalties",
}

// RunRepository reads runs recorded by the tracking feature. Leagues never
// write runs; Delete is the only mutation.
type RunRepository struct {
	db *sqlx.DB
}

func NewRunRepository(db *sqlx.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) GetByID(ctx context.Context, runID string) (run.Run, bool, error) {
	query, args, err := qb.Select("*").From("runs").
		Where(qb.Eq("public_id", runID)).
		ToSQL()
	if err != nil {
		return run.Run{}, false, fmt.Errorf("build get run by id query: %w", err)
	}

	var row runTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return run.Run{}, false, nil
		}
		return run.Run{}, false, fmt.Errorf("get run by id: %w", err)
	}

	items, err := r.withGames(ctx, []runTableModel{row})
	if err != nil {
		return run.Run{}, false, err
	}
	return items[0], true, nil
}

func (r *RunRepository) ListByUser(ctx context.Context, userID string) ([]run.Run, error) {
	query, args, err := qb.Select("*").From("runs").
		Where(qb.Eq("user_id", userID)).
		OrderBy("week_start DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list runs by user query: %w", err)
	}

	var rows []runTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list runs by user: %w", err)
	}
	return r.withGames(ctx, rows)
}

// Delete removes the run and its games unless an active league participant
// still links it. The run lock keeps a concurrent link from slipping in.
func (r *RunRepository) Delete(ctx context.Context, runID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx delete run: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := lockRun(ctx, tx, runID); err != nil {
		return fmt.Errorf("lock run: %w", err)
	}
	linked, err := hasActiveLink(ctx, tx, runID, "")
	if err != nil {
		return err
	}
	if linked {
		return run.ErrLinkedToActiveLeague
	}

	query, args, err := qb.DeleteFrom("runs").
		Where(qb.Eq("public_id", runID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete run query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete run tx: %w", err)
	}
	return nil
}

func (r *RunRepository) withGames(ctx context.Context, rows []runTableModel) ([]run.Run, error) {
	out := make([]run.Run, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}

	query, args, err := qb.Select(runGameColumns...).From("run_games").
		Where(qb.In("run_public_id", stringsToAny(ids))).
		OrderBy("run_public_id", "played_at", "number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list run games query: %w", err)
	}

	var games []runGameTableModel
	if err := r.db.SelectContext(ctx, &games, query, args...); err != nil {
		return nil, fmt.Errorf("list run games: %w", err)
	}

	byRun := make(map[string][]runGameTableModel, len(rows))
	for _, g := range games {
		byRun[g.RunID] = append(byRun[g.RunID], g)
	}
	for _, row := range rows {
		out = append(out, runFromRow(row, byRun[row.PublicID]))
	}
	return out, nil
}
