package postgres

import (
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/run"
)

type runTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	UserID      string    `db:"user_id"`
	GameVersion string    `db:"game_version"`
	Title       string    `db:"title"`
	WeekStart   time.Time `db:"week_start"`
	CreatedAt   time.Time `db:"created_at"`
}

type runGameTableModel struct {
	PublicID        string    `db:"public_id"`
	RunID           string    `db:"run_public_id"`
	Number          int       `db:"number"`
	PlayedAt        time.Time `db:"played_at"`
	Outcome         string    `db:"outcome"`
	GoalsScored     int       `db:"goals_scored"`
	GoalsConceded   int       `db:"goals_conceded"`
	Shots           int       `db:"shots"`
	ShotsOnTarget   int       `db:"shots_on_target"`
	Possession      float64   `db:"possession"`
	Passes          int       `db:"passes"`
	PassesCompleted int       `db:"passes_completed"`
	XGFor           float64   `db:"xg_for"`
	XGAgainst       float64   `db:"xg_against"`
	YellowCards     int       `db:"yellow_cards"`
	RedCards        int       `db:"red_cards"`
	Formation       string    `db:"formation"`
	ExtraTime       bool      `db:"extra_time"`
	Penalties       bool      `db:"penalties"`
}

func runFromRow(row runTableModel, games []runGameTableModel) run.Run {
	out := run.Run{
		ID:          row.PublicID,
		UserID:      row.UserID,
		GameVersion: row.GameVersion,
		Title:       row.Title,
		WeekStart:   row.WeekStart.UTC(),
		CreatedAt:   row.CreatedAt.UTC(),
		Games:       make([]run.Game, 0, len(games)),
	}
	for _, g := range games {
		out.Games = append(out.Games, run.Game{
			ID:              g.PublicID,
			RunID:           g.RunID,
			Number:          g.Number,
			PlayedAt:        g.PlayedAt.UTC(),
			Outcome:         run.Outcome(g.Outcome),
			GoalsScored:     g.GoalsScored,
			GoalsConceded:   g.GoalsConceded,
			Shots:           g.Shots,
			ShotsOnTarget:   g.ShotsOnTarget,
			Possession:      g.Possession,
			Passes:          g.Passes,
			PassesCompleted: g.PassesCompleted,
			XGFor:           g.XGFor,
			XGAgainst:       g.XGAgainst,
			YellowCards:     g.YellowCards,
			RedCards:        g.RedCards,
			Formation:       g.Formation,
			ExtraTime:       g.ExtraTime,
			Penalties:       g.Penalties,
		})
	}
	return out
}
