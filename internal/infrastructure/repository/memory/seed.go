package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/run"
)

const (
	SeedUserAlpha = "demo-user-alpha"
	SeedUserBravo = "demo-user-bravo"
	SeedVersion   = "fc25"
)

// SeedRuns returns deterministic demo runs used when no database is configured.
func SeedRuns() []run.Run {
	weekStart := time.Date(2025, 3, 7, 17, 0, 0, 0, time.UTC)
	return []run.Run{
		seedRun("run-alpha-w1", SeedUserAlpha, "Alpha week 1", weekStart, []seedGame{
			{run.OutcomeWin, 3, 0, "4-3-3"},
			{run.OutcomeWin, 2, 1, "4-3-3"},
			{run.OutcomeDraw, 1, 1, "4-2-3-1"},
			{run.OutcomeLoss, 0, 2, "4-3-3"},
			{run.OutcomeWin, 5, 4, "4-4-2"},
		}),
		seedRun("run-bravo-w1", SeedUserBravo, "Bravo week 1", weekStart, []seedGame{
			{run.OutcomeWin, 4, 0, "4-2-3-1"},
			{run.OutcomeWin, 2, 0, "4-2-3-1"},
			{run.OutcomeLoss, 1, 3, "4-2-3-1"},
			{run.OutcomeWin, 3, 2, "4-2-3-1"},
		}),
	}
}

type seedGame struct {
	outcome   run.Outcome
	scored    int
	conceded  int
	formation string
}

func seedRun(id, userID, title string, weekStart time.Time, games []seedGame) run.Run {
	item := run.Run{
		ID:          id,
		UserID:      userID,
		GameVersion: SeedVersion,
		Title:       title,
		WeekStart:   weekStart,
		CreatedAt:   weekStart,
		Games:       make([]run.Game, 0, len(games)),
	}
	for i, g := range games {
		item.Games = append(item.Games, run.Game{
			ID:              fmt.Sprintf("%s-g%02d", id, i+1),
			RunID:           id,
			Number:          i + 1,
			PlayedAt:        weekStart.Add(time.Duration(i) * 30 * time.Minute),
			Outcome:         g.outcome,
			GoalsScored:     g.scored,
			GoalsConceded:   g.conceded,
			Shots:           g.scored*3 + 4,
			ShotsOnTarget:   g.scored + 2,
			Possession:      50 + float64(g.scored-g.conceded)*4,
			Passes:          420 + i*10,
			PassesCompleted: 360 + i*8,
			XGFor:           float64(g.scored) * 0.85,
			XGAgainst:       float64(g.conceded) * 0.9,
			Formation:       g.formation,
		})
	}
	return item
}
