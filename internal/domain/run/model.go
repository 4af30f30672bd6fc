package run

import (
	"sort"
	"time"
)

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	OutcomeLoss Outcome = "loss"
)

// Run is one weekly competitive cycle recorded by a user. Runs are owned by
// the game tracking feature; leagues only read them.
type Run struct {
	ID          string
	UserID      string
	GameVersion string
	Title       string
	WeekStart   time.Time
	CreatedAt   time.Time
	Games       []Game
}

type Game struct {
	ID              string
	RunID           string
	Number          int
	PlayedAt        time.Time
	Outcome         Outcome
	GoalsScored     int
	GoalsConceded   int
	Shots           int
	ShotsOnTarget   int
	Possession      float64
	Passes          int
	PassesCompleted int
	XGFor           float64
	XGAgainst       float64
	YellowCards     int
	RedCards        int
	Formation       string
	ExtraTime       bool
	Penalties       bool
}

func (g Game) Won() bool {
	return g.Outcome == OutcomeWin
}

// OrderedGames returns a copy of the games sorted by play time, falling back
// to the game number when timestamps are equal or missing.
func (r Run) OrderedGames() []Game {
	out := append([]Game(nil), r.Games...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PlayedAt.Equal(out[j].PlayedAt) {
			return out[i].PlayedAt.Before(out[j].PlayedAt)
		}
		return out[i].Number < out[j].Number
	})
	return out
}
