package challenge

import (
	"github.com/riskibarqy/futalyst/internal/domain/run"
)

type Aggregation string

const (
	AggregateSum      Aggregation = "sum"
	AggregateAvg      Aggregation = "avg"
	AggregateMax      Aggregation = "max"
	AggregateMin      Aggregation = "min"
	AggregateDistinct Aggregation = "distinct"
	// AggregateStreak is the longest run of consecutive games with a positive value.
	AggregateStreak Aggregation = "streak"
)

// Metric derives one statistic from a run. Game extracts the per-game value
// used by singleGame conditions and by the numeric aggregations; Label is
// the grouping key for distinct aggregations.
type Metric struct {
	Key         string
	Aggregation Aggregation
	Game        func(run.Game) float64
	Label       func(run.Game) string
}

// SupportsSingleGame reports whether the metric has a meaningful per-game value.
func (m Metric) SupportsSingleGame() bool {
	return m.Aggregation != AggregateDistinct && m.Aggregation != AggregateStreak
}

// Aggregate folds the metric over games, which must already be in play order.
// It returns false when there is nothing to aggregate.
func (m Metric) Aggregate(games []run.Game) (float64, bool) {
	if len(games) == 0 {
		return 0, false
	}

	switch m.Aggregation {
	case AggregateDistinct:
		seen := make(map[string]struct{}, len(games))
		for _, g := range games {
			label := m.Label(g)
			if label == "" {
				continue
			}
			seen[label] = struct{}{}
		}
		return float64(len(seen)), true
	case AggregateStreak:
		best, current := 0, 0
		for _, g := range games {
			if m.Game(g) > 0 {
				current++
				if current > best {
					best = current
				}
				continue
			}
			current = 0
		}
		return float64(best), true
	}

	total := 0.0
	extreme := m.Game(games[0])
	for _, g := range games {
		v := m.Game(g)
		total += v
		switch m.Aggregation {
		case AggregateMax:
			if v > extreme {
				extreme = v
			}
		case AggregateMin:
			if v < extreme {
				extreme = v
			}
		}
	}

	switch m.Aggregation {
	case AggregateAvg:
		return total / float64(len(games)), true
	case AggregateMax, AggregateMin:
		return extreme, true
	default:
		return total, true
	}
}

// metrics is built by its initializer so package-level values that depend
// on it, such as the default catalog, always see a full registry.
var metrics = buildMetrics()

func buildMetrics() map[string]Metric {
	out := map[string]Metric{}
	register := func(key string, agg Aggregation, game func(run.Game) float64) {
		out[key] = Metric{Key: key, Aggregation: agg, Game: game}
	}

	register("gamesPlayed", AggregateSum, func(run.Game) float64 { return 1 })
	register("totalWins", AggregateSum, func(g run.Game) float64 { return boolValue(g.Won()) })
	register("totalDraws", AggregateSum, func(g run.Game) float64 { return boolValue(g.Outcome == run.OutcomeDraw) })
	register("totalLosses", AggregateSum, func(g run.Game) float64 { return boolValue(g.Outcome == run.OutcomeLoss) })
	register("totalGoalsScored", AggregateSum, func(g run.Game) float64 { return float64(g.GoalsScored) })
	register("totalGoalsConceded", AggregateSum, func(g run.Game) float64 { return float64(g.GoalsConceded) })
	register("avgGoalsScored", AggregateAvg, func(g run.Game) float64 { return float64(g.GoalsScored) })
	register("avgGoalsConceded", AggregateAvg, func(g run.Game) float64 { return float64(g.GoalsConceded) })
	register("goalDifference", AggregateSum, goalMargin)
	register("maxGoalMargin", AggregateMax, goalMargin)
	register("maxGoalsInGame", AggregateMax, func(g run.Game) float64 { return float64(g.GoalsScored) })
	register("cleanSheets", AggregateSum, func(g run.Game) float64 { return boolValue(g.GoalsConceded == 0) })
	register("totalShots", AggregateSum, func(g run.Game) float64 { return float64(g.Shots) })
	register("totalShotsOnTarget", AggregateSum, func(g run.Game) float64 { return float64(g.ShotsOnTarget) })
	register("avgShotAccuracy", AggregateAvg, shotAccuracy)
	register("avgPossession", AggregateAvg, func(g run.Game) float64 { return g.Possession })
	register("totalPasses", AggregateSum, func(g run.Game) float64 { return float64(g.Passes) })
	register("avgPassAccuracy", AggregateAvg, passAccuracy)
	register("totalXG", AggregateSum, func(g run.Game) float64 { return g.XGFor })
	register("totalXGAgainst", AggregateSum, func(g run.Game) float64 { return g.XGAgainst })
	register("xgOverperformance", AggregateSum, func(g run.Game) float64 { return float64(g.GoalsScored) - g.XGFor })
	register("totalYellowCards", AggregateSum, func(g run.Game) float64 { return float64(g.YellowCards) })
	register("totalRedCards", AggregateSum, func(g run.Game) float64 { return float64(g.RedCards) })
	register("extraTimeGames", AggregateSum, func(g run.Game) float64 { return boolValue(g.ExtraTime) })
	register("penaltyWins", AggregateSum, func(g run.Game) float64 { return boolValue(g.Penalties && g.Won()) })
	register("highScoringWins", AggregateSum, func(g run.Game) float64 { return boolValue(g.Won() && g.GoalsScored >= 5) })
	register("longestWinStreak", AggregateStreak, func(g run.Game) float64 { return boolValue(g.Won()) })

	out["distinctFormations"] = Metric{
		Key:         "distinctFormations",
		Aggregation: AggregateDistinct,
		Game:        func(run.Game) float64 { return 1 },
		Label:       func(g run.Game) string { return g.Formation },
	}
	return out
}

// LookupMetric returns the registered metric for key.
func LookupMetric(key string) (Metric, bool) {
	m, ok := metrics[key]
	return m, ok
}

func goalMargin(g run.Game) float64 {
	return float64(g.GoalsScored - g.GoalsConceded)
}

func shotAccuracy(g run.Game) float64 {
	if g.Shots <= 0 {
		return 0
	}
	return float64(g.ShotsOnTarget) / float64(g.Shots) * 100
}

func passAccuracy(g run.Game) float64 {
	if g.Passes <= 0 {
		return 0
	}
	return float64(g.PassesCompleted) / float64(g.Passes) * 100
}

func boolValue(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
