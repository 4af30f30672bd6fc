package challenge

import (
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/run"
)

// Entry is one participant's contribution to an evaluation. Run is nil when
// the participant has not linked a run.
type Entry struct {
	UserID   string
	JoinedAt time.Time
	Run      *run.Run
}

// Outcome is the evaluation result for one entry. Value is nil when the entry
// produced no measurable value and Rank is 0 when the entry is unranked.
type Outcome struct {
	UserID     string
	Points     int
	Value      *float64
	Rank       int
	AchievedAt *time.Time
}

// Evaluator scores every entry for a single challenge. Implementations return
// exactly one outcome per entry, in entry order, and are pure.
type Evaluator interface {
	Evaluate(points int, entries []Entry) []Outcome
}

// Competitive awards points to every entry tied for first place on Metric.
// With descending order a leading value of zero awards nothing: a "most X"
// challenge is not won by having none of X.
type Competitive struct {
	Metric   Metric
	Order    Order
	MinGames int
}

// Binary awards points to every entry satisfying all Conditions.
type Binary struct {
	Conditions []Condition
	MinGames   int
}

// FirstToAchieve awards points to the single entry that reached Target first.
type FirstToAchieve struct {
	Target   []Condition
	MinGames int
}

// EvaluatorFor resolves the evaluation strategy declared by ch.
func EvaluatorFor(ch Challenge) (Evaluator, error) {
	if err := Validate(ch); err != nil {
		return nil, err
	}

	switch ch.EvaluationType {
	case EvaluationCompetitive:
		metric, _ := LookupMetric(ch.Metric)
		order := ch.Order
		if order == "" {
			order = OrderDesc
		}
		return Competitive{Metric: metric, Order: order, MinGames: ch.minGames()}, nil
	case EvaluationBinary:
		return Binary{Conditions: append([]Condition(nil), ch.Conditions...), MinGames: ch.minGames()}, nil
	case EvaluationFirstToAchieve:
		return FirstToAchieve{Target: ch.TargetConditions(), MinGames: ch.minGames()}, nil
	default:
		return nil, fmt.Errorf("%w: %s has unknown evaluation type %q", ErrInvalidChallenge, ch.ID, ch.EvaluationType)
	}
}

// Evaluate scores entries against ch using points as the award.
func Evaluate(ch Challenge, points int, entries []Entry) ([]Outcome, error) {
	evaluator, err := EvaluatorFor(ch)
	if err != nil {
		return nil, err
	}
	return evaluator.Evaluate(points, entries), nil
}

func (c Competitive) Evaluate(points int, entries []Entry) []Outcome {
	outcomes := newOutcomes(entries)

	ranked := make([]int, 0, len(entries))
	values := make([]float64, len(entries))
	for i, entry := range entries {
		games := eligibleGames(entry, c.MinGames)
		if games == nil {
			continue
		}
		v, ok := c.Metric.Aggregate(games)
		if !ok {
			continue
		}
		values[i] = v
		value := v
		outcomes[i].Value = &value
		ranked = append(ranked, i)
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		va, vb := values[ranked[a]], values[ranked[b]]
		if c.Order == OrderAsc {
			return va < vb
		}
		return va > vb
	})

	award := len(ranked) > 0 && (c.Order == OrderAsc || values[ranked[0]] != 0)

	// competition ranking: tied values share a rank and the next rank skips.
	for pos, idx := range ranked {
		rank := pos + 1
		if pos > 0 && OpEqual.Apply(values[idx], values[ranked[pos-1]]) {
			rank = outcomes[ranked[pos-1]].Rank
		}
		outcomes[idx].Rank = rank
		if rank == 1 && award {
			outcomes[idx].Points = points
		}
	}

	return outcomes
}

func (b Binary) Evaluate(points int, entries []Entry) []Outcome {
	outcomes := newOutcomes(entries)
	totals, perGame := splitConditions(b.Conditions)

	for i, entry := range entries {
		games := eligibleGames(entry, b.MinGames)
		if games == nil {
			continue
		}
		if !holdsOnTotals(totals, games) {
			continue
		}
		if len(perGame) == 0 {
			outcomes[i].Points = points
			outcomes[i].Rank = 1
			continue
		}
		for _, g := range games {
			if holdsOnGame(perGame, g) {
				at := g.PlayedAt
				outcomes[i].Points = points
				outcomes[i].Rank = 1
				outcomes[i].AchievedAt = &at
				break
			}
		}
	}

	return outcomes
}

func (f FirstToAchieve) Evaluate(points int, entries []Entry) []Outcome {
	outcomes := newOutcomes(entries)
	totals, perGame := splitConditions(f.Target)

	type achiever struct {
		idx int
		at  time.Time
	}
	achievers := make([]achiever, 0, len(entries))

	for i, entry := range entries {
		if entry.Run == nil {
			continue
		}
		games := entry.Run.OrderedGames()
		singleSeen := len(perGame) == 0
		for n := range games {
			if !singleSeen && holdsOnGame(perGame, games[n]) {
				singleSeen = true
			}
			prefix := games[:n+1]
			if len(prefix) < f.MinGames || !singleSeen {
				continue
			}
			if holdsOnTotals(totals, prefix) {
				at := games[n].PlayedAt
				outcomes[i].AchievedAt = &at
				achievers = append(achievers, achiever{idx: i, at: at})
				break
			}
		}
	}

	sort.SliceStable(achievers, func(a, b int) bool {
		ea, eb := entries[achievers[a].idx], entries[achievers[b].idx]
		if !achievers[a].at.Equal(achievers[b].at) {
			return achievers[a].at.Before(achievers[b].at)
		}
		if !ea.JoinedAt.Equal(eb.JoinedAt) {
			return ea.JoinedAt.Before(eb.JoinedAt)
		}
		return ea.UserID < eb.UserID
	})

	for pos, a := range achievers {
		outcomes[a.idx].Rank = pos + 1
		if pos == 0 {
			outcomes[a.idx].Points = points
		}
	}

	return outcomes
}

func newOutcomes(entries []Entry) []Outcome {
	out := make([]Outcome, len(entries))
	for i, entry := range entries {
		out[i] = Outcome{UserID: entry.UserID}
	}
	return out
}

// eligibleGames returns the ordered games of an entry, or nil when the entry
// has no run or fewer than minGames games.
func eligibleGames(entry Entry, minGames int) []run.Game {
	if entry.Run == nil || len(entry.Run.Games) == 0 {
		return nil
	}
	if len(entry.Run.Games) < minGames {
		return nil
	}
	return entry.Run.OrderedGames()
}

func splitConditions(conds []Condition) (totals, perGame []Condition) {
	for _, c := range conds {
		if c.Scope == ScopeSingleGame {
			perGame = append(perGame, c)
			continue
		}
		totals = append(totals, c)
	}
	return totals, perGame
}

func holdsOnTotals(conds []Condition, games []run.Game) bool {
	for _, c := range conds {
		metric, ok := LookupMetric(c.Metric)
		if !ok {
			return false
		}
		v, ok := metric.Aggregate(games)
		if !ok || !c.Operator.Apply(v, c.Value) {
			return false
		}
	}
	return true
}

func holdsOnGame(conds []Condition, g run.Game) bool {
	for _, c := range conds {
		metric, ok := LookupMetric(c.Metric)
		if !ok || !metric.SupportsSingleGame() {
			return false
		}
		if !c.Operator.Apply(metric.Game(g), c.Value) {
			return false
		}
	}
	return true
}
