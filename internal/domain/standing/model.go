package standing

import (
	"errors"
	"sort"
	"time"
)

// ErrFrozen is returned when results are written for a completed league.
var ErrFrozen = errors.New("league results are frozen")

// ChallengeResult is the evaluator output for one (challenge, participant).
type ChallengeResult struct {
	LeagueID      string
	ChallengeID   string
	UserID        string
	PointsAwarded int
	Value         *float64
	Rank          int
	AchievedAt    *time.Time
	EvaluatedAt   time.Time
}

// Standing is one leaderboard row.
type Standing struct {
	LeagueID      string
	UserID        string
	Points        int
	Rank          int
	ChallengesWon int
}

// Aggregate sums awarded points per participant. Every user in userIDs gets a
// row even without results. Rows are sorted by points desc then user id asc
// and carry a dense rank so tied totals share a rank.
func Aggregate(leagueID string, userIDs []string, results []ChallengeResult) []Standing {
	byUser := make(map[string]*Standing, len(userIDs))
	order := make([]string, 0, len(userIDs))
	for _, userID := range userIDs {
		if _, exists := byUser[userID]; exists {
			continue
		}
		byUser[userID] = &Standing{LeagueID: leagueID, UserID: userID}
		order = append(order, userID)
	}

	for _, result := range results {
		row, ok := byUser[result.UserID]
		if !ok {
			// results of former participants are ignored.
			continue
		}
		row.Points += result.PointsAwarded
		if result.PointsAwarded > 0 {
			row.ChallengesWon++
		}
	}

	out := make([]Standing, 0, len(order))
	for _, userID := range order {
		out = append(out, *byUser[userID])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		return out[i].UserID < out[j].UserID
	})

	lastPoints := 0
	currentRank := 0
	for idx := range out {
		if idx == 0 || out[idx].Points != lastPoints {
			currentRank++
			lastPoints = out[idx].Points
		}
		out[idx].Rank = currentRank
	}

	return out
}
