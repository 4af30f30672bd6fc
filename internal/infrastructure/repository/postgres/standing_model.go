package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/standing"
)

type challengeResultTableModel struct {
	LeagueID      string          `db:"league_public_id"`
	ChallengeID   string          `db:"challenge_id"`
	UserID        string          `db:"user_id"`
	PointsAwarded int             `db:"points_awarded"`
	Value         sql.NullFloat64 `db:"value"`
	Rank          int             `db:"rank"`
	AchievedAt    *time.Time      `db:"achieved_at"`
	EvaluatedAt   time.Time       `db:"evaluated_at"`
}

func resultFromRow(row challengeResultTableModel) standing.ChallengeResult {
	return standing.ChallengeResult{
		LeagueID:      row.LeagueID,
		ChallengeID:   row.ChallengeID,
		UserID:        row.UserID,
		PointsAwarded: row.PointsAwarded,
		Value:         nullFloat64ToPtr(row.Value),
		Rank:          row.Rank,
		AchievedAt:    utcTimePtr(row.AchievedAt),
		EvaluatedAt:   row.EvaluatedAt.UTC(),
	}
}

func resultInsertFromDomain(leagueID string, result standing.ChallengeResult) challengeResultTableModel {
	return challengeResultTableModel{
		LeagueID:      leagueID,
		ChallengeID:   result.ChallengeID,
		UserID:        result.UserID,
		PointsAwarded: result.PointsAwarded,
		Value:         ptrToNullFloat64(result.Value),
		Rank:          result.Rank,
		AchievedAt:    result.AchievedAt,
		EvaluatedAt:   result.EvaluatedAt,
	}
}
