package httpapi

import (
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/challenge"
	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
	"github.com/riskibarqy/futalyst/internal/usecase"
)

type selectionRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required"`
	Points      int    `json:"points" validate:"gte=0"`
}

type createLeagueRequest struct {
	Name       string             `json:"name" validate:"required,max=80"`
	EndsAt     time.Time          `json:"ends_at" validate:"required"`
	RunID      string             `json:"run_id"`
	Challenges []selectionRequest `json:"challenges" validate:"required,min=1,dive"`
	Invitees   []string           `json:"invitees" validate:"omitempty,dive,required"`
}

type replaceChallengesRequest struct {
	Challenges []selectionRequest `json:"challenges" validate:"required,min=1,dive"`
}

type joinLeagueRequest struct {
	Code  string `json:"code" validate:"required"`
	RunID string `json:"run_id"`
}

type linkRunRequest struct {
	RunID *string `json:"run_id"`
}

type acceptInvitationRequest struct {
	RunID string `json:"run_id"`
}

type completeLeagueJobRequest struct {
	LeagueID string `json:"league_id" validate:"required"`
}

type challengeDTO struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Points         int            `json:"points"`
	EvaluationType string         `json:"evaluation_type"`
	Metric         string         `json:"metric,omitempty"`
	Order          string         `json:"order,omitempty"`
	MinGames       int            `json:"min_games,omitempty"`
	Value          *float64       `json:"value,omitempty"`
	Conditions     []conditionDTO `json:"conditions,omitempty"`
}

type conditionDTO struct {
	Metric   string  `json:"metric"`
	Operator string  `json:"operator"`
	Value    float64 `json:"value"`
	Scope    string  `json:"scope"`
}

type catalogDTO struct {
	Version    string         `json:"version"`
	Challenges []challengeDTO `json:"challenges"`
}

type selectionDTO struct {
	ChallengeID string `json:"challenge_id"`
	Points      int    `json:"points"`
}

type leagueDTO struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	AdminUserID     string         `json:"admin_user_id"`
	Code            string         `json:"code"`
	GameVersion     string         `json:"game_version,omitempty"`
	MaxParticipants int            `json:"max_participants"`
	Status          string         `json:"status"`
	EndsAtUTC       string         `json:"ends_at_utc"`
	CreatedAtUTC    string         `json:"created_at_utc"`
	CompletedAtUTC  string         `json:"completed_at_utc,omitempty"`
	Challenges      []selectionDTO `json:"challenges"`
}

type participantDTO struct {
	UserID      string `json:"user_id"`
	RunID       string `json:"run_id,omitempty"`
	JoinedAtUTC string `json:"joined_at_utc"`
}

type leagueDetailDTO struct {
	leagueDTO
	Participants []participantDTO `json:"participants"`
}

type invitationDTO struct {
	LeagueID     string `json:"league_id"`
	InvitedBy    string `json:"invited_by"`
	Status       string `json:"status"`
	CreatedAtUTC string `json:"created_at_utc"`
}

type challengeResultDTO struct {
	ChallengeID    string   `json:"challenge_id"`
	UserID         string   `json:"user_id"`
	PointsAwarded  int      `json:"points_awarded"`
	Value          *float64 `json:"value,omitempty"`
	Rank           int      `json:"rank,omitempty"`
	AchievedAtUTC  string   `json:"achieved_at_utc,omitempty"`
	EvaluatedAtUTC string   `json:"evaluated_at_utc"`
}

type standingDTO struct {
	UserID        string `json:"user_id"`
	Points        int    `json:"points"`
	Rank          int    `json:"rank"`
	ChallengesWon int    `json:"challenges_won"`
}

type standingsDTO struct {
	LeagueID string        `json:"league_id"`
	Status   string        `json:"status"`
	Rows     []standingDTO `json:"rows"`
}

type runDTO struct {
	ID           string `json:"id"`
	GameVersion  string `json:"game_version"`
	Title        string `json:"title"`
	WeekStartUTC string `json:"week_start_utc"`
	Games        int    `json:"games"`
	Wins         int    `json:"wins"`
}

type completionResultDTO struct {
	Due       int `json:"due"`
	Completed int `json:"completed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

func selectionsFromRequest(items []selectionRequest) []league.Selection {
	out := make([]league.Selection, 0, len(items))
	for _, item := range items {
		out = append(out, league.Selection{ChallengeID: item.ChallengeID, Points: item.Points})
	}
	return out
}

func challengeToDTO(v challenge.Challenge) challengeDTO {
	conditions := make([]conditionDTO, 0, len(v.Conditions))
	for _, c := range v.Conditions {
		conditions = append(conditions, conditionDTO{
			Metric:   c.Metric,
			Operator: string(c.Operator),
			Value:    c.Value,
			Scope:    string(c.Scope),
		})
	}

	return challengeDTO{
		ID:             v.ID,
		Name:           v.Name,
		Description:    v.Description,
		Category:       string(v.Category),
		Points:         v.Points,
		EvaluationType: string(v.EvaluationType),
		Metric:         v.Metric,
		Order:          string(v.Order),
		MinGames:       v.MinGames,
		Value:          v.Value,
		Conditions:     conditions,
	}
}

func leagueToDTO(v league.League) leagueDTO {
	selections := make([]selectionDTO, 0, len(v.Challenges))
	for _, sel := range v.Challenges {
		selections = append(selections, selectionDTO{ChallengeID: sel.ChallengeID, Points: sel.Points})
	}

	return leagueDTO{
		ID:              v.ID,
		Name:            v.Name,
		Slug:            v.Slug,
		AdminUserID:     v.AdminUserID,
		Code:            v.Code,
		GameVersion:     v.GameVersion,
		MaxParticipants: v.MaxParticipants,
		Status:          string(v.Status),
		EndsAtUTC:       v.EndsAt.UTC().Format(time.RFC3339),
		CreatedAtUTC:    v.CreatedAt.UTC().Format(time.RFC3339),
		CompletedAtUTC:  formatOptionalTime(v.CompletedAt),
		Challenges:      selections,
	}
}

func participantToDTO(v league.Participant) participantDTO {
	return participantDTO{
		UserID:      v.UserID,
		RunID:       v.LinkedRunID(),
		JoinedAtUTC: v.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func leagueDetailToDTO(v usecase.LeagueDetail) leagueDetailDTO {
	participants := make([]participantDTO, 0, len(v.Participants))
	for _, p := range v.Participants {
		participants = append(participants, participantToDTO(p))
	}
	return leagueDetailDTO{leagueDTO: leagueToDTO(v.League), Participants: participants}
}

func invitationToDTO(v league.Invitation) invitationDTO {
	return invitationDTO{
		LeagueID:     v.LeagueID,
		InvitedBy:    v.InvitedBy,
		Status:       string(v.Status),
		CreatedAtUTC: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func resultsToDTO(items []standing.ChallengeResult) []challengeResultDTO {
	out := make([]challengeResultDTO, 0, len(items))
	for _, v := range items {
		out = append(out, challengeResultDTO{
			ChallengeID:    v.ChallengeID,
			UserID:         v.UserID,
			PointsAwarded:  v.PointsAwarded,
			Value:          v.Value,
			Rank:           v.Rank,
			AchievedAtUTC:  formatOptionalTime(v.AchievedAt),
			EvaluatedAtUTC: v.EvaluatedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func standingsToDTO(v usecase.StandingsView) standingsDTO {
	rows := make([]standingDTO, 0, len(v.Rows))
	for _, row := range v.Rows {
		rows = append(rows, standingDTO{
			UserID:        row.UserID,
			Points:        row.Points,
			Rank:          row.Rank,
			ChallengesWon: row.ChallengesWon,
		})
	}
	return standingsDTO{LeagueID: v.League.ID, Status: string(v.League.Status), Rows: rows}
}

func runToDTO(v run.Run) runDTO {
	wins := 0
	for _, g := range v.Games {
		if g.Won() {
			wins++
		}
	}
	return runDTO{
		ID:           v.ID,
		GameVersion:  v.GameVersion,
		Title:        v.Title,
		WeekStartUTC: v.WeekStart.UTC().Format(time.RFC3339),
		Games:        len(v.Games),
		Wins:         wins,
	}
}

func formatOptionalTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
