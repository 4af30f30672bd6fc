package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/futalyst/internal/domain/league"
)

type leagueTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	Name            string     `db:"name"`
	Slug            string     `db:"slug"`
	AdminUserID     string     `db:"admin_user_id"`
	Code            string     `db:"code"`
	GameVersion     string     `db:"game_version"`
	MaxParticipants int        `db:"max_participants"`
	EndsAt          time.Time  `db:"ends_at"`
	Status          string     `db:"status"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	CompletedAt     *time.Time `db:"completed_at"`
}

type leagueInsertModel struct {
	PublicID        string    `db:"public_id"`
	Name            string    `db:"name"`
	Slug            string    `db:"slug"`
	AdminUserID     string    `db:"admin_user_id"`
	Code            string    `db:"code"`
	GameVersion     string    `db:"game_version"`
	MaxParticipants int       `db:"max_participants"`
	EndsAt          time.Time `db:"ends_at"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type leagueChallengeTableModel struct {
	LeagueID    string `db:"league_public_id"`
	ChallengeID string `db:"challenge_id"`
	Points      int    `db:"points"`
	Position    int    `db:"position"`
}

type leagueParticipantTableModel struct {
	LeagueID string         `db:"league_public_id"`
	UserID   string         `db:"user_id"`
	RunID    sql.NullString `db:"run_public_id"`
	JoinedAt time.Time      `db:"joined_at"`
}

type leagueInvitationTableModel struct {
	LeagueID    string     `db:"league_public_id"`
	UserID      string     `db:"user_id"`
	InvitedBy   string     `db:"invited_by"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	RespondedAt *time.Time `db:"responded_at"`
}

type runLinkTableModel struct {
	LeagueID string `db:"league_public_id"`
	UserID   string `db:"user_id"`
	RunID    string `db:"run_public_id"`
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:              row.PublicID,
		Name:            row.Name,
		Slug:            row.Slug,
		AdminUserID:     row.AdminUserID,
		Code:            row.Code,
		GameVersion:     row.GameVersion,
		MaxParticipants: row.MaxParticipants,
		EndsAt:          row.EndsAt.UTC(),
		Status:          league.Status(row.Status),
		CreatedAt:       row.CreatedAt.UTC(),
		UpdatedAt:       row.UpdatedAt.UTC(),
		CompletedAt:     utcTimePtr(row.CompletedAt),
	}
}

func leagueInsertFromDomain(l league.League) leagueInsertModel {
	status := l.Status
	if status == "" {
		status = league.StatusActive
	}
	return leagueInsertModel{
		PublicID:        l.ID,
		Name:            l.Name,
		Slug:            l.Slug,
		AdminUserID:     l.AdminUserID,
		Code:            l.Code,
		GameVersion:     l.GameVersion,
		MaxParticipants: l.MaxParticipants,
		EndsAt:          l.EndsAt,
		Status:          string(status),
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

func challengeRowsFromSelections(leagueID string, selections []league.Selection) []leagueChallengeTableModel {
	rows := make([]leagueChallengeTableModel, 0, len(selections))
	for i, sel := range selections {
		rows = append(rows, leagueChallengeTableModel{
			LeagueID:    leagueID,
			ChallengeID: sel.ChallengeID,
			Points:      sel.Points,
			Position:    i,
		})
	}
	return rows
}

func participantFromRow(row leagueParticipantTableModel) league.Participant {
	return league.Participant{
		LeagueID: row.LeagueID,
		UserID:   row.UserID,
		RunID:    nullStringToPtr(row.RunID),
		JoinedAt: row.JoinedAt.UTC(),
	}
}

func participantInsertFromDomain(p league.Participant) leagueParticipantTableModel {
	return leagueParticipantTableModel{
		LeagueID: p.LeagueID,
		UserID:   p.UserID,
		RunID:    ptrToNullString(p.RunID),
		JoinedAt: p.JoinedAt,
	}
}

func invitationFromRow(row leagueInvitationTableModel) league.Invitation {
	return league.Invitation{
		LeagueID:    row.LeagueID,
		UserID:      row.UserID,
		InvitedBy:   row.InvitedBy,
		Status:      league.InvitationStatus(row.Status),
		CreatedAt:   row.CreatedAt.UTC(),
		RespondedAt: utcTimePtr(row.RespondedAt),
	}
}

func invitationInsertFromDomain(inv league.Invitation) leagueInvitationTableModel {
	status := inv.Status
	if status == "" {
		status = league.InvitationPending
	}
	return leagueInvitationTableModel{
		LeagueID:    inv.LeagueID,
		UserID:      inv.UserID,
		InvitedBy:   inv.InvitedBy,
		Status:      string(status),
		CreatedAt:   inv.CreatedAt,
		RespondedAt: inv.RespondedAt,
	}
}
