package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/futalyst/internal/domain/league"
	qb "github.com/riskibarqy/futalyst/internal/platform/querybuilder"
)

const leaguesCodeConstraint = "leagues_code_key"

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League, admin league.Participant, invitations []league.Invitation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("leagues", leagueInsertFromDomain(l), "")
	if err != nil {
		return fmt.Errorf("build create league query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, leaguesCodeConstraint) {
			return league.ErrDuplicateCode
		}
		return fmt.Errorf("create league: %w", err)
	}

	if err := insertSelections(ctx, tx, l.ID, l.Challenges); err != nil {
		return err
	}

	if admin.RunID != nil {
		if err := lockRun(ctx, tx, *admin.RunID); err != nil {
			return fmt.Errorf("lock admin run: %w", err)
		}
		linked, err := hasActiveLink(ctx, tx, *admin.RunID, l.ID)
		if err != nil {
			return err
		}
		if linked {
			return league.ErrRunLinked
		}
	}

	query, args, err = qb.InsertModel("league_participants", participantInsertFromDomain(admin), "")
	if err != nil {
		return fmt.Errorf("build insert admin participant query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert admin participant: %w", err)
	}

	if len(invitations) > 0 {
		rows := make([]leagueInvitationTableModel, 0, len(invitations))
		for _, inv := range invitations {
			rows = append(rows, invitationInsertFromDomain(inv))
		}
		query, args, err = qb.InsertModels("league_invitations", rows, "")
		if err != nil {
			return fmt.Errorf("build insert invitations query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert invitations: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create league tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, "id", qb.Eq("public_id", leagueID))
}

func (r *LeagueRepository) GetByCode(ctx context.Context, code string) (league.League, bool, error) {
	return r.getOne(ctx, "code", qb.Eq("code", code))
}

func (r *LeagueRepository) getOne(ctx context.Context, by string, cond qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").Where(cond).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by %s query: %w", by, err)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by %s: %w", by, err)
	}

	items, err := r.withChallenges(ctx, []leagueTableModel{row})
	if err != nil {
		return league.League{}, false, err
	}
	return items[0], true, nil
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	query, args, err := qb.Select("l.*").
		From("leagues l JOIN league_participants lp ON lp.league_public_id = l.public_id").
		Where(qb.Eq("lp.user_id", userID)).
		OrderBy("l.created_at DESC", "l.public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues by user query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}
	return r.withChallenges(ctx, rows)
}

func (r *LeagueRepository) ListDue(ctx context.Context, now time.Time) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("status", string(league.StatusActive)),
			qb.Lte("ends_at", now),
		).
		OrderBy("ends_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list due leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list due leagues: %w", err)
	}
	return r.withChallenges(ctx, rows)
}

func (r *LeagueRepository) ReplaceChallenges(ctx context.Context, leagueID string, selections []league.Selection, updatedAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace league challenges: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := lockActiveLeague(ctx, tx, leagueID); err != nil {
		return err
	}

	query, args, err := qb.DeleteFrom("league_challenges").
		Where(qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league challenges query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete league challenges: %w", err)
	}

	if err := insertSelections(ctx, tx, leagueID, selections); err != nil {
		return err
	}

	query, args, err = qb.Update("leagues").
		Set("updated_at", updatedAt).
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build touch league query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("touch league: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace league challenges tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) Complete(ctx context.Context, leagueID string, at time.Time) (league.League, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return league.League{}, fmt.Errorf("begin tx complete league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := lockActiveLeague(ctx, tx, leagueID); err != nil {
		return league.League{}, err
	}

	query, args, err := qb.Update("leagues").
		Set("status", string(league.StatusCompleted)).
		Set("completed_at", at).
		Set("updated_at", at).
		Where(qb.Eq("public_id", leagueID)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return league.League{}, fmt.Errorf("build complete league query: %w", err)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, tx, &row, query, args...); err != nil {
		return league.League{}, fmt.Errorf("complete league: %w", err)
	}

	items, err := loadWithChallenges(ctx, tx, []leagueTableModel{row})
	if err != nil {
		return league.League{}, err
	}

	if err := tx.Commit(); err != nil {
		return league.League{}, fmt.Errorf("commit complete league tx: %w", err)
	}
	return items[0], nil
}

// Delete relies on ON DELETE CASCADE for challenges, participants,
// invitations and results.
func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	query, args, err := qb.DeleteFrom("leagues").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete league: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected delete league: %w", err)
	}
	if affected == 0 {
		return league.ErrLeagueNotFound
	}
	return nil
}

func (r *LeagueRepository) Join(ctx context.Context, p league.Participant) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx join league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row, err := lockActiveLeague(ctx, tx, p.LeagueID)
	if err != nil {
		return err
	}

	exists, err := participantExists(ctx, tx, p.LeagueID, p.UserID)
	if err != nil {
		return err
	}
	if exists {
		return league.ErrAlreadyParticipant
	}

	count, err := countParticipants(ctx, tx, p.LeagueID)
	if err != nil {
		return err
	}
	if count >= capacity(row.MaxParticipants) {
		return league.ErrLeagueFull
	}

	if p.RunID != nil {
		if err := lockRun(ctx, tx, *p.RunID); err != nil {
			return fmt.Errorf("lock joining run: %w", err)
		}
		linked, err := hasActiveLink(ctx, tx, *p.RunID, p.LeagueID)
		if err != nil {
			return err
		}
		if linked {
			return league.ErrRunLinked
		}
	}

	query, args, err := qb.InsertModel("league_participants", participantInsertFromDomain(p), "")
	if err != nil {
		return fmt.Errorf("build insert participant query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, "") {
			return league.ErrAlreadyParticipant
		}
		return fmt.Errorf("insert participant: %w", err)
	}

	query, args, err = qb.Update("league_invitations").
		Set("status", string(league.InvitationAccepted)).
		Set("responded_at", p.JoinedAt).
		Where(
			qb.Eq("league_public_id", p.LeagueID),
			qb.Eq("user_id", p.UserID),
			qb.Eq("status", string(league.InvitationPending)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build accept invitation query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("accept invitation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit join league tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) RemoveParticipant(ctx context.Context, leagueID, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx remove participant: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := lockActiveLeague(ctx, tx, leagueID); err != nil {
		return err
	}

	query, args, err := qb.DeleteFrom("league_participants").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build remove participant query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected remove participant: %w", err)
	}
	if affected == 0 {
		return league.ErrNotParticipant
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit remove participant tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetParticipant(ctx context.Context, leagueID, userID string) (league.Participant, bool, error) {
	query, args, err := qb.Select("league_public_id", "user_id", "run_public_id", "joined_at").
		From("league_participants").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return league.Participant{}, false, fmt.Errorf("build get participant query: %w", err)
	}

	var row leagueParticipantTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Participant{}, false, nil
		}
		return league.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}
	return participantFromRow(row), true, nil
}

func (r *LeagueRepository) ListParticipants(ctx context.Context, leagueID string) ([]league.Participant, error) {
	query, args, err := qb.Select("league_public_id", "user_id", "run_public_id", "joined_at").
		From("league_participants").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("joined_at", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list participants query: %w", err)
	}

	var rows []leagueParticipantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	out := make([]league.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participantFromRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) LinkRun(ctx context.Context, leagueID, userID string, runID *string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx link run: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := lockActiveLeague(ctx, tx, leagueID); err != nil {
		return err
	}

	if runID != nil {
		if err := lockRun(ctx, tx, *runID); err != nil {
			return fmt.Errorf("lock linked run: %w", err)
		}
		linked, err := hasActiveLink(ctx, tx, *runID, leagueID)
		if err != nil {
			return err
		}
		if linked {
			return league.ErrRunLinked
		}
	}

	query, args, err := qb.Update("league_participants").
		Set("run_public_id", ptrToNullString(runID)).
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build link run query: %w", err)
	}
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("link run: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected link run: %w", err)
	}
	if affected == 0 {
		return league.ErrNotParticipant
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit link run tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) FindActiveLinks(ctx context.Context, runID string) ([]league.RunLink, error) {
	query, args, err := qb.Select("lp.league_public_id", "lp.user_id", "lp.run_public_id").
		From("league_participants lp JOIN leagues l ON l.public_id = lp.league_public_id").
		Where(
			qb.Eq("lp.run_public_id", runID),
			qb.Eq("l.status", string(league.StatusActive)),
		).
		OrderBy("lp.league_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build find active run links query: %w", err)
	}

	var rows []runLinkTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("find active run links: %w", err)
	}

	out := make([]league.RunLink, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.RunLink{LeagueID: row.LeagueID, UserID: row.UserID, RunID: row.RunID})
	}
	return out, nil
}

func (r *LeagueRepository) ClearRunLinks(ctx context.Context, runID string) error {
	query, args, err := qb.Update("league_participants").
		Set("run_public_id", nil).
		Where(
			qb.Eq("run_public_id", runID),
			qb.Expr("league_public_id IN (SELECT public_id FROM leagues WHERE status = ?)", string(league.StatusCompleted)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear run links query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear run links: %w", err)
	}
	return nil
}

func (r *LeagueRepository) ListInvitationsByUser(ctx context.Context, userID string, status league.InvitationStatus) ([]league.Invitation, error) {
	conditions := []qb.Condition{qb.Eq("user_id", userID)}
	if status != "" {
		conditions = append(conditions, qb.Eq("status", string(status)))
	}
	query, args, err := qb.Select("*").From("league_invitations").
		Where(conditions...).
		OrderBy("created_at DESC", "league_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list invitations by user query: %w", err)
	}

	var rows []leagueInvitationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list invitations by user: %w", err)
	}

	out := make([]league.Invitation, 0, len(rows))
	for _, row := range rows {
		out = append(out, invitationFromRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) GetInvitation(ctx context.Context, leagueID, userID string) (league.Invitation, bool, error) {
	query, args, err := qb.Select("*").From("league_invitations").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return league.Invitation{}, false, fmt.Errorf("build get invitation query: %w", err)
	}

	var row leagueInvitationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.Invitation{}, false, nil
		}
		return league.Invitation{}, false, fmt.Errorf("get invitation: %w", err)
	}
	return invitationFromRow(row), true, nil
}

func (r *LeagueRepository) RespondInvitation(ctx context.Context, leagueID, userID string, status league.InvitationStatus, at time.Time) error {
	query, args, err := qb.Update("league_invitations").
		Set("status", string(status)).
		Set("responded_at", at).
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.Eq("status", string(league.InvitationPending)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build respond invitation query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("respond invitation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected respond invitation: %w", err)
	}
	if affected == 0 {
		return league.ErrInvitationNotFound
	}
	return nil
}

func (r *LeagueRepository) withChallenges(ctx context.Context, rows []leagueTableModel) ([]league.League, error) {
	return loadWithChallenges(ctx, r.db, rows)
}

// loadWithChallenges converts rows and attaches their challenge selections
// with a single query.
func loadWithChallenges(ctx context.Context, q dbtx, rows []leagueTableModel) ([]league.League, error) {
	out := make([]league.League, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}

	query, args, err := qb.Select("league_public_id", "challenge_id", "points", "position").
		From("league_challenges").
		Where(qb.In("league_public_id", stringsToAny(ids))).
		OrderBy("league_public_id", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league challenges query: %w", err)
	}

	var challengeRows []leagueChallengeTableModel
	if err := sqlx.SelectContext(ctx, q, &challengeRows, query, args...); err != nil {
		return nil, fmt.Errorf("list league challenges: %w", err)
	}

	byLeague := make(map[string][]league.Selection, len(rows))
	for _, row := range challengeRows {
		byLeague[row.LeagueID] = append(byLeague[row.LeagueID], league.Selection{
			ChallengeID: row.ChallengeID,
			Points:      row.Points,
		})
	}

	for _, row := range rows {
		item := leagueFromRow(row)
		item.Challenges = byLeague[row.PublicID]
		out = append(out, item)
	}
	return out, nil
}

func insertSelections(ctx context.Context, tx *sqlx.Tx, leagueID string, selections []league.Selection) error {
	if len(selections) == 0 {
		return nil
	}
	query, args, err := qb.InsertModels("league_challenges", challengeRowsFromSelections(leagueID, selections), "")
	if err != nil {
		return fmt.Errorf("build insert league challenges query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league challenges: %w", err)
	}
	return nil
}

// lockActiveLeague locks the league row for the rest of the transaction.
func lockActiveLeague(ctx context.Context, tx *sqlx.Tx, leagueID string) (leagueTableModel, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("public_id", leagueID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return leagueTableModel{}, fmt.Errorf("build lock league query: %w", err)
	}

	var row leagueTableModel
	if err := tx.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return leagueTableModel{}, league.ErrLeagueNotFound
		}
		return leagueTableModel{}, fmt.Errorf("lock league: %w", err)
	}
	if row.Status != string(league.StatusActive) {
		return leagueTableModel{}, league.ErrLeagueInactive
	}
	return row, nil
}

func participantExists(ctx context.Context, q dbtx, leagueID, userID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("league_participants").
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("user_id", userID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build participant exists query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, q, &count, query, args...); err != nil {
		return false, fmt.Errorf("participant exists: %w", err)
	}
	return count > 0, nil
}

func countParticipants(ctx context.Context, q dbtx, leagueID string) (int, error) {
	query, args, err := qb.Select("COUNT(1)").From("league_participants").
		Where(qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count participants query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, q, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return count, nil
}

// hasActiveLink reports whether runID is linked in an active league other
// than exceptLeagueID.
// The schema has no unique constraint for this: "active" lives on leagues, so
// callers hold lockRun while they check and write.
func hasActiveLink(ctx context.Context, q dbtx, runID, exceptLeagueID string) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").
		From("league_participants lp JOIN leagues l ON l.public_id = lp.league_public_id").
		Where(activeLinkConditions(runID, exceptLeagueID)...).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build active run link query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, q, &count, query, args...); err != nil {
		return false, fmt.Errorf("check active run link: %w", err)
	}
	return count > 0, nil
}

func capacity(maxParticipants int) int {
	if maxParticipants <= 0 || maxParticipants > league.MaxParticipants {
		return league.MaxParticipants
	}
	return maxParticipants
}

func activeLinkConditions(runID, exceptLeagueID string) []qb.Condition {
	conditions := []qb.Condition{
		qb.Eq("lp.run_public_id", runID),
		qb.Eq("l.status", string(league.StatusActive)),
	}
	if exceptLeagueID != "" {
		conditions = append(conditions, qb.Neq("lp.league_public_id", exceptLeagueID))
	}
	return conditions
}
