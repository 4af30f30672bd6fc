package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/riskibarqy/futalyst/internal/domain/challenge"
	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
	idgen "github.com/riskibarqy/futalyst/internal/platform/id"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
)

const (
	maxLeagueNameLength = 80
	createCodeAttempts  = 3
)

type CreateLeagueInput struct {
	Name       string
	EndsAt     time.Time
	AdminRunID string
	Challenges []league.Selection
	Invitees   []string
}

// LeagueDetail is a league with its roster.
type LeagueDetail struct {
	League       league.League
	Participants []league.Participant
}

// completionScheduler queues the end-of-league completion job.
type completionScheduler interface {
	ScheduleLeagueCompletion(ctx context.Context, leagueID string, at time.Time) error
}

type LeagueService struct {
	leagueRepo   league.Repository
	runRepo      run.Repository
	standingRepo standing.Repository
	catalog      *challenge.Catalog
	idGen        idgen.Generator
	codeGen      idgen.CodeGenerator
	scheduler    completionScheduler
	logger       *logging.Logger
	now          func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	runRepo run.Repository,
	standingRepo standing.Repository,
	catalog *challenge.Catalog,
	idGen idgen.Generator,
	codeGen idgen.CodeGenerator,
	scheduler completionScheduler,
	logger *logging.Logger,
) *LeagueService {
	if catalog == nil {
		catalog = challenge.DefaultCatalog()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueService{
		leagueRepo:   leagueRepo,
		runRepo:      runRepo,
		standingRepo: standingRepo,
		catalog:      catalog,
		idGen:        idGen,
		codeGen:      codeGen,
		scheduler:    scheduler,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *LeagueService) CreateLeague(ctx context.Context, rc RequestContext, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return league.League{}, err
	}
	input.Name = strings.TrimSpace(input.Name)
	input.AdminRunID = strings.TrimSpace(input.AdminRunID)
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrValidation)
	}
	if len(input.Name) > maxLeagueNameLength {
		return league.League{}, fmt.Errorf("%w: league name must be at most %d characters", ErrValidation, maxLeagueNameLength)
	}

	now := s.now().UTC()
	if !input.EndsAt.After(now) {
		return league.League{}, fmt.Errorf("%w: end date must be in the future", ErrValidation)
	}

	selections, err := s.resolveSelections(input.Challenges)
	if err != nil {
		return league.League{}, err
	}

	invitees := make([]string, 0, len(input.Invitees))
	for _, userID := range input.Invitees {
		invitees = append(invitees, strings.TrimSpace(userID))
	}
	if err := league.ValidateInvitees(rc.UserID, invitees); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	gameVersion := rc.GameVersion
	var adminRunID *string
	if input.AdminRunID != "" {
		item, err := s.ownedRun(ctx, rc.UserID, input.AdminRunID)
		if err != nil {
			return league.League{}, err
		}
		if gameVersion == "" {
			gameVersion = item.GameVersion
		}
		if err := matchGameVersion(gameVersion, item.GameVersion); err != nil {
			return league.League{}, err
		}
		adminRunID = &item.ID
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}

	item := league.League{
		ID:              leagueID,
		Name:            input.Name,
		Slug:            slug.Make(input.Name),
		AdminUserID:     rc.UserID,
		GameVersion:     gameVersion,
		MaxParticipants: league.MaxParticipants,
		EndsAt:          input.EndsAt.UTC(),
		Status:          league.StatusActive,
		Challenges:      selections,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	admin := league.Participant{
		LeagueID: leagueID,
		UserID:   rc.UserID,
		RunID:    adminRunID,
		JoinedAt: now,
	}
	invitations := make([]league.Invitation, 0, len(invitees))
	for _, userID := range invitees {
		invitations = append(invitations, league.Invitation{
			LeagueID:  leagueID,
			UserID:    userID,
			InvitedBy: rc.UserID,
			Status:    league.InvitationPending,
			CreatedAt: now,
		})
	}

	for attempt := 1; ; attempt++ {
		code, err := s.codeGen.NewCode()
		if err != nil {
			return league.League{}, fmt.Errorf("generate league code: %w", err)
		}
		item.Code = code

		err = s.leagueRepo.Create(ctx, item, admin, invitations)
		if err == nil {
			break
		}
		if errors.Is(err, league.ErrDuplicateCode) && attempt < createCodeAttempts {
			continue
		}
		return league.League{}, translateRepoError(err, "create league")
	}

	s.scheduleCompletion(ctx, item)
	s.logger.InfoContext(ctx, "league created",
		"league_id", item.ID,
		"challenges", len(item.Challenges),
		"invitees", len(invitations),
	)

	return item, nil
}

func (s *LeagueService) JoinLeague(ctx context.Context, rc RequestContext, code, runID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinLeague")
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return league.League{}, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return league.League{}, fmt.Errorf("%w: league code is required", ErrValidation)
	}

	item, exists, err := s.leagueRepo.GetByCode(ctx, code)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league code not found", ErrNotFound)
	}

	if err := s.join(ctx, rc, item, runID); err != nil {
		return league.League{}, err
	}
	return item, nil
}

func (s *LeagueService) AcceptInvitation(ctx context.Context, rc RequestContext, leagueID, runID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.AcceptInvitation", leagueAttr(leagueID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return league.League{}, err
	}
	item, err := s.pendingInvitationLeague(ctx, rc.UserID, leagueID)
	if err != nil {
		return league.League{}, err
	}

	if err := s.join(ctx, rc, item, runID); err != nil {
		return league.League{}, err
	}
	return item, nil
}

func (s *LeagueService) DeclineInvitation(ctx context.Context, rc RequestContext, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.DeclineInvitation", leagueAttr(leagueID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return err
	}
	item, err := s.pendingInvitationLeague(ctx, rc.UserID, leagueID)
	if err != nil {
		return err
	}

	if err := s.leagueRepo.RespondInvitation(ctx, item.ID, rc.UserID, league.InvitationDeclined, s.now().UTC()); err != nil {
		return translateRepoError(err, "decline invitation")
	}
	return nil
}

// LinkRun sets or clears the caller's run for a league. A nil runID unlinks.
func (s *LeagueService) LinkRun(ctx context.Context, rc RequestContext, leagueID string, runID *string) (league.Participant, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.LinkRun", leagueAttr(leagueID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return league.Participant{}, err
	}
	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return league.Participant{}, err
	}
	if !item.IsActive() {
		return league.Participant{}, fmt.Errorf("%w: league=%s", ErrInactiveLeague, item.ID)
	}

	participant, exists, err := s.leagueRepo.GetParticipant(ctx, item.ID, rc.UserID)
	if err != nil {
		return league.Participant{}, fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return league.Participant{}, fmt.Errorf("%w: you are not a participant of this league", ErrForbidden)
	}

	var target *string
	if runID != nil && strings.TrimSpace(*runID) != "" {
		linked, err := s.ownedRun(ctx, rc.UserID, *runID)
		if err != nil {
			return league.Participant{}, err
		}
		if err := matchGameVersion(item.GameVersion, linked.GameVersion); err != nil {
			return league.Participant{}, err
		}
		target = &linked.ID
	}

	if participant.LinkedRunID() == derefString(target) {
		return participant, nil
	}

	if err := s.leagueRepo.LinkRun(ctx, item.ID, rc.UserID, target); err != nil {
		return league.Participant{}, translateRepoError(err, "link run")
	}
	participant.RunID = target
	return participant, nil
}

func (s *LeagueService) LeaveLeague(ctx context.Context, rc RequestContext, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.LeaveLeague", leagueAttr(leagueID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return err
	}
	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if !item.IsActive() {
		return fmt.Errorf("%w: league=%s", ErrInactiveLeague, item.ID)
	}
	if item.AdminUserID == rc.UserID {
		return fmt.Errorf("%w: the admin cannot leave their own league", ErrForbidden)
	}

	if err := s.leagueRepo.RemoveParticipant(ctx, item.ID, rc.UserID); err != nil {
		return translateRepoError(err, "leave league")
	}
	return nil
}

func (s *LeagueService) ReplaceChallenges(ctx context.Context, rc RequestContext, leagueID string, selections []league.Selection) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ReplaceChallenges", leagueAttr(leagueID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return league.League{}, err
	}
	item, err := s.adminLeague(ctx, rc.UserID, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if !item.IsActive() {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrInactiveLeague, item.ID)
	}

	resolved, err := s.resolveSelections(selections)
	if err != nil {
		return league.League{}, err
	}

	now := s.now().UTC()
	if err := s.leagueRepo.ReplaceChallenges(ctx, item.ID, resolved, now); err != nil {
		return league.League{}, translateRepoError(err, "replace league challenges")
	}

	item.Challenges = resolved
	item.UpdatedAt = now
	return item, nil
}

func (s *LeagueService) DeleteLeague(ctx context.Context, rc RequestContext, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.DeleteLeague", leagueAttr(leagueID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return err
	}
	item, err := s.adminLeague(ctx, rc.UserID, leagueID)
	if err != nil {
		return err
	}

	if err := s.leagueRepo.Delete(ctx, item.ID); err != nil {
		return translateRepoError(err, "delete league")
	}
	if s.standingRepo != nil {
		if err := s.standingRepo.DeleteByLeague(ctx, item.ID); err != nil {
			s.logger.WarnContext(ctx, "delete league results failed", "league_id", item.ID, "error", err)
		}
	}

	s.logger.InfoContext(ctx, "league deleted", "league_id", item.ID)
	return nil
}

// GetLeague is visible to participants and to users with a pending invitation.
func (s *LeagueService) GetLeague(ctx context.Context, rc RequestContext, leagueID string) (LeagueDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetLeague", leagueAttr(leagueID))
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return LeagueDetail{}, err
	}
	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return LeagueDetail{}, err
	}

	participants, err := s.leagueRepo.ListParticipants(ctx, item.ID)
	if err != nil {
		return LeagueDetail{}, fmt.Errorf("list league participants: %w", err)
	}
	if !containsParticipant(participants, rc.UserID) {
		invitation, exists, err := s.leagueRepo.GetInvitation(ctx, item.ID, rc.UserID)
		if err != nil {
			return LeagueDetail{}, fmt.Errorf("get invitation: %w", err)
		}
		if !exists || invitation.Status != league.InvitationPending {
			return LeagueDetail{}, fmt.Errorf("%w: you are not a member of this league", ErrForbidden)
		}
	}

	return LeagueDetail{League: item, Participants: participants}, nil
}

func (s *LeagueService) ListMyLeagues(ctx context.Context, rc RequestContext) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMyLeagues")
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return nil, err
	}
	items, err := s.leagueRepo.ListByUser(ctx, rc.UserID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}
	if rc.GameVersion == "" {
		return items, nil
	}

	out := make([]league.League, 0, len(items))
	for _, item := range items {
		if item.GameVersion == "" || item.GameVersion == rc.GameVersion {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *LeagueService) ListMyInvitations(ctx context.Context, rc RequestContext) ([]league.Invitation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMyInvitations")
	defer span.End()

	rc, err := rc.normalize()
	if err != nil {
		return nil, err
	}
	items, err := s.leagueRepo.ListInvitationsByUser(ctx, rc.UserID, league.InvitationPending)
	if err != nil {
		return nil, fmt.Errorf("list invitations by user: %w", err)
	}
	return items, nil
}

func (s *LeagueService) join(ctx context.Context, rc RequestContext, item league.League, runID string) error {
	if !item.IsActive() {
		return fmt.Errorf("%w: league=%s", ErrInactiveLeague, item.ID)
	}

	participant := league.Participant{
		LeagueID: item.ID,
		UserID:   rc.UserID,
		JoinedAt: s.now().UTC(),
	}
	if runID = strings.TrimSpace(runID); runID != "" {
		linked, err := s.ownedRun(ctx, rc.UserID, runID)
		if err != nil {
			return err
		}
		if err := matchGameVersion(item.GameVersion, linked.GameVersion); err != nil {
			return err
		}
		participant.RunID = &linked.ID
	}

	if err := s.leagueRepo.Join(ctx, participant); err != nil {
		return translateRepoError(err, "join league")
	}

	s.logger.InfoContext(ctx, "league joined", "league_id", item.ID)
	return nil
}

func (s *LeagueService) pendingInvitationLeague(ctx context.Context, userID, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrValidation)
	}

	invitation, exists, err := s.leagueRepo.GetInvitation(ctx, leagueID, userID)
	if err != nil {
		return league.League{}, fmt.Errorf("get invitation: %w", err)
	}
	if !exists || invitation.Status != league.InvitationPending {
		return league.League{}, fmt.Errorf("%w: pending invitation not found", ErrNotFound)
	}

	return s.getLeague(ctx, leagueID)
}

func (s *LeagueService) getLeague(ctx context.Context, leagueID string) (league.League, error) {
	return loadLeague(ctx, s.leagueRepo, leagueID)
}

func (s *LeagueService) adminLeague(ctx context.Context, userID, leagueID string) (league.League, error) {
	item, err := s.getLeague(ctx, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if item.AdminUserID != userID {
		return league.League{}, fmt.Errorf("%w: only the league admin can do this", ErrForbidden)
	}
	return item, nil
}

func (s *LeagueService) ownedRun(ctx context.Context, userID, runID string) (run.Run, error) {
	runID = strings.TrimSpace(runID)
	item, exists, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return run.Run{}, fmt.Errorf("get run by id: %w", err)
	}
	if !exists {
		return run.Run{}, fmt.Errorf("%w: run=%s", ErrNotFound, runID)
	}
	if item.UserID != userID {
		return run.Run{}, fmt.Errorf("%w: run belongs to another user", ErrForbidden)
	}
	return item, nil
}

// resolveSelections checks every id against the catalog and fills default points.
func (s *LeagueService) resolveSelections(selections []league.Selection) ([]league.Selection, error) {
	out := make([]league.Selection, 0, len(selections))
	for _, sel := range selections {
		sel.ChallengeID = strings.TrimSpace(sel.ChallengeID)
		ch, ok := s.catalog.Get(sel.ChallengeID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown challenge %q", ErrValidation, sel.ChallengeID)
		}
		if sel.Points == 0 {
			sel.Points = ch.Points
		}
		out = append(out, sel)
	}

	if err := league.ValidateSelections(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return out, nil
}

func (s *LeagueService) scheduleCompletion(ctx context.Context, item league.League) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.ScheduleLeagueCompletion(ctx, item.ID, item.EndsAt); err != nil {
		s.logger.WarnContext(ctx, "schedule league completion failed",
			"league_id", item.ID,
			"ends_at", item.EndsAt,
			"error", err,
		)
	}
}

func loadLeague(ctx context.Context, repo league.Repository, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrValidation)
	}

	item, exists, err := repo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return item, nil
}

// requireParticipant checks league membership and returns the roster.
func requireParticipant(ctx context.Context, repo league.Repository, leagueID, userID string) ([]league.Participant, error) {
	participants, err := repo.ListParticipants(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league participants: %w", err)
	}
	if !containsParticipant(participants, userID) {
		return nil, fmt.Errorf("%w: you are not a member of this league", ErrForbidden)
	}
	return participants, nil
}

func containsParticipant(participants []league.Participant, userID string) bool {
	for _, p := range participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func matchGameVersion(leagueVersion, runVersion string) error {
	if leagueVersion == "" || runVersion == "" || leagueVersion == runVersion {
		return nil
	}
	return fmt.Errorf("%w: run game version %s does not match league game version %s", ErrValidation, runVersion, leagueVersion)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
