package league

import (
	"context"
	"time"
)

// Repository persists leagues, their participants and invitations. Every
// mutating method is atomic: it either applies fully or leaves prior state
// unchanged.
type Repository interface {
	// Create stores the league, the admin participant and pending invitations.
	// It fails with ErrRunLinked when admin.RunID is already linked to
	// another active league and with ErrDuplicateCode on a code collision.
	Create(ctx context.Context, l League, admin Participant, invitations []Invitation) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByCode(ctx context.Context, code string) (League, bool, error)
	ListByUser(ctx context.Context, userID string) ([]League, error)
	// ListDue returns active leagues whose end date is at or before now.
	ListDue(ctx context.Context, now time.Time) ([]League, error)
	ReplaceChallenges(ctx context.Context, leagueID string, selections []Selection, updatedAt time.Time) error
	// Complete transitions an active league to completed. It returns
	// ErrLeagueInactive when the league is already completed.
	Complete(ctx context.Context, leagueID string, at time.Time) (League, error)
	Delete(ctx context.Context, leagueID string) error

	// Join adds a participant while enforcing league status, uniqueness,
	// capacity and the run link rule in one step. A pending invitation for the
	// user is accepted.
	Join(ctx context.Context, p Participant) error
	RemoveParticipant(ctx context.Context, leagueID, userID string) error
	GetParticipant(ctx context.Context, leagueID, userID string) (Participant, bool, error)
	ListParticipants(ctx context.Context, leagueID string) ([]Participant, error)
	// LinkRun sets or clears a participant's run. A run already linked to a
	// different active league fails with ErrRunLinked.
	LinkRun(ctx context.Context, leagueID, userID string, runID *string) error
	FindActiveLinks(ctx context.Context, runID string) ([]RunLink, error)
	// ClearRunLinks unlinks runID from every completed league.
	ClearRunLinks(ctx context.Context, runID string) error

	ListInvitationsByUser(ctx context.Context, userID string, status InvitationStatus) ([]Invitation, error)
	GetInvitation(ctx context.Context, leagueID, userID string) (Invitation, bool, error)
	RespondInvitation(ctx context.Context, leagueID, userID string, status InvitationStatus, at time.Time) error
}
