package league

import (
	"errors"
	"fmt"
)

const (
	MaxParticipants = 20
	MaxInvitees     = MaxParticipants - 1
	MinChallenges   = 25
	MaxChallenges   = 30
)

var (
	ErrLeagueNotFound      = errors.New("league not found")
	ErrLeagueInactive      = errors.New("league is not active")
	ErrAlreadyParticipant  = errors.New("user already participates in league")
	ErrLeagueFull          = errors.New("league is full")
	ErrNotParticipant      = errors.New("user is not a participant")
	ErrRunLinked           = errors.New("run already linked to another active league")
	ErrInvitationNotFound  = errors.New("pending invitation not found")
	ErrDuplicateCode       = errors.New("league code already taken")
	ErrInvalidChallengeSet = errors.New("invalid challenge selection")
	ErrTooManyInvitees     = errors.New("too many invitees")
)

// ValidateSelections checks the size of a challenge set and that every
// challenge appears once with positive points.
func ValidateSelections(selections []Selection) error {
	if len(selections) < MinChallenges || len(selections) > MaxChallenges {
		return fmt.Errorf("%w: expected %d..%d challenges, got %d", ErrInvalidChallengeSet, MinChallenges, MaxChallenges, len(selections))
	}

	seen := make(map[string]struct{}, len(selections))
	for _, sel := range selections {
		if sel.ChallengeID == "" {
			return fmt.Errorf("%w: challenge id is required", ErrInvalidChallengeSet)
		}
		if _, exists := seen[sel.ChallengeID]; exists {
			return fmt.Errorf("%w: duplicate challenge %s", ErrInvalidChallengeSet, sel.ChallengeID)
		}
		seen[sel.ChallengeID] = struct{}{}
		if sel.Points <= 0 {
			return fmt.Errorf("%w: challenge %s points must be > 0", ErrInvalidChallengeSet, sel.ChallengeID)
		}
	}

	return nil
}

// ValidateInvitees checks the invitee list against the admin seat.
func ValidateInvitees(adminUserID string, invitees []string) error {
	if len(invitees) > MaxInvitees {
		return fmt.Errorf("%w: at most %d, got %d", ErrTooManyInvitees, MaxInvitees, len(invitees))
	}

	seen := make(map[string]struct{}, len(invitees))
	for _, userID := range invitees {
		if userID == "" {
			return fmt.Errorf("invitee user id is required")
		}
		if userID == adminUserID {
			return fmt.Errorf("admin cannot invite themselves")
		}
		if _, exists := seen[userID]; exists {
			return fmt.Errorf("duplicate invitee %s", userID)
		}
		seen[userID] = struct{}{}
	}

	return nil
}
