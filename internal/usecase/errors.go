package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrInactiveLeague        = errors.New("league is not active")
	ErrDuplicate             = errors.New("duplicate resource")
	ErrCapacity              = errors.New("capacity reached")
	ErrLinkConflict          = errors.New("run link conflict")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ErrValidation is the name used for malformed league input.
var ErrValidation = ErrInvalidInput

// translateRepoError maps repository sentinels to use case errors, keeping
// the original message for logs.
func translateRepoError(err error, action string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, league.ErrLeagueNotFound):
		return fmt.Errorf("%w: %s: %v", ErrNotFound, action, err)
	case errors.Is(err, league.ErrLeagueInactive), errors.Is(err, standing.ErrFrozen):
		return fmt.Errorf("%w: %s: %v", ErrInactiveLeague, action, err)
	case errors.Is(err, league.ErrAlreadyParticipant):
		return fmt.Errorf("%w: %s: %v", ErrDuplicate, action, err)
	case errors.Is(err, league.ErrLeagueFull):
		return fmt.Errorf("%w: %s: %v", ErrCapacity, action, err)
	case errors.Is(err, league.ErrRunLinked), errors.Is(err, run.ErrLinkedToActiveLeague):
		return fmt.Errorf("%w: %s: %v", ErrLinkConflict, action, err)
	case errors.Is(err, league.ErrNotParticipant):
		return fmt.Errorf("%w: %s: %v", ErrForbidden, action, err)
	case errors.Is(err, league.ErrInvitationNotFound):
		return fmt.Errorf("%w: %s: %v", ErrNotFound, action, err)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
