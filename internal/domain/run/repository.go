package run

import (
	"context"
	"errors"
)

// ErrLinkedToActiveLeague is returned by Delete when an active league
// participant still points at the run.
var ErrLinkedToActiveLeague = errors.New("run is linked to an active league")

type Repository interface {
	GetByID(ctx context.Context, runID string) (Run, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Run, error)
	Delete(ctx context.Context, runID string) error
}
