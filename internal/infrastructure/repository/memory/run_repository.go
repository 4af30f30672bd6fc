package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/futalyst/internal/domain/run"
)

// activeLinkGuard reports whether an active league still holds a run.
type activeLinkGuard interface {
	HasActiveLink(runID string) bool
}

type RunRepository struct {
	mu    sync.RWMutex
	items map[string]run.Run
	guard activeLinkGuard
}

func NewRunRepository(runs []run.Run, guard activeLinkGuard) *RunRepository {
	items := make(map[string]run.Run, len(runs))
	for _, item := range runs {
		items[item.ID] = cloneRun(item)
	}
	return &RunRepository{items: items, guard: guard}
}

func (r *RunRepository) GetByID(_ context.Context, runID string) (run.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[runID]
	if !ok {
		return run.Run{}, false, nil
	}
	return cloneRun(item), true, nil
}

func (r *RunRepository) ListByUser(_ context.Context, userID string) ([]run.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]run.Run, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, cloneRun(item))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].WeekStart.Equal(out[j].WeekStart) {
			return out[i].WeekStart.After(out[j].WeekStart)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete holds the run lock while consulting the guard so a concurrent link
// cannot slip in between the check and the removal of a missing run.
func (r *RunRepository) Delete(_ context.Context, runID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.guard != nil && r.guard.HasActiveLink(runID) {
		return run.ErrLinkedToActiveLeague
	}
	delete(r.items, runID)
	return nil
}

// Put inserts or replaces a run. Runs are written by the game tracking
// feature; this is used for seeding and tests.
func (r *RunRepository) Put(item run.Run) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = cloneRun(item)
}

func cloneRun(item run.Run) run.Run {
	out := item
	out.Games = append([]run.Game(nil), item.Games...)
	return out
}
