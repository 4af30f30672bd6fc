package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/futalyst/internal/usecase"
)

// RunCompleteLeagueJob is the QStash target scheduled at league creation.
// Redelivered jobs for completed leagues succeed without changes.
func (h *Handler) RunCompleteLeagueJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RunCompleteLeagueJob")
	defer span.End()

	if h.completionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: completion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req completeLeagueJobRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, changed, err := h.completionService.CompleteLeagueByJob(ctx, req.LeagueID)
	if err != nil {
		h.logger.ErrorContext(ctx, "complete league job failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"league_id": item.ID,
		"status":    string(item.Status),
		"changed":   changed,
	})
}

func (h *Handler) RunCompleteDueJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "RunCompleteDueJob")
	defer span.End()

	if h.completionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: completion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.completionService.CompleteDue(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "complete due leagues job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, completionResultDTO{
		Due:       result.Due,
		Completed: result.Completed,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
	})
}
