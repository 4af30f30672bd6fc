package httpapi

import "net/http"

func (h *Handler) EvaluateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "EvaluateLeague")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	results, err := h.evaluationService.EvaluateLeague(ctx, rc, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "evaluate league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultsToDTO(results))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetStandings")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	view, err := h.standingsService.GetStandings(ctx, rc, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(view))
}

func (h *Handler) ListResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListResults")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	results, err := h.standingsService.ListResults(ctx, rc, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list results failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultsToDTO(results))
}
