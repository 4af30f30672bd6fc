package httpapi

import (
	"net/http"

	"github.com/riskibarqy/futalyst/internal/usecase"
)

func (h *Handler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListChallenges")
	defer span.End()

	items, err := h.catalogService.ListChallenges(ctx, r.URL.Query().Get("category"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]challengeDTO, 0, len(items))
	for _, item := range items {
		out = append(out, challengeToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, catalogDTO{Version: h.catalogService.Version(), Challenges: out})
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CreateLeague")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createLeagueRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.leagueService.CreateLeague(ctx, rc, usecase.CreateLeagueInput{
		Name:       req.Name,
		EndsAt:     req.EndsAt,
		AdminRunID: req.RunID,
		Challenges: selectionsFromRequest(req.Challenges),
		Invitees:   req.Invitees,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(item))
}

func (h *Handler) ListMyLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListMyLeagues")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.leagueService.ListMyLeagues(ctx, rc)
	if err != nil {
		h.logger.WarnContext(ctx, "list my leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leagueDTO, 0, len(items))
	for _, item := range items {
		out = append(out, leagueToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "GetLeague")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	detail, err := h.leagueService.GetLeague(ctx, rc, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueDetailToDTO(detail))
}

func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "DeleteLeague")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	if err := h.leagueService.DeleteLeague(ctx, rc, leagueID); err != nil {
		h.logger.WarnContext(ctx, "delete league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"league_id": leagueID, "status": "deleted"})
}

func (h *Handler) ReplaceChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ReplaceChallenges")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req replaceChallengesRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	item, err := h.leagueService.ReplaceChallenges(ctx, rc, leagueID, selectionsFromRequest(req.Challenges))
	if err != nil {
		h.logger.WarnContext(ctx, "replace league challenges failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "JoinLeague")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req joinLeagueRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.leagueService.JoinLeague(ctx, rc, req.Code, req.RunID)
	if err != nil {
		h.logger.WarnContext(ctx, "join league failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) LinkRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "LinkRun")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	// a null or missing run_id unlinks.
	var req linkRunRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	participant, err := h.leagueService.LinkRun(ctx, rc, leagueID, req.RunID)
	if err != nil {
		h.logger.WarnContext(ctx, "link run failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participantToDTO(participant))
}

func (h *Handler) LeaveLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "LeaveLeague")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	if err := h.leagueService.LeaveLeague(ctx, rc, leagueID); err != nil {
		h.logger.WarnContext(ctx, "leave league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"league_id": leagueID, "status": "left"})
}

func (h *Handler) CompleteLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "CompleteLeague")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	item, err := h.completionService.CompleteLeague(ctx, rc, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "complete league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}
