package httpapi

import "net/http"

func (h *Handler) ListMyInvitations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListMyInvitations")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.leagueService.ListMyInvitations(ctx, rc)
	if err != nil {
		h.logger.WarnContext(ctx, "list invitations failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]invitationDTO, 0, len(items))
	for _, item := range items {
		out = append(out, invitationToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "AcceptInvitation")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req acceptInvitationRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	item, err := h.leagueService.AcceptInvitation(ctx, rc, leagueID, req.RunID)
	if err != nil {
		h.logger.WarnContext(ctx, "accept invitation failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "DeclineInvitation")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := pathValue(r, "leagueID")
	if err := h.leagueService.DeclineInvitation(ctx, rc, leagueID); err != nil {
		h.logger.WarnContext(ctx, "decline invitation failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"league_id": leagueID, "status": "declined"})
}
