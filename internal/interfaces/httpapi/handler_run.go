package httpapi

import "net/http"

func (h *Handler) ListMyRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "ListMyRuns")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.runService.ListMyRuns(ctx, rc)
	if err != nil {
		h.logger.WarnContext(ctx, "list runs failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]runDTO, 0, len(items))
	for _, item := range items {
		out = append(out, runToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "DeleteRun")
	defer span.End()

	rc, err := callerFromContext(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	runID := pathValue(r, "runID")
	if err := h.runService.DeleteRun(ctx, rc, runID); err != nil {
		h.logger.WarnContext(ctx, "delete run failed", "run_id", runID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"run_id": runID, "status": "deleted"})
}
