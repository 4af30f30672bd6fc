package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, defaultGameVersion string) {
	auth := func(fn http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, defaultGameVersion, fn)
	}

	registerCatalogRoutes(mux, handler, auth)
	registerLeagueRoutes(mux, handler, auth)
	registerInvitationRoutes(mux, handler, auth)
	registerRunRoutes(mux, handler, auth)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler, auth func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET /v1/challenges", auth(handler.ListChallenges))
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler, auth func(http.HandlerFunc) http.Handler) {
	mux.Handle("POST /v1/leagues", auth(handler.CreateLeague))
	mux.Handle("GET /v1/leagues", auth(handler.ListMyLeagues))
	mux.Handle("POST /v1/leagues/join", auth(handler.JoinLeague))
	mux.Handle("GET /v1/leagues/{leagueID}", auth(handler.GetLeague))
	mux.Handle("DELETE /v1/leagues/{leagueID}", auth(handler.DeleteLeague))
	mux.Handle("PUT /v1/leagues/{leagueID}/challenges", auth(handler.ReplaceChallenges))
	mux.Handle("PUT /v1/leagues/{leagueID}/participants/me/run", auth(handler.LinkRun))
	mux.Handle("DELETE /v1/leagues/{leagueID}/participants/me", auth(handler.LeaveLeague))
	mux.Handle("POST /v1/leagues/{leagueID}/evaluate", auth(handler.EvaluateLeague))
	mux.Handle("POST /v1/leagues/{leagueID}/complete", auth(handler.CompleteLeague))
	mux.Handle("GET /v1/leagues/{leagueID}/standings", auth(handler.GetStandings))
	mux.Handle("GET /v1/leagues/{leagueID}/results", auth(handler.ListResults))
}

func registerInvitationRoutes(mux *http.ServeMux, handler *Handler, auth func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET /v1/invitations", auth(handler.ListMyInvitations))
	mux.Handle("POST /v1/invitations/{leagueID}/accept", auth(handler.AcceptInvitation))
	mux.Handle("POST /v1/invitations/{leagueID}/decline", auth(handler.DeclineInvitation))
}

func registerRunRoutes(mux *http.ServeMux, handler *Handler, auth func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET /v1/runs", auth(handler.ListMyRuns))
	mux.Handle("DELETE /v1/runs/{runID}", auth(handler.DeleteRun))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/complete-league", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCompleteLeagueJob)))
	mux.Handle("POST /v1/internal/jobs/complete-due", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCompleteDueJob)))
}
