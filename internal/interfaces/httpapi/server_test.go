package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/futalyst/internal/domain/challenge"
	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/user"
	"github.com/riskibarqy/futalyst/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/futalyst/internal/platform/id"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
	"github.com/riskibarqy/futalyst/internal/usecase"
)

const testJobToken = "job-secret"

type envelope struct {
	APIVersion string          `json:"apiVersion"`
	Data       sonicRaw        `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

type sonicRaw []byte

func (r *sonicRaw) UnmarshalJSON(b []byte) error {
	*r = append((*r)[:0], b...)
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	catalog := challenge.DefaultCatalog()
	leagues := memory.NewLeagueRepository()
	runs := memory.NewRunRepository(memory.SeedRuns(), leagues)
	standings := memory.NewStandingRepository(leagues)

	evaluation := usecase.NewEvaluationService(leagues, runs, standings, catalog, logger)
	handler := NewHandler(
		usecase.NewCatalogService(catalog),
		usecase.NewLeagueService(leagues, runs, standings, catalog, idgen.NewUUIDGenerator(), idgen.NewNanoCodeGenerator(8), nil, logger),
		evaluation,
		usecase.NewStandingsService(leagues, standings, evaluation),
		usecase.NewRunService(runs, leagues, logger),
		usecase.NewCompletionService(leagues, evaluation, logger, 2),
		logger,
	)

	verifier := stubVerifier{principals: map[string]user.Principal{
		"tok-alpha": {UserID: memory.SeedUserAlpha},
		"tok-bravo": {UserID: memory.SeedUserBravo},
	}}
	return NewRouter(handler, verifier, logger, RouterOptions{
		CORSAllowedOrigins: []string{"*"},
		InternalJobToken:   testJobToken,
		DefaultGameVersion: memory.SeedVersion,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	headers := map[string]string{}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return serve(t, router, method, path, headers, body)
}

func doJob(t *testing.T, router http.Handler, path, jobToken string, body any) (int, envelope) {
	t.Helper()
	headers := map[string]string{}
	if jobToken != "" {
		headers["X-Internal-Job-Token"] = jobToken
	}
	return serve(t, router, http.MethodPost, path, headers, body)
}

func serve(t *testing.T, router http.Handler, method, path string, headers map[string]string, body any) (int, envelope) {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		if raw, err = sonic.Marshal(body); err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	reader := bytes.NewReader(raw)

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, out
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	if err := sonic.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("unmarshal data %q: %v", string(env.Data), err)
	}
}

func createLeagueBody() map[string]any {
	items := challenge.DefaultCatalog().List()
	selections := make([]map[string]any, 0, league.MinChallenges)
	for _, item := range items[:league.MinChallenges] {
		selections = append(selections, map[string]any{"challenge_id": item.ID})
	}
	return map[string]any{
		"name":       "Friday Night Sweats",
		"ends_at":    time.Now().Add(7 * 24 * time.Hour).UTC().Format(time.RFC3339),
		"run_id":     "run-alpha-w1",
		"challenges": selections,
	}
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if status != http.StatusOK || body.APIVersion != googleAPIVersion {
		t.Fatalf("unexpected health response: status=%d body=%+v", status, body)
	}
}

func TestRouter_RequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodGet, "/v1/leagues", "", nil)
	if status != http.StatusUnauthorized || body.Error == nil || body.Error.Status != "UNAUTHENTICATED" {
		t.Fatalf("unexpected response: status=%d body=%+v", status, body)
	}
}

func TestRouter_LeagueFlow(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodPost, "/v1/leagues", "tok-alpha", createLeagueBody())
	if status != http.StatusCreated {
		t.Fatalf("create status=%d body=%+v", status, body.Error)
	}
	var created leagueDTO
	decodeData(t, body, &created)
	if created.Slug != "friday-night-sweats" || len(created.Challenges) != league.MinChallenges || created.GameVersion != memory.SeedVersion {
		t.Fatalf("unexpected created league: %+v", created)
	}

	status, body = doJSON(t, router, http.MethodPost, "/v1/leagues/join", "tok-bravo", map[string]any{
		"code":   created.Code,
		"run_id": "run-bravo-w1",
	})
	if status != http.StatusOK {
		t.Fatalf("join status=%d body=%+v", status, body.Error)
	}

	status, body = doJSON(t, router, http.MethodPost, "/v1/leagues/join", "tok-bravo", map[string]any{"code": created.Code})
	if status != http.StatusConflict || body.Error.Errors[0].Reason != "duplicate" {
		t.Fatalf("second join status=%d body=%+v", status, body.Error)
	}

	status, body = doJSON(t, router, http.MethodGet, "/v1/leagues/"+created.ID+"/standings", "tok-bravo", nil)
	if status != http.StatusOK {
		t.Fatalf("standings status=%d body=%+v", status, body.Error)
	}
	var view standingsDTO
	decodeData(t, body, &view)
	if len(view.Rows) != 2 || view.Status != string(league.StatusActive) {
		t.Fatalf("unexpected standings: %+v", view)
	}

	status, body = doJSON(t, router, http.MethodGet, "/v1/leagues/"+created.ID+"/results", "tok-alpha", nil)
	if status != http.StatusOK {
		t.Fatalf("results status=%d body=%+v", status, body.Error)
	}
	var results []challengeResultDTO
	decodeData(t, body, &results)
	if len(results) != 2*league.MinChallenges {
		t.Fatalf("expected %d results, got %d", 2*league.MinChallenges, len(results))
	}

	status, body = doJSON(t, router, http.MethodDelete, "/v1/runs/run-bravo-w1", "tok-bravo", nil)
	if status != http.StatusConflict || body.Error.Errors[0].Reason != "runLinkConflict" {
		t.Fatalf("delete linked run status=%d body=%+v", status, body.Error)
	}

	status, body = doJSON(t, router, http.MethodPost, "/v1/leagues/"+created.ID+"/complete", "tok-bravo", nil)
	if status != http.StatusForbidden {
		t.Fatalf("non admin complete status=%d body=%+v", status, body.Error)
	}

	status, body = doJob(t, router, "/v1/internal/jobs/complete-league", testJobToken, map[string]any{"league_id": created.ID})
	if status != http.StatusOK {
		t.Fatalf("complete job status=%d body=%+v", status, body.Error)
	}

	status, body = doJSON(t, router, http.MethodPost, "/v1/leagues/"+created.ID+"/evaluate", "tok-alpha", nil)
	if status != http.StatusConflict || body.Error.Errors[0].Reason != "leagueInactive" {
		t.Fatalf("evaluate completed league status=%d body=%+v", status, body.Error)
	}

	status, body = doJSON(t, router, http.MethodDelete, "/v1/runs/run-bravo-w1", "tok-bravo", nil)
	if status != http.StatusOK {
		t.Fatalf("delete run after completion status=%d body=%+v", status, body.Error)
	}
}

func TestRouter_CreateLeagueValidation(t *testing.T) {
	router := newTestRouter(t)

	body := createLeagueBody()
	body["challenges"] = []map[string]any{{"challenge_id": "off_1"}}
	status, resp := doJSON(t, router, http.MethodPost, "/v1/leagues", "tok-alpha", body)
	if status != http.StatusBadRequest {
		t.Fatalf("status=%d body=%+v", status, resp.Error)
	}

	body = createLeagueBody()
	body["unexpected"] = true
	status, resp = doJSON(t, router, http.MethodPost, "/v1/leagues", "tok-alpha", body)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown field status=%d body=%+v", status, resp.Error)
	}
}

func TestRouter_ListChallenges(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJSON(t, router, http.MethodGet, "/v1/challenges?category=Defensive", "tok-alpha", nil)
	if status != http.StatusOK {
		t.Fatalf("status=%d body=%+v", status, body.Error)
	}
	var catalog catalogDTO
	decodeData(t, body, &catalog)
	if catalog.Version != challenge.CatalogVersion || len(catalog.Challenges) == 0 {
		t.Fatalf("unexpected catalog: %+v", catalog)
	}
	for _, ch := range catalog.Challenges {
		if ch.Category != string(challenge.CategoryDefensive) {
			t.Fatalf("unexpected category %s", ch.Category)
		}
	}
}

func TestRouter_CompleteDueJob(t *testing.T) {
	router := newTestRouter(t)

	status, body := doJob(t, router, "/v1/internal/jobs/complete-due", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("missing token status=%d", status)
	}

	status, body = doJob(t, router, "/v1/internal/jobs/complete-due", testJobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("status=%d body=%+v", status, body.Error)
	}
	var result completionResultDTO
	decodeData(t, body, &result)
	if result.Due != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}
