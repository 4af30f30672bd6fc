package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
	"github.com/riskibarqy/futalyst/internal/usecase"
)

type Handler struct {
	catalogService    *usecase.CatalogService
	leagueService     *usecase.LeagueService
	evaluationService *usecase.EvaluationService
	standingsService  *usecase.StandingsService
	runService        *usecase.RunService
	completionService *usecase.CompletionService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	catalogService *usecase.CatalogService,
	leagueService *usecase.LeagueService,
	evaluationService *usecase.EvaluationService,
	standingsService *usecase.StandingsService,
	runService *usecase.RunService,
	completionService *usecase.CompletionService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		catalogService:    catalogService,
		leagueService:     leagueService,
		evaluationService: evaluationService,
		standingsService:  standingsService,
		runService:        runService,
		completionService: completionService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into dst and validates it. An empty body is
// accepted when allowEmpty is set.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any, allowEmpty bool) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if !(allowEmpty && err == io.EOF) {
			return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
		}
	}
	return h.validateRequest(ctx, dst)
}

func callerFromContext(ctx context.Context) (usecase.RequestContext, error) {
	rc, ok := requestContextFrom(ctx)
	if !ok {
		return usecase.RequestContext{}, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized)
	}
	return rc, nil
}

func pathValue(r *http.Request, name string) string {
	return strings.TrimSpace(r.PathValue(name))
}
