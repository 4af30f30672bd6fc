package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/futalyst/internal/config"
	"github.com/riskibarqy/futalyst/internal/domain/challenge"
	"github.com/riskibarqy/futalyst/internal/domain/league"
	"github.com/riskibarqy/futalyst/internal/domain/run"
	"github.com/riskibarqy/futalyst/internal/domain/standing"
	"github.com/riskibarqy/futalyst/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/futalyst/internal/infrastructure/jobqueue"
	cacherepo "github.com/riskibarqy/futalyst/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/futalyst/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/futalyst/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/futalyst/internal/infrastructure/scheduler"
	"github.com/riskibarqy/futalyst/internal/interfaces/httpapi"
	"github.com/riskibarqy/futalyst/internal/platform/cache"
	idgen "github.com/riskibarqy/futalyst/internal/platform/id"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
	"github.com/riskibarqy/futalyst/internal/platform/resilience"
	"github.com/riskibarqy/futalyst/internal/usecase"
)

const leagueCodeLength = 8

type leagueScheduler interface {
	ScheduleLeagueCompletion(ctx context.Context, leagueID string, at time.Time) error
}

type stores struct {
	leagues   league.Repository
	runs      run.Repository
	standings standing.Repository
}

// App owns the HTTP server and the background workers of one API process.
type App struct {
	cfg     config.Config
	logger  *logging.Logger
	server  *http.Server
	db      *sqlx.DB
	sweeper *scheduler.CompletionSweeper
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{cfg: cfg, logger: logger}

	repos, err := a.openStores(ctx)
	if err != nil {
		return nil, err
	}

	catalog := challenge.DefaultCatalog()
	evaluationSvc := usecase.NewEvaluationService(repos.leagues, repos.runs, repos.standings, catalog, logger)
	completionSvc := usecase.NewCompletionService(repos.leagues, evaluationSvc, logger, cfg.CompletionWorkers)
	leagueSvc := usecase.NewLeagueService(
		repos.leagues,
		repos.runs,
		repos.standings,
		catalog,
		idgen.NewUUIDGenerator(),
		idgen.NewNanoCodeGenerator(leagueCodeLength),
		a.completionScheduler(),
		logger,
	)

	handler := httpapi.NewHandler(
		usecase.NewCatalogService(catalog),
		leagueSvc,
		evaluationSvc,
		usecase.NewStandingsService(repos.leagues, repos.standings, evaluationSvc),
		usecase.NewRunService(repos.runs, repos.leagues, logger),
		completionSvc,
		logger,
	)

	verifier := anubis.NewClient(anubis.Config{
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		Timeout:        cfg.AnubisTimeout,
		CacheTTL:       a.cacheTTL(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})

	router := httpapi.NewRouter(handler, verifier, logger, httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		DefaultGameVersion: cfg.DefaultGameVersion,
	})

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.CompletionSweepEnabled {
		a.sweeper = scheduler.NewCompletionSweeper(completionSvc, cfg.CompletionSweepInterval, logger)
	}

	return a, nil
}

func (a *App) openStores(ctx context.Context) (stores, error) {
	var repos stores
	if a.cfg.UsesMemoryStore() {
		leagues := memory.NewLeagueRepository()
		repos = stores{
			leagues:   leagues,
			runs:      memory.NewRunRepository(memory.SeedRuns(), leagues),
			standings: memory.NewStandingRepository(leagues),
		}
		a.logger.Warn("DB_URL empty, using in-memory store with demo runs")
	} else {
		db, err := openDatabase(ctx, a.cfg)
		if err != nil {
			return stores{}, err
		}
		a.db = db
		repos = stores{
			leagues:   postgres.NewLeagueRepository(db),
			runs:      postgres.NewRunRepository(db),
			standings: postgres.NewStandingRepository(db),
		}
		a.logger.Info("postgres store connected", "db_name", dbNameFromURL(a.cfg.DBURL))
	}

	if a.cfg.CacheEnabled {
		store := cache.NewStore(a.cfg.CacheTTL)
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
		repos.standings = cacherepo.NewStandingRepository(repos.standings, store)
	}
	return repos, nil
}

// completionScheduler returns a nil interface when QStash is off so the
// league service skips scheduling and the sweeper picks up due leagues.
func (a *App) completionScheduler() leagueScheduler {
	if !a.cfg.QStashEnabled {
		a.logger.Info("qstash disabled", "reason", "QSTASH_ENABLED=false")
		return nil
	}

	publisher := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
		BaseURL:          a.cfg.QStashBaseURL,
		Token:            a.cfg.QStashToken,
		TargetBaseURL:    a.cfg.QStashTargetBaseURL,
		Retries:          a.cfg.QStashRetries,
		InternalJobToken: a.cfg.InternalJobToken,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          a.cfg.QStashCircuitEnabled,
			FailureThreshold: a.cfg.QStashCircuitFailureCount,
			OpenTimeout:      a.cfg.QStashCircuitOpenTimeout,
			HalfOpenMaxReq:   a.cfg.QStashCircuitHalfOpenMaxReq,
		},
	}, a.logger)
	return jobqueue.NewCompletionScheduler(publisher)
}

func (a *App) cacheTTL() time.Duration {
	if !a.cfg.CacheEnabled {
		return 0
	}
	return a.cfg.CacheTTL
}

// Handler exposes the router for in-process use.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP and runs the completion sweeper until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.sweeper != nil {
		if err := a.sweeper.Start(); err != nil {
			return err
		}
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, failed := <-serveErr:
		if !failed {
			return nil
		}
		return errors.Join(fmt.Errorf("http server failed: %w", err), a.stopBackground())
	case <-ctx.Done():
		return nil
	}
}

// Shutdown drains the HTTP server, stops the sweeper and closes the database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.stopBackground(); err != nil {
		errs = append(errs, err)
	}
	a.logger.Info("http server stopped")
	return errors.Join(errs...)
}

func (a *App) stopBackground() error {
	var errs []error
	if a.sweeper != nil {
		if err := a.sweeper.Shutdown(); err != nil {
			errs = append(errs, err)
		}
		a.sweeper = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
		a.db = nil
	}
	return errors.Join(errs...)
}
