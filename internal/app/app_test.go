package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/futalyst/internal/config"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                  config.EnvDev,
		ServiceName:             "futalyst-api",
		HTTPAddr:                "127.0.0.1:0",
		ReadTimeout:             time.Second,
		WriteTimeout:            time.Second,
		CacheEnabled:            true,
		CacheTTL:                time.Minute,
		CORSAllowedOrigins:      []string{"*"},
		DefaultGameVersion:      "fc25",
		AnubisBaseURL:           "http://127.0.0.1:1",
		AnubisTimeout:           time.Second,
		CompletionSweepInterval: time.Minute,
		CompletionWorkers:       2,
	}
}

func TestNew_MemoryStore(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if a.db != nil {
		t.Fatalf("expected no database for memory store")
	}
	if a.sweeper != nil {
		t.Fatalf("expected sweeper to be disabled")
	}

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status=%d", rec.Code)
	}

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestNew_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	if _, err := New(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNew_SweeperAndScheduler(t *testing.T) {
	cfg := memoryConfig()
	cfg.CompletionSweepEnabled = true
	cfg.QStashEnabled = true
	cfg.QStashBaseURL = "http://127.0.0.1:1"
	cfg.QStashToken = "token"
	cfg.QStashTargetBaseURL = "http://127.0.0.1:2"
	cfg.InternalJobToken = "job"

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if a.sweeper == nil {
		t.Fatalf("expected sweeper when COMPLETION_SWEEP_ENABLED=true")
	}
	if a.completionScheduler() == nil {
		t.Fatalf("expected qstash scheduler when QSTASH_ENABLED=true")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := memoryConfig()
	cfg.CompletionSweepEnabled = true

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("run did not return after cancel")
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := a.Shutdown(shutdownCtx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
