package scheduler

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-co-op/gocron/v2"
	"github.com/riskibarqy/futalyst/internal/platform/logging"
	"github.com/riskibarqy/futalyst/internal/usecase"
)

const (
	defaultSweepInterval = time.Minute
	defaultSweepTimeout  = 2 * time.Minute
)

type dueCompleter interface {
	CompleteDue(ctx context.Context) (usecase.CompletionResult, error)
}

// CompletionSweeper periodically completes leagues whose end date passed.
// It backs up the per-league QStash callback.
type CompletionSweeper struct {
	completer dueCompleter
	interval  time.Duration
	timeout   time.Duration
	logger    *logging.Logger
	scheduler gocron.Scheduler
}

func NewCompletionSweeper(completer dueCompleter, interval time.Duration, logger *logging.Logger) *CompletionSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CompletionSweeper{
		completer: completer,
		interval:  interval,
		timeout:   defaultSweepTimeout,
		logger:    logger,
	}
}

func (s *CompletionSweeper) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return crerr.Wrap(err, "create completion scheduler")
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweep),
		gocron.WithName("complete-due-leagues"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return crerr.Wrap(err, "register completion sweep job")
	}

	sched.Start()
	s.scheduler = sched
	s.logger.Info("completion sweeper started", "interval", s.interval.String())
	return nil
}

func (s *CompletionSweeper) Shutdown() error {
	if s.scheduler == nil {
		return nil
	}
	if err := s.scheduler.Shutdown(); err != nil {
		return crerr.Wrap(err, "shutdown completion scheduler")
	}
	return nil
}

func (s *CompletionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce runs a single sweep and logs its outcome.
func (s *CompletionSweeper) RunOnce(ctx context.Context) usecase.CompletionResult {
	result, err := s.completer.CompleteDue(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "complete due leagues failed", "error", err)
		return result
	}
	if result.Due == 0 {
		return result
	}

	log := s.logger.InfoContext
	if result.Failed > 0 {
		log = s.logger.WarnContext
	}
	log(ctx, "complete due leagues finished",
		"due", result.Due,
		"completed", result.Completed,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result
}
