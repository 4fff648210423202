package rates

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"subtracker/internal/models"

	"github.com/go-co-op/gocron/v2"
)

type Refreshable interface {
	Refresh(ctx context.Context) ([]models.ExchangeRate, error)
}

// Scheduler runs the refresh on a fixed interval, starting immediately. A
// slow refresh delays the next run instead of overlapping it.
type Scheduler struct {
	scheduler gocron.Scheduler
	cancel    context.CancelFunc
	logger    *slog.Logger
}

func NewScheduler(refresher Refreshable, interval, timeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	run := func() {
		runCtx := ctx
		if timeout > 0 {
			var done context.CancelFunc
			runCtx, done = context.WithTimeout(ctx, timeout)
			defer done()
		}
		if _, err := refresher.Refresh(runCtx); err != nil {
			logger.Warn("scheduled rate refresh failed, keeping stored rates", "error", err)
		}
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(run),
		gocron.WithName("exchange-rate-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("schedule rate refresh: %w", err)
	}
	return &Scheduler{scheduler: scheduler, cancel: cancel, logger: logger}, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("starting rate refresh scheduler")
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	s.logger.Info("stopping rate refresh scheduler")
	s.cancel()
	return s.scheduler.Shutdown()
}
