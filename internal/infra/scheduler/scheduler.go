package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"availability_notification_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// runTimeout bounds a single pipeline pass triggered by the cron engine.
const runTimeout = 5 * time.Minute

// PipelineRunner triggers one availability pipeline pass.
type PipelineRunner interface {
	Run(ctx context.Context) (*app.RunReport, error)
}

// RunScheduler triggers the pipeline on a cron spec. Runs are non-reentrant:
// a tick that fires while a previous run is still in flight is skipped.
type RunScheduler struct {
	cronEngine *cron.Cron
	runner     PipelineRunner
	logger     *logrus.Logger
	cronSpec   string
	inFlight   atomic.Bool
}

// NewRunScheduler builds a scheduler whose spec is evaluated in loc, so a
// "daily at 08:00" spec fires at 08:00 of the notification day regardless of
// the host's local timezone.
func NewRunScheduler(runner PipelineRunner, logger *logrus.Logger, cronSpec string, loc *time.Location) *RunScheduler {
	return &RunScheduler{
		cronEngine: cron.New(cron.WithLocation(loc)),
		runner:     runner,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *RunScheduler) Start() error {
	s.logger.Infof("Starting run scheduler with spec %q...", s.cronSpec)

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		if !s.inFlight.CompareAndSwap(false, true) {
			s.logger.Warn("Previous run still in flight, skipping this tick")
			return
		}
		defer s.inFlight.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()

		report, err := s.runner.Run(ctx)
		if err != nil {
			s.logger.Errorf("Error during scheduled run: %v", err)
			return
		}
		s.logger.Infof("Scheduled run finished: terminal=%s outcome=%s newEvents=%d persisted=%t",
			report.Terminal, report.Outcome, report.NewEvents, report.Persisted)
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Info("Run scheduler started.")
	return nil
}

func (s *RunScheduler) Stop() {
	s.logger.Info("Stopping run scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Run scheduler gracefully stopped.")
}
