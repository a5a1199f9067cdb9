// Package jobs runs the marketplace's scheduled background work.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StayCompleter marks finished stays as completed.
type StayCompleter interface {
	CompleteFinishedStays(ctx context.Context, now time.Time) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	log     *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		timeout: 5 * time.Minute,
		log:     log.With(zap.String("component", "jobs")),
	}
}

// ScheduleStayCompletion registers the stay completion run on schedule, a cron
// expression or descriptor such as "@every 1h".
func (s *Scheduler) ScheduleStayCompletion(schedule string, completer StayCompleter) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.runStayCompletion(completer)
	})
	if err != nil {
		return fmt.Errorf("schedule stay completion %q: %w", schedule, err)
	}

	s.log.Info("Scheduled stay completion", zap.String("schedule", schedule))
	return nil
}

func (s *Scheduler) runStayCompletion(completer StayCompleter) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := completer.CompleteFinishedStays(ctx, start.UTC())
	if err != nil {
		s.log.Error("Stay completion failed", zap.Error(err))
		return
	}

	s.log.Debug("Stay completion finished",
		zap.Int("completed", n),
		zap.Duration("duration", time.Since(start)),
	)
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Timed out waiting for running jobs")
	}
}
