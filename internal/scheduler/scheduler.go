// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of background work. Run receives a context that is canceled on Stop.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// Scheduler triggers registered jobs from a cron table evaluated in UTC.
// A job whose previous run has not returned yet is skipped rather than stacked.
type Scheduler struct {
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	log      zerolog.Logger
}

// New returns a scheduler whose expressions take a leading seconds field.
func New(log zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx:    ctx,
		cancel: cancel,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins firing jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("Scheduler started")
}

// Stop cancels the context of running jobs and blocks until they have returned.
// Calling Stop more than once is a no-op.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.cron.Stop().Done()
		s.log.Info().Msg("Scheduler stopped")
	})
}

// AddJob registers job under a cron expression, for example:
//   - "0 30 22 * * 1-5"    22:30 UTC on weekdays
//   - "0 */15 * * * *"     every 15 minutes
//   - "@every 30s"
//
// Failed runs are logged; the job stays scheduled.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	if _, err := s.cron.AddFunc(schedule, func() { _ = s.execute(job) }); err != nil {
		return err
	}

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")
	return nil
}

// RunNow runs job synchronously, outside of its schedule, and returns its error.
func (s *Scheduler) RunNow(job Job) error {
	return s.execute(job)
}

func (s *Scheduler) execute(job Job) error {
	start := time.Now()
	err := job.Run(s.ctx)

	event := s.log.Info()
	if err != nil {
		event = s.log.Error().Err(err)
	}
	event.
		Str("job", job.Name()).
		Dur("duration", time.Since(start)).
		Msg("Job finished")
	return err
}
