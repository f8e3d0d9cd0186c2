package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSnapshotTimeout bounds a single run of the snapshot job.
const DefaultSnapshotTimeout = 10 * time.Minute

// snapshotter is satisfied by *service.SnapshotService.
type snapshotter interface {
	CreateSnapshotsForAllPortfolios(ctx context.Context, date time.Time) (int, error)
}

// SnapshotJob stores the end-of-day valuation of every portfolio for the current UTC date.
type SnapshotJob struct {
	snapshots snapshotter
	timeout   time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewSnapshotJob creates a SnapshotJob. A non-positive timeout uses DefaultSnapshotTimeout.
func NewSnapshotJob(snapshots snapshotter, timeout time.Duration, log zerolog.Logger) *SnapshotJob {
	if timeout <= 0 {
		timeout = DefaultSnapshotTimeout
	}
	return &SnapshotJob{
		snapshots: snapshots,
		timeout:   timeout,
		now:       time.Now,
		log:       log.With().Str("job", "portfolio_snapshot").Logger(),
	}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "portfolio_snapshot"
}

// Run snapshots all portfolios. Partial failures are returned after the remaining
// portfolios have been processed.
func (j *SnapshotJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	date := j.now().UTC()
	created, err := j.snapshots.CreateSnapshotsForAllPortfolios(ctx, date)
	j.log.Info().
		Int("created", created).
		Str("date", date.Format("2006-01-02")).
		Msg("Snapshot run finished")
	if err != nil {
		return fmt.Errorf("snapshot run for %s: %w", date.Format("2006-01-02"), err)
	}
	return nil
}
