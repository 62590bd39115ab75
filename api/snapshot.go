/*
snapshot.go - Nightly portfolio valuation snapshots

PURPOSE:
  Records one valuation row per user per day so the dashboard can chart
  portfolio value over time. Runs on a cron schedule (default 02:00) and
  can be invoked directly for catch-up runs.

DESIGN:
  - robfig/cron drives the schedule; RunOnce does one pass
  - Iterates every user holding at least one position
  - Writes through SavePortfolioSnapshot (idempotent per user+day)
  - A failure for one user is logged and does not stop the pass

USAGE:
  job := NewSnapshotJob(store, clock, log)
  stop, err := job.Start("0 2 * * *")
  // ... on shutdown
  stop()

SEE ALSO:
  - handlers.go: Performance endpoint serves the recorded history
  - store/sqlite: portfolio_snapshots table
*/
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/warp/finance-engine/finance"
	"github.com/warp/finance-engine/invest"
)

// SnapshotJob records daily portfolio valuations for every user.
type SnapshotJob struct {
	Store Store
	Clock finance.Clock
	Log   zerolog.Logger
}

// NewSnapshotJob creates a snapshot job. A nil clock means system time.
func NewSnapshotJob(store Store, clock finance.Clock, log zerolog.Logger) *SnapshotJob {
	if clock == nil {
		clock = finance.SystemClock{}
	}
	return &SnapshotJob{Store: store, Clock: clock, Log: log}
}

// Start schedules the job with the given cron spec and returns a stop
// function. The stop function waits for an in-flight run to finish.
func (j *SnapshotJob) Start(spec string) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := j.RunOnce(context.Background()); err != nil {
			j.Log.Error().Err(err).Msg("portfolio snapshot run failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", spec, err)
	}
	c.Start()
	j.Log.Info().Str("schedule", spec).Msg("portfolio snapshot job started")

	return func() {
		ctx := c.Stop()
		<-ctx.Done()
	}, nil
}

// RunOnce snapshots every user's portfolio at the clock's current time.
func (j *SnapshotJob) RunOnce(ctx context.Context) error {
	userIDs, err := j.Store.ListInvestmentUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	now := j.Clock.Now()
	var failed int
	for _, user := range userIDs {
		if err := j.snapshotUser(ctx, user, now); err != nil {
			failed++
			j.Log.Error().Err(err).Str("user", user).Msg("portfolio snapshot failed")
		}
	}
	j.Log.Info().Int("users", len(userIDs)).Int("failed", failed).Msg("portfolio snapshot pass complete")

	if failed > 0 {
		return fmt.Errorf("%d of %d snapshots failed", failed, len(userIDs))
	}
	return nil
}

func (j *SnapshotJob) snapshotUser(ctx context.Context, user string, now time.Time) error {
	investments, err := j.Store.ListInvestments(ctx, user)
	if err != nil {
		return err
	}
	if len(investments) == 0 {
		return nil
	}

	overall := invest.OverallPerformance(investments, finance.FixedClock{At: now})
	return j.Store.SavePortfolioSnapshot(ctx, invest.HistoryPoint{
		UserID:           user,
		Date:             now,
		TotalValue:       overall.TotalValue,
		AnnualizedReturn: overall.AnnualizedReturn,
	})
}
