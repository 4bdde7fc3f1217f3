// Package jobs holds scheduled entitlement maintenance.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Resetter rolls expired usage periods forward.
type Resetter interface {
	ResetExpiredPeriods(ctx context.Context, now time.Time) (int, error)
}

// UsageReset runs the period reset on a cron schedule (UTC). Usage
// consumption also rolls periods lazily, so a missed tick only delays the
// counters shown on the dashboard.
type UsageReset struct {
	resetter Resetter
	schedule cron.Schedule
	expr     string
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*UsageReset)

func WithLogger(logger *slog.Logger) Option {
	return func(j *UsageReset) { j.logger = logger }
}

func WithClock(now func() time.Time) Option {
	return func(j *UsageReset) { j.now = now }
}

// NewUsageReset parses a standard five-field cron spec or a descriptor such
// as "@monthly".
func NewUsageReset(resetter Resetter, expr string, opts ...Option) (*UsageReset, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("parse usage reset schedule %q: %w", expr, err)
	}
	j := &UsageReset{
		resetter: resetter,
		schedule: schedule,
		expr:     expr,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// RunOnce performs a single reset pass.
func (j *UsageReset) RunOnce(ctx context.Context) error {
	start := j.now()
	n, err := j.resetter.ResetExpiredPeriods(ctx, start.UTC())
	if err != nil {
		j.logger.ErrorContext(ctx, "usage reset failed", "error", err)
		return err
	}
	j.logger.InfoContext(ctx, "usage reset completed",
		"users_reset", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Next reports when the job fires after t.
func (j *UsageReset) Next(t time.Time) time.Time {
	return j.schedule.Next(t.UTC())
}

// Run does a catch-up pass, then fires on schedule until ctx is done. It
// waits for an in-flight pass before returning.
func (j *UsageReset) Run(ctx context.Context) error {
	_ = j.RunOnce(ctx)

	c := cron.New(cron.WithLocation(time.UTC))
	c.Schedule(j.schedule, cron.FuncJob(func() {
		_ = j.RunOnce(ctx)
	}))
	c.Start()
	j.logger.InfoContext(ctx, "usage reset scheduled", "schedule", j.expr, "next", j.Next(j.now()))

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
