// Package maintenance schedules background hygiene tasks. The only task is
// sweeping expired login-attempt records; the auth core stays correct
// without it because block checks self-heal lazily.
package maintenance

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mimirlabs/mimir/pkg/logger"
)

const defaultSweepSpec = "@hourly"

// AttemptSweeper purges dead attempt records and reports how many it removed.
type AttemptSweeper interface {
	SweepExpired() int
}

// Cleaner runs the sweep on a cron schedule.
type Cleaner struct {
	cron    *cron.Cron
	sweeper AttemptSweeper
	spec    string
	log     *zap.Logger
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithSweepSchedule overrides the cron specification for the sweep.
func WithSweepSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.spec = spec
		}
	}
}

// NewCleaner constructs a Cleaner with an hourly default schedule.
func NewCleaner(sweeper AttemptSweeper, opts ...Option) (*Cleaner, error) {
	if sweeper == nil {
		return nil, errors.New("maintenance: sweeper is required")
	}

	cleaner := &Cleaner{
		sweeper: sweeper,
		spec:    defaultSweepSpec,
		log:     logger.WithModule("maintenance"),
	}
	for _, opt := range opts {
		opt(cleaner)
	}
	if cleaner.cron == nil {
		cleaner.cron = cron.New()
	}

	return cleaner, nil
}

// Start registers the sweep job and starts the scheduler.
func (c *Cleaner) Start() error {
	if _, err := c.cron.AddFunc(c.spec, c.RunOnce); err != nil {
		return err
	}
	c.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (c *Cleaner) Stop() {
	ctx := c.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		c.log.Warn("sweep did not finish before shutdown")
	}
}

// RunOnce executes a single sweep. Exposed for tests and manual triggers.
func (c *Cleaner) RunOnce() {
	purged := c.sweeper.SweepExpired()
	if purged > 0 {
		c.log.Info("swept expired login attempts", zap.Int("purged", purged))
	}
}
