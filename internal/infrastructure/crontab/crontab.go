// Package crontab schedules the retention sweep.
package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"pinshare/internal/domain/file"
)

// SweepJobTimeout bounds one sweep run.
const SweepJobTimeout = 10 * time.Minute

// Crontab runs background jobs on cron schedules.
type Crontab struct {
	ctab        *crontab.Crontab
	fileService *file.Service
	schedule    string
	log         zerolog.Logger
}

func NewCrontab(fileService *file.Service, schedule string, log zerolog.Logger) *Crontab {
	return &Crontab{
		ctab:        crontab.New(),
		fileService: fileService,
		schedule:    schedule,
		log:         log.With().Str("component", "crontab").Logger(),
	}
}

// Run registers the jobs and blocks until the context is cancelled.
func (c *Crontab) Run(ctx context.Context) error {
	// execute once on server start
	c.sweep(ctx)

	if err := c.ctab.AddJob(c.schedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), SweepJobTimeout)
		defer cancel()
		c.sweep(jobCtx)
	}); err != nil {
		return err
	}
	c.log.Info().Str("schedule", c.schedule).Msg("retention sweep scheduled")

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) sweep(ctx context.Context) {
	removed, err := c.fileService.SweepExpired(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("retention sweep failed")
		return
	}
	if removed > 0 {
		c.log.Info().Int("removed", removed).Msg("retention sweep completed")
	}
}
