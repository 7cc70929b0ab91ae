// Package cleanup purges archived incidents that have passed their
// retention period.
package cleanup

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mdrrmo/respond/internal/incident/domain"
	"github.com/mdrrmo/respond/internal/shared/config"
)

// Job periodically deletes expired archived incidents
type Job struct {
	repo      domain.Repository
	cron      *cron.Cron
	retention time.Duration
	schedule  string
	logger    *zap.Logger
}

// New builds the retention job. Returns nil when cleanup is disabled.
func New(repo domain.Repository, cfg config.CleanupConfig, logger *zap.Logger) *Job {
	if !cfg.Enabled {
		return nil
	}
	return &Job{
		repo:      repo,
		cron:      cron.New(),
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		schedule:  cfg.Schedule,
		logger:    logger,
	}
}

// Start registers the schedule and begins running in the background
func (j *Job) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		j.Run(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("archive retention job started",
		zap.String("schedule", j.schedule),
		zap.Duration("retention", j.retention))
	return nil
}

// Run executes one purge pass
func (j *Job) Run(ctx context.Context) {
	cutoff := time.Now().Add(-j.retention)

	deleted, err := j.repo.DeleteArchivedBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("archive retention purge failed", zap.Error(err))
		return
	}

	if deleted > 0 {
		j.logger.Info("purged expired archived incidents",
			zap.Int("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
}

// Stop halts the scheduler and waits for a running purge to finish
func (j *Job) Stop() {
	stopCtx := j.cron.Stop()
	<-stopCtx.Done()
}
