// File: internal/jobs/record_retention.go
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const retentionRunTimeout = 5 * time.Minute

// RecordPurger deletes recordings created before a cutoff.
type RecordPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// RecordRetentionConfig controls how long recordings are kept.
type RecordRetentionConfig struct {
	Schedule      string // cron spec, e.g. "@daily"
	RetentionDays int    // 0 keeps recordings forever
}

// RecordRetentionJob periodically purges recordings older than the retention window.
type RecordRetentionJob struct {
	purger        RecordPurger
	cfg           RecordRetentionConfig
	logger        *zap.Logger
	cronScheduler *cron.Cron
	now           func() time.Time
}

// NewRecordRetentionJob creates a new RecordRetentionJob.
func NewRecordRetentionJob(purger RecordPurger, cfg RecordRetentionConfig, logger *zap.Logger) *RecordRetentionJob {
	scheduler := cron.New(
		cron.WithLogger(NewCronLogger(logger.Named("cron"))),
		cron.WithChain(cron.SkipIfStillRunning(NewCronLogger(logger.Named("cron")))),
	)
	return &RecordRetentionJob{
		purger:        purger,
		cfg:           cfg,
		logger:        logger.Named("RecordRetentionJob"),
		cronScheduler: scheduler,
		now:           time.Now,
	}
}

// SetupAndStart schedules and starts the cron job. A zero retention or an
// empty schedule leaves the job unscheduled.
func (j *RecordRetentionJob) SetupAndStart() error {
	if j.cfg.RetentionDays <= 0 {
		j.logger.Info("Record retention disabled (RECORD_RETENTION_DAYS=0)")
		return nil
	}
	if j.cfg.Schedule == "" {
		j.logger.Warn("Record retention job schedule not defined (RECORD_RETENTION_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(j.cfg.Schedule, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule record retention job", zap.String("spec", j.cfg.Schedule), zap.Error(err))
		return err
	}

	j.logger.Info("Record retention job scheduled",
		zap.String("spec", j.cfg.Schedule),
		zap.Int("retentionDays", j.cfg.RetentionDays),
		zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *RecordRetentionJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), retentionRunTimeout)
	defer cancel()
	if _, err := j.RunOnce(ctx); err != nil {
		j.logger.Error("Record retention job run failed", zap.Error(err))
	}
}

// RunOnce purges everything older than the retention window and reports how
// many recordings were removed.
func (j *RecordRetentionJob) RunOnce(ctx context.Context) (int, error) {
	if j.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := j.now().AddDate(0, 0, -j.cfg.RetentionDays)
	j.logger.Info("Starting record retention run", zap.Time("cutoff", cutoff))

	purged, err := j.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	j.logger.Info("Record retention run completed", zap.Int("records_purged", purged))
	return purged, nil
}

// Stop gracefully stops the cron scheduler.
func (j *RecordRetentionJob) Stop() {
	if j.cronScheduler == nil {
		return
	}
	stopCtx := j.cronScheduler.Stop()
	select {
	case <-stopCtx.Done():
		j.logger.Info("Record retention job scheduler stopped.")
	case <-time.After(10 * time.Second):
		j.logger.Warn("Record retention job scheduler stop timed out.")
	}
}
