// File: cmd/server/providers.go
package main

import (
	"medical_assistant_backend/internal/auth"
	"medical_assistant_backend/internal/config"
	"medical_assistant_backend/internal/filestorage"
	"medical_assistant_backend/internal/jobs"
	"medical_assistant_backend/internal/patient"
	"medical_assistant_backend/internal/record"
	"medical_assistant_backend/internal/uistate"
	"medical_assistant_backend/internal/user"

	"go.uber.org/zap"
)

func provideCredentials() auth.CredentialChecker {
	return auth.NewStaticCredentials()
}

func provideAttemptLimiter(cfg *config.Config) auth.AttemptLimiter {
	return auth.NewInMemoryAttemptLimiter(auth.AttemptLimiterConfig{
		MaxAttempts: cfg.LoginMaxAttempts,
		Window:      cfg.LoginLockout,
	})
}

func provideSessionFlow(
	cfg *config.Config,
	repo user.Repository,
	patients patient.Service,
	credentials auth.CredentialChecker,
	limiter auth.AttemptLimiter,
	logger *zap.Logger,
) *auth.Flow {
	return auth.NewFlow(repo, patients, credentials, limiter, cfg.LoginDelay, logger)
}

func provideAuthHandler(cfg *config.Config, flow *auth.Flow, logger *zap.Logger) *auth.Handler {
	return auth.NewHandler(flow, cfg.SessionWSBuffer, logger.Named("AuthHandler"))
}

func provideProjector(cfg *config.Config, repo user.Repository, logger *zap.Logger) *uistate.Projector {
	return uistate.NewProjector(repo, cfg.UIStateGrace, logger)
}

func provideFileStorage(cfg *config.Config, logger *zap.Logger) (*filestorage.FileStorageService, error) {
	return filestorage.NewFileStorageService(cfg.RecordingsPath, int64(cfg.MaxRecordingSizeMB)<<20, logger.Named("FileStorage"))
}

func provideRecordService(
	repo record.Repository,
	storage *filestorage.FileStorageService,
	profiles user.Repository,
	logger *zap.Logger,
) record.Service {
	return record.NewService(repo, storage, profiles, logger.Named("RecordService"))
}

func provideRecordHandler(cfg *config.Config, svc record.Service, logger *zap.Logger) *record.Handler {
	// in-memory part of the form; the rest spills to disk
	return record.NewHandler(svc, int64(cfg.MaxRecordingSizeMB)<<20, logger.Named("RecordHandler"))
}

func provideRetentionJob(cfg *config.Config, svc record.Service, logger *zap.Logger) *jobs.RecordRetentionJob {
	return jobs.NewRecordRetentionJob(svc, jobs.RecordRetentionConfig{
		Schedule:      cfg.RecordRetentionJobSchedule,
		RetentionDays: cfg.RecordRetentionDays,
	}, logger)
}
