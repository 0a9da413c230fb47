// File: cmd/server/main.go
package main

import (
	"context"
	"flag"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"syscall"

	"medical_assistant_backend/internal/app"
	"medical_assistant_backend/internal/config"
	"medical_assistant_backend/internal/datastore"
	"medical_assistant_backend/internal/jobs"
	"medical_assistant_backend/internal/platform/logger"
	"medical_assistant_backend/internal/record"
	"medical_assistant_backend/internal/user"

	"go.uber.org/zap"
)

func main() {
	purgeCmd := flag.NewFlagSet("purge-records", flag.ExitOnError)
	days := purgeCmd.Int("days", 0, "Delete recordings older than this many days (defaults to RECORD_RETENTION_DAYS)")

	if len(os.Args) > 1 && os.Args[1] == "purge-records" {
		_ = purgeCmd.Parse(os.Args[2:])
		if err := runPurge(*days); err != nil {
			log.Fatalf("FATAL: Record purge failed: %v", err)
		}
		return
	}

	startServer()
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// runPurge deletes old recordings once and exits. days overrides RECORD_RETENTION_DAYS when positive.
func runPurge(days int) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if days > 0 {
		cfg.RecordRetentionDays = days
	}
	if cfg.RecordRetentionDays <= 0 {
		log.Println("INFO: Retention is disabled; pass -days or set RECORD_RETENTION_DAYS.")
		return nil
	}

	appLogger, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	db, closeDB, err := app.NewDatabase(cfg, appLogger)
	if err != nil {
		return err
	}
	defer closeDB()

	storage, err := provideFileStorage(cfg, appLogger)
	if err != nil {
		return err
	}
	profiles, err := user.NewRepository(datastore.NewPreferencesDataSource(db, appLogger), appLogger)
	if err != nil {
		return err
	}
	svc := provideRecordService(record.NewGORMRepository(db), storage, profiles, appLogger)

	job := jobs.NewRecordRetentionJob(svc, jobs.RecordRetentionConfig{RetentionDays: cfg.RecordRetentionDays}, appLogger)
	purged, err := job.RunOnce(context.Background())
	if err != nil {
		return err
	}
	appLogger.Info("Record purge completed", zap.Int("purged", purged), zap.Int("retentionDays", cfg.RecordRetentionDays))
	return nil
}
