// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"medical_assistant_backend/internal/app"
	"medical_assistant_backend/internal/config"
	"medical_assistant_backend/internal/datastore"
	"medical_assistant_backend/internal/patient"
	"medical_assistant_backend/internal/platform/logger"
	"medical_assistant_backend/internal/record"
	"medical_assistant_backend/internal/uistate"
	"medical_assistant_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		app.NewDatabase,

		// Profile
		datastore.NewPreferencesDataSource,
		wire.Bind(new(user.PreferencesStore), new(*datastore.PreferencesDataSource)),
		user.NewRepository,
		user.NewHandler,
		provideProjector,
		uistate.NewHandler,

		// Patient registry
		patient.NewGORMRepository,
		patient.NewService,
		patient.NewHandler,

		// Session
		provideCredentials,
		provideAttemptLimiter,
		provideSessionFlow,
		provideAuthHandler,

		// Audio records
		provideFileStorage,
		record.NewGORMRepository,
		provideRecordService,
		provideRecordHandler,
		provideRetentionJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
