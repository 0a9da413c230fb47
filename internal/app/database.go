// File: internal/app/database.go
package app

import (
	"fmt"

	"medical_assistant_backend/internal/config"
	"medical_assistant_backend/internal/datastore"
	"medical_assistant_backend/internal/patient"
	"medical_assistant_backend/internal/platform/database"
	"medical_assistant_backend/internal/record"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table the service owns.
func Models() []interface{} {
	return []interface{}{
		&datastore.UserPreferences{},
		&patient.Patient{},
		&record.Audio{},
	}
}

// NewDatabase opens and migrates the database. The returned cleanup closes it.
func NewDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db, Models()...); err != nil {
		database.CloseGORMDB(db, logger)
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, func() { database.CloseGORMDB(db, logger) }, nil
}
