// File: internal/datastore/preferences.go
package datastore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"medical_assistant_backend/internal/common"
	"medical_assistant_backend/internal/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferencesDataSource is the durable key-value store behind the user profile.
// Writes are serialized and committed before they return.
type PreferencesDataSource struct {
	db     *gorm.DB
	logger *zap.Logger
	mu     sync.Mutex
}

// NewPreferencesDataSource creates a new preferences store.
func NewPreferencesDataSource(db *gorm.DB, logger *zap.Logger) *PreferencesDataSource {
	return &PreferencesDataSource{db: db, logger: logger.Named("PreferencesDataSource")}
}

// UserData returns the stored profile, or the first-launch defaults when nothing was written yet.
func (s *PreferencesDataSource) UserData(ctx context.Context) (domain.UserData, error) {
	u, err := load(s.db.WithContext(ctx))
	if err != nil {
		s.logger.Error("Failed to read preferences", zap.Error(err))
		return domain.UserData{}, storageFailure("read preferences", err)
	}
	return u, nil
}

// Update applies fn to the stored profile in one transaction and returns the committed value.
func (s *PreferencesDataSource) Update(ctx context.Context, fn func(*domain.UserData)) (domain.UserData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var committed domain.UserData
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := load(tx)
		if err != nil {
			return err
		}
		fn(&current)

		row := fromDomain(current)
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return err
		}
		committed = current
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to write preferences", zap.Error(err))
		return domain.UserData{}, storageFailure("write preferences", err)
	}
	return committed, nil
}

// SetUserData overwrites the whole stored profile.
func (s *PreferencesDataSource) SetUserData(ctx context.Context, u domain.UserData) (domain.UserData, error) {
	return s.Update(ctx, func(cur *domain.UserData) { *cur = u })
}

func (s *PreferencesDataSource) SetShouldHideOnboarding(ctx context.Context, hide bool) (domain.UserData, error) {
	return s.Update(ctx, func(cur *domain.UserData) { cur.ShouldHideOnboarding = hide })
}

func (s *PreferencesDataSource) SetDynamicColorPreference(ctx context.Context, use bool) (domain.UserData, error) {
	return s.Update(ctx, func(cur *domain.UserData) { cur.UseDynamicColor = use })
}

func (s *PreferencesDataSource) SetThemeBrand(ctx context.Context, brand domain.ThemeBrand) (domain.UserData, error) {
	return s.Update(ctx, func(cur *domain.UserData) { cur.ThemeBrand = brand })
}

func (s *PreferencesDataSource) SetDarkThemeConfig(ctx context.Context, mode domain.DarkThemeConfig) (domain.UserData, error) {
	return s.Update(ctx, func(cur *domain.UserData) { cur.DarkThemeConfig = mode })
}

func load(db *gorm.DB) (domain.UserData, error) {
	var row UserPreferences
	err := db.Where("id = ?", preferencesRowID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DefaultUserData(), nil
	}
	if err != nil {
		return domain.UserData{}, err
	}
	return row.toDomain(), nil
}

func storageFailure(op string, err error) error {
	return fmt.Errorf("%s: %w", op, common.ErrStorageFailure.WithDetails(err.Error()))
}
