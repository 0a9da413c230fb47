// File: internal/patient/repository.go
package patient

import (
	"context"
	"errors"
	"fmt"

	"medical_assistant_backend/internal/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for patient registry data operations.
type Repository interface {
	Upsert(ctx context.Context, p *Patient) error
	FindByExternalID(ctx context.Context, externalID string) (*Patient, error)
	List(ctx context.Context, userType string, page common.PageRequest) ([]Patient, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM patient repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Upsert inserts the patient or refreshes the existing row with the same external id.
func (r *gormRepository) Upsert(ctx context.Context, p *Patient) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"user_type", "name", "sex", "born_date", "address", "problem_description",
			"treatment_date", "specialty", "occupation", "last_login_at", "updated_at",
		}),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("failed to upsert patient %s: %w", p.ExternalID, err)
	}
	return nil
}

// FindByExternalID retrieves a patient by its patient or doctor id.
func (r *gormRepository) FindByExternalID(ctx context.Context, externalID string) (*Patient, error) {
	var p Patient
	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Patient not found.")
		}
		return nil, err
	}
	return &p, nil
}

// List returns registry entries, most recent login first.
func (r *gormRepository) List(ctx context.Context, userType string, page common.PageRequest) ([]Patient, *common.Pagination, error) {
	query := r.db.WithContext(ctx).Model(&Patient{})
	if userType != "" {
		query = query.Where("user_type = ?", userType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count patients: %w", err)
	}

	var patients []Patient
	err := query.Order("last_login_at DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&patients).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, common.NewPagination(total, page.Page, page.PageSize), nil
}
