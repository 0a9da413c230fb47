// File: internal/record/repository.go
package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medical_assistant_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for audio record data operations.
type Repository interface {
	Create(ctx context.Context, a *Audio) error
	FindByID(ctx context.Context, id uuid.UUID) (*Audio, error)
	List(ctx context.Context, patientID string, page common.PageRequest) ([]Audio, *common.Pagination, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]Audio, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM audio record repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, a *Audio) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("failed to create audio record: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Audio, error) {
	var a Audio
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Audio record not found.")
		}
		return nil, err
	}
	return &a, nil
}

// List returns records newest first, optionally for one patient.
func (r *gormRepository) List(ctx context.Context, patientID string, page common.PageRequest) ([]Audio, *common.Pagination, error) {
	query := r.db.WithContext(ctx).Model(&Audio{})
	if patientID != "" {
		query = query.Where("patient_id = ?", patientID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count audio records: %w", err)
	}

	var records []Audio
	err := query.Order("created_at DESC").Offset(page.Offset()).Limit(page.PageSize).Find(&records).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list audio records: %w", err)
	}
	return records, common.NewPagination(total, page.Page, page.PageSize), nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Audio{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete audio record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Audio record not found.")
	}
	return nil
}

func (r *gormRepository) FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]Audio, error) {
	var records []Audio
	err := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Order("created_at ASC").Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find audio records before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return records, nil
}

func (r *gormRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Audio{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete audio records: %w", result.Error)
	}
	return result.RowsAffected, nil
}
