// File: internal/patient/service.go
package patient

import (
	"context"
	"fmt"
	"time"

	"medical_assistant_backend/internal/common"
	"medical_assistant_backend/internal/domain"

	"go.uber.org/zap"
)

// Service defines the interface for patient registry business logic.
type Service interface {
	// InsertPatient records the profile that just logged in.
	InsertPatient(ctx context.Context, u domain.UserData) error
	List(ctx context.Context, query ListQuery) ([]Patient, *common.Pagination, error)
}

// ServiceImplementation implements the patient Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new patient service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ServiceImplementation) InsertPatient(ctx context.Context, u domain.UserData) error {
	if err := u.ValidateRole(); err != nil {
		return fmt.Errorf("insert patient: %w", common.ErrInvalidProfileState.WithDetails(err.Error()))
	}
	p := fromUserData(u, s.now().UTC())
	if err := s.repo.Upsert(ctx, p); err != nil {
		s.logger.Error("Failed to register patient", zap.String("externalID", p.ExternalID), zap.Error(err))
		return fmt.Errorf("insert patient: %w", common.ErrStorageFailure.WithDetails(err.Error()))
	}
	s.logger.Info("Patient registered", zap.String("externalID", p.ExternalID), zap.String("userType", string(p.UserType)))
	return nil
}

func (s *ServiceImplementation) List(ctx context.Context, query ListQuery) ([]Patient, *common.Pagination, error) {
	return s.repo.List(ctx, query.UserType, common.NormalizePage(query.Page, query.PageSize))
}
