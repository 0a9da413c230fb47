// File: internal/record/service.go
package record

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"medical_assistant_backend/internal/common"
	"medical_assistant_backend/internal/domain"
	"medical_assistant_backend/internal/filestorage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AudioStorage is the file store recordings are written to.
type AudioStorage interface {
	SaveAudio(fileHeader *multipart.FileHeader, subDir string) (*filestorage.StoredFile, error)
	DeleteFile(relativePath string) error
	FullPath(relativePath string) (string, error)
}

// ProfileSource exposes the signed-in profile.
type ProfileSource interface {
	Current() domain.UserData
}

// Service defines the interface for audio record business logic.
type Service interface {
	CreateRecord(ctx context.Context, req CreateAudioRequest, file *multipart.FileHeader) (*Audio, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*Audio, error)
	ListRecords(ctx context.Context, query ListQuery) ([]Audio, *common.Pagination, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
	// AudioFilePath resolves the on-disk location of a record's audio.
	AudioFilePath(ctx context.Context, id uuid.UUID) (string, *Audio, error)
	// PurgeOlderThan deletes records (and their files) created before cutoff.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ServiceImplementation implements the record Service interface.
type ServiceImplementation struct {
	repo    Repository
	storage AudioStorage
	profile ProfileSource
	logger  *zap.Logger
}

// NewService creates a new audio record service.
func NewService(repo Repository, storage AudioStorage, profile ProfileSource, logger *zap.Logger) Service {
	return &ServiceImplementation{
		repo:    repo,
		storage: storage,
		profile: profile,
		logger:  logger,
	}
}

// resolvePatientID picks the patient a recording belongs to. Patients always
// record for themselves; doctors must name the patient.
func (s *ServiceImplementation) resolvePatientID(requested string) (string, error) {
	u := s.profile.Current()
	switch u.UserType {
	case domain.UserTypePatient:
		if requested != "" && requested != u.PatientID {
			return "", common.ErrUnprocessableEntity.WithDetails("Patients can only upload their own recordings.")
		}
		return u.PatientID, nil
	case domain.UserTypeDoctor:
		if requested == "" {
			return "", common.ErrUnprocessableEntity.WithDetails("patient_id is required when uploading as a doctor.")
		}
		return requested, nil
	default:
		return "", common.ErrUnauthorized.WithDetails("Log in before uploading recordings.")
	}
}

func (s *ServiceImplementation) CreateRecord(ctx context.Context, req CreateAudioRequest, file *multipart.FileHeader) (*Audio, error) {
	if file == nil {
		return nil, common.ErrBadRequest.WithDetails("An audio file is required.")
	}
	emotion, err := ParseEmotion(req.Emotion)
	if err != nil {
		return nil, common.ErrUnprocessableEntity.WithDetails(err.Error())
	}
	patientID, err := s.resolvePatientID(req.PatientID)
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.SaveAudio(file, patientID)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("create record: %w", common.ErrStorageFailure.WithDetails(err.Error()))
	}

	a := &Audio{
		PatientID:  patientID,
		Path:       stored.RelativePath,
		DurationMs: req.DurationMs,
		Emotion:    emotion,
		MIME:       stored.MIME,
		SizeBytes:  stored.Size,
		Checksum:   stored.Checksum,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("Failed to save audio record, removing file", zap.String("path", stored.RelativePath), zap.Error(err))
		if delErr := s.storage.DeleteFile(stored.RelativePath); delErr != nil {
			s.logger.Warn("Failed to remove orphaned audio file", zap.String("path", stored.RelativePath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("create record: %w", common.ErrStorageFailure.WithDetails(err.Error()))
	}

	s.logger.Info("Audio record created",
		zap.String("recordID", a.ID.String()),
		zap.String("patientID", patientID),
		zap.String("emotion", string(emotion)))
	return a, nil
}

// findOwned loads a record the signed-in user may see. Another patient's
// record reads as not found so its existence is not leaked.
func (s *ServiceImplementation) findOwned(ctx context.Context, id uuid.UUID) (*Audio, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u := s.profile.Current(); u.UserType == domain.UserTypePatient && a.PatientID != u.PatientID {
		return nil, common.ErrNotFound.WithDetails("Audio record not found.")
	}
	return a, nil
}

func (s *ServiceImplementation) GetRecord(ctx context.Context, id uuid.UUID) (*Audio, error) {
	return s.findOwned(ctx, id)
}

// ListRecords lists recordings newest first. Patients only ever see their own;
// doctors may filter by any patient or list everything.
func (s *ServiceImplementation) ListRecords(ctx context.Context, query ListQuery) ([]Audio, *common.Pagination, error) {
	patientID := query.PatientID
	if u := s.profile.Current(); u.UserType == domain.UserTypePatient {
		if patientID != "" && patientID != u.PatientID {
			return nil, nil, common.ErrUnprocessableEntity.WithDetails("Patients can only list their own recordings.")
		}
		patientID = u.PatientID
	}
	return s.repo.List(ctx, patientID, common.NormalizePage(query.Page, query.PageSize))
}

func (s *ServiceImplementation) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	a, err := s.findOwned(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.storage.DeleteFile(a.Path); err != nil {
		// the row is gone; a stray file is only logged
		s.logger.Warn("Failed to delete audio file", zap.String("recordID", id.String()), zap.String("path", a.Path), zap.Error(err))
	}
	s.logger.Info("Audio record deleted", zap.String("recordID", id.String()))
	return nil
}

func (s *ServiceImplementation) AudioFilePath(ctx context.Context, id uuid.UUID) (string, *Audio, error) {
	a, err := s.findOwned(ctx, id)
	if err != nil {
		return "", nil, err
	}
	p, err := s.storage.FullPath(a.Path)
	if err != nil {
		return "", nil, fmt.Errorf("resolve audio path: %w", err)
	}
	return p, a, nil
}

func (s *ServiceImplementation) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	old, err := s.repo.FindCreatedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if len(old) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(old))
	for i, a := range old {
		ids[i] = a.ID
	}
	deleted, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	for _, a := range old {
		if err := s.storage.DeleteFile(a.Path); err != nil {
			s.logger.Warn("Failed to delete expired audio file", zap.String("path", a.Path), zap.Error(err))
		}
	}
	return int(deleted), nil
}
