package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical_assistant_backend/internal/common"
	"medical_assistant_backend/internal/network"
	"medical_assistant_backend/internal/platform/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPatientRepository is a mock type for patient.Repository
type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) Upsert(ctx context.Context, p *Patient) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPatientRepository) FindByExternalID(ctx context.Context, externalID string) (*Patient, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Patient), args.Error(1)
}

func (m *MockPatientRepository) List(ctx context.Context, userType string, page common.PageRequest) ([]Patient, *common.Pagination, error) {
	args := m.Called(ctx, userType, page)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]Patient), args.Get(1).(*common.Pagination), args.Error(2)
}

func newSQLiteService(t *testing.T) (*ServiceImplementation, Repository) {
	repo := NewGORMRepository(database.NewTestDB(t, &Patient{}))
	return NewService(repo, zap.NewNop()).(*ServiceImplementation), repo
}

func TestInsertPatient_PatientAndDoctor(t *testing.T) {
	svc, repo := newSQLiteService(t)
	ctx := context.Background()

	require.NoError(t, svc.InsertPatient(ctx, network.UserForTestWithPatient.AsUserData()))
	require.NoError(t, svc.InsertPatient(ctx, network.UserForTestWithDoctor.AsUserData()))

	p, err := repo.FindByExternalID(ctx, "P-0001")
	require.NoError(t, err)
	assert.Equal(t, "Alexander Francisco", p.Name)

	d, err := repo.FindByExternalID(ctx, "D-0001")
	require.NoError(t, err)
	assert.Equal(t, "Psiquiatría", d.Specialty)
}

func TestInsertPatient_RepeatedLoginUpdatesSameRow(t *testing.T) {
	svc, repo := newSQLiteService(t)
	ctx := context.Background()

	first := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	require.NoError(t, svc.InsertPatient(ctx, network.UserForTestWithPatient.AsUserData()))
	before, err := repo.FindByExternalID(ctx, "P-0001")
	require.NoError(t, err)

	svc.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, svc.InsertPatient(ctx, network.UserForTestWithPatient.AsUserData()))

	patients, pagination, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, int64(1), pagination.TotalItems)
	assert.Equal(t, before.ID, patients[0].ID)
	assert.True(t, patients[0].LastLoginAt.Equal(first.Add(time.Hour)))
}

func TestInsertPatient_RejectsInvalidProfile(t *testing.T) {
	repo := new(MockPatientRepository)
	svc := NewService(repo, zap.NewNop())

	u := network.UserForTestWithPatient.AsUserData()
	u.PatientID = ""
	err := svc.InsertPatient(context.Background(), u)

	assert.True(t, errors.Is(err, common.ErrInvalidProfileState))
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestInsertPatient_StorageFailure(t *testing.T) {
	repo := new(MockPatientRepository)
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*patient.Patient")).Return(errors.New("disk I/O error"))
	svc := NewService(repo, zap.NewNop())

	err := svc.InsertPatient(context.Background(), network.UserForTestWithDoctor.AsUserData())

	assert.True(t, errors.Is(err, common.ErrStorageFailure))
	repo.AssertExpectations(t)
}

func TestList_FiltersByUserType(t *testing.T) {
	svc, _ := newSQLiteService(t)
	ctx := context.Background()
	require.NoError(t, svc.InsertPatient(ctx, network.UserForTestWithPatient.AsUserData()))
	require.NoError(t, svc.InsertPatient(ctx, network.UserForTestWithDoctor.AsUserData()))

	doctors, _, err := svc.List(ctx, ListQuery{UserType: "doctor"})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "D-0001", doctors[0].ExternalID)

	all, pagination, err := svc.List(ctx, ListQuery{PageSize: 1})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.True(t, pagination.HasNext)
}
