package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"medical_assistant_backend/internal/common"
	"medical_assistant_backend/internal/datastore"
	"medical_assistant_backend/internal/domain"
	"medical_assistant_backend/internal/network"
	"medical_assistant_backend/internal/platform/database"
	"medical_assistant_backend/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDelay = 20 * time.Millisecond

// MockUserRepository is a mock type for user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) UserData(ctx context.Context) <-chan domain.UserData {
	args := m.Called(ctx)
	return args.Get(0).(<-chan domain.UserData)
}

func (m *MockUserRepository) Current() domain.UserData {
	args := m.Called()
	return args.Get(0).(domain.UserData)
}

func (m *MockUserRepository) SetUserFromNetwork(ctx context.Context, u domain.UserData) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) SetPreference(ctx context.Context, p domain.Preference, value interface{}) error {
	args := m.Called(ctx, p, value)
	return args.Error(0)
}

func (m *MockUserRepository) SetShouldHideOnboarding(ctx context.Context, hide bool) error {
	args := m.Called(ctx, hide)
	return args.Error(0)
}

func (m *MockUserRepository) SetDynamicColorPreference(ctx context.Context, use bool) error {
	args := m.Called(ctx, use)
	return args.Error(0)
}

func (m *MockUserRepository) SetThemeBrand(ctx context.Context, brand domain.ThemeBrand) error {
	args := m.Called(ctx, brand)
	return args.Error(0)
}

func (m *MockUserRepository) SetDarkThemeConfig(ctx context.Context, mode domain.DarkThemeConfig) error {
	args := m.Called(ctx, mode)
	return args.Error(0)
}

// MockPatientRegistry is a mock type for auth.PatientRegistry
type MockPatientRegistry struct {
	mock.Mock
}

func (m *MockPatientRegistry) InsertPatient(ctx context.Context, u domain.UserData) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func newCredentials(t *testing.T) CredentialChecker {
	t.Helper()
	return NewStaticCredentials()
}

func noLimit() AttemptLimiter {
	return NewInMemoryAttemptLimiter(AttemptLimiterConfig{})
}

func newSQLiteUserRepository(t *testing.T) user.Repository {
	db := database.NewTestDB(t, &datastore.UserPreferences{})
	repo, err := user.NewRepository(datastore.NewPreferencesDataSource(db, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	return repo
}

func newTestFlow(t *testing.T, repo user.Repository, patients PatientRegistry) *Flow {
	return NewFlow(repo, patients, newCredentials(t), noLimit(), testDelay, zap.NewNop())
}

func okRegistry() *MockPatientRegistry {
	r := new(MockPatientRegistry)
	r.On("InsertPatient", mock.Anything, mock.Anything).Return(nil)
	return r
}

// collect drains states until n have arrived.
func collect(t *testing.T, ch <-chan State, n int) []State {
	t.Helper()
	var out []State
	for len(out) < n {
		select {
		case st := <-ch:
			out = append(out, st)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d states: %+v", len(out), n, out)
		}
	}
	return out
}

func kinds(states []State) []Kind {
	out := make([]Kind, len(states))
	for i, s := range states {
		out[i] = s.Kind
	}
	return out
}

func TestAttemptLogin_Patient(t *testing.T) {
	repo := newSQLiteUserRepository(t)
	registry := okRegistry()
	f := newTestFlow(t, repo, registry)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states := f.States(ctx)

	st, err := f.AttemptLogin(context.Background(), "alexminator@gmail.com", "12345678")
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, st.Kind)
	assert.Equal(t, domain.UserTypePatient, st.Profile.UserType)

	got := collect(t, states, 3)
	assert.Equal(t, []Kind{KindInitial, KindLoading, KindSuccess}, kinds(got))

	cur := repo.Current()
	assert.Equal(t, domain.UserTypePatient, cur.UserType)
	assert.Equal(t, network.UserForTestWithPatient.PatientID, cur.PatientID)
	assert.Equal(t, network.UserForTestWithPatient.Name, cur.Name)
	registry.AssertCalled(t, "InsertPatient", mock.Anything, network.UserForTestWithPatient.AsUserData())
}

func TestAttemptLogin_Doctor(t *testing.T) {
	repo := newSQLiteUserRepository(t)
	f := newTestFlow(t, repo, okRegistry())

	st, err := f.AttemptLogin(context.Background(), "josefeliciano", "12345678")
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, st.Kind)

	cur := repo.Current()
	assert.Equal(t, domain.UserTypeDoctor, cur.UserType)
	assert.Equal(t, "D-0001", cur.DoctorID)
	assert.Equal(t, network.UserForTestWithDoctor.Specialty, cur.Specialty)
	assert.Empty(t, cur.PatientID)
}

func TestAttemptLogin_InvalidCredentials(t *testing.T) {
	repo := newSQLiteUserRepository(t)
	registry := new(MockPatientRegistry)
	f := newTestFlow(t, repo, registry)
	before := repo.Current()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states := f.States(ctx)

	st, err := f.AttemptLogin(context.Background(), "nobody", "wrong")
	require.NoError(t, err)

	got := collect(t, states, 3)
	assert.Equal(t, []Kind{KindInitial, KindLoading, KindError}, kinds(got))
	assert.Equal(t, "Usuario o contraseña incorrectos", st.Message)
	assert.Equal(t, ReasonInvalidCredentials, st.Reason)
	assert.Equal(t, before, repo.Current())
	registry.AssertNotCalled(t, "InsertPatient", mock.Anything, mock.Anything)

	// known user, wrong password
	st, err = f.AttemptLogin(context.Background(), "josefeliciano", "87654321")
	require.NoError(t, err)
	assert.Equal(t, ReasonInvalidCredentials, st.Reason)
	assert.Equal(t, before, repo.Current())
}

func TestSuccessIsEmittedAfterRepositoryCommit(t *testing.T) {
	repo := newSQLiteUserRepository(t)
	f := newTestFlow(t, repo, okRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states := f.States(ctx)

	go func() { _, _ = f.AttemptLogin(context.Background(), "alexminator@gmail.com", "12345678") }()

	for st := range states {
		if st.Kind == KindSuccess {
			assert.Equal(t, domain.UserTypePatient, repo.Current().UserType)
			return
		}
	}
}

func TestErrorDismissed(t *testing.T) {
	f := newTestFlow(t, newSQLiteUserRepository(t), okRegistry())

	// no-op outside Error
	assert.Equal(t, KindInitial, f.ErrorDismissed().Kind)

	st, err := f.AttemptLogin(context.Background(), "nobody", "wrong")
	require.NoError(t, err)
	require.Equal(t, KindError, st.Kind)

	assert.Equal(t, KindInitial, f.ErrorDismissed().Kind)
	assert.Equal(t, KindInitial, f.Current().Kind)

	_, err = f.AttemptLogin(context.Background(), "josefeliciano", "12345678")
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, f.ErrorDismissed().Kind)
}

func TestAttemptLogin_CancelledDuringLookupEmitsNothing(t *testing.T) {
	repo := newSQLiteUserRepository(t)
	registry := new(MockPatientRegistry)
	f := NewFlow(repo, registry, newCredentials(t), noLimit(), time.Second, zap.NewNop())
	before := repo.Current()

	subCtx, subCancel := context.WithCancel(context.Background())
	defer subCancel()
	states := f.States(subCtx)
	collect(t, states, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.AttemptLogin(ctx, "alexminator@gmail.com", "12345678")
		done <- err
	}()

	assert.Equal(t, KindLoading, collect(t, states, 1)[0].Kind)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("attempt did not observe cancellation")
	}

	select {
	case st := <-states:
		t.Fatalf("unexpected state after cancellation: %+v", st)
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, KindLoading, f.Current().Kind)
	assert.Equal(t, before, repo.Current())
	registry.AssertNotCalled(t, "InsertPatient", mock.Anything, mock.Anything)
}

func TestAttemptLogin_NewAttemptSupersedesInFlight(t *testing.T) {
	repo := newSQLiteUserRepository(t)
	f := NewFlow(repo, okRegistry(), newCredentials(t), noLimit(), 200*time.Millisecond, zap.NewNop())

	first := make(chan error, 1)
	go func() {
		_, err := f.AttemptLogin(context.Background(), "alexminator@gmail.com", "12345678")
		first <- err
	}()
	require.Eventually(t, func() bool { return f.Current().Kind == KindLoading }, time.Second, time.Millisecond)

	st, err := f.AttemptLogin(context.Background(), "josefeliciano", "12345678")
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, st.Kind)

	assert.True(t, errors.Is(<-first, context.Canceled))
	assert.Equal(t, domain.UserTypeDoctor, repo.Current().UserType)
	assert.Equal(t, domain.UserTypeDoctor, f.Current().Profile.UserType)
}

func TestReset(t *testing.T) {
	f := NewFlow(newSQLiteUserRepository(t), okRegistry(), newCredentials(t), noLimit(), time.Second, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := f.AttemptLogin(context.Background(), "alexminator@gmail.com", "12345678")
		done <- err
	}()
	require.Eventually(t, func() bool { return f.Current().Kind == KindLoading }, time.Second, time.Millisecond)

	assert.Equal(t, KindInitial, f.Reset().Kind)
	assert.True(t, errors.Is(<-done, context.Canceled))
	assert.Equal(t, KindInitial, f.Current().Kind)
}

func TestAttemptLogin_ProfileWriteFailure(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("SetUserFromNetwork", mock.Anything, mock.Anything).
		Return(common.ErrStorageFailure.WithDetails("disk full"))
	registry := new(MockPatientRegistry)
	f := newTestFlow(t, repo, registry)

	st, err := f.AttemptLogin(context.Background(), "alexminator@gmail.com", "12345678")
	require.NoError(t, err)

	assert.Equal(t, KindError, st.Kind)
	assert.Equal(t, ReasonProfileWriteFailed, st.Reason)
	registry.AssertNotCalled(t, "InsertPatient", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestAttemptLogin_PatientStoreFailure(t *testing.T) {
	repo := newSQLiteUserRepository(t)
	registry := new(MockPatientRegistry)
	registry.On("InsertPatient", mock.Anything, mock.Anything).Return(common.ErrStorageFailure)
	f := newTestFlow(t, repo, registry)

	st, err := f.AttemptLogin(context.Background(), "josefeliciano", "12345678")
	require.NoError(t, err)

	assert.Equal(t, KindSuccess, st.Kind)
	stored := repo.Current()
	assert.True(t, stored.IsLoggedIn())
	assert.Equal(t, domain.UserTypeDoctor, stored.UserType)
	assert.Equal(t, "D-0001", stored.DoctorID)
	assert.Equal(t, stored, st.Profile)
	assert.Equal(t, stored, f.Current().Profile)
	registry.AssertExpectations(t)
}

func TestAttemptLogin_LocksOutAfterRepeatedFailures(t *testing.T) {
	limiter := NewInMemoryAttemptLimiter(AttemptLimiterConfig{MaxAttempts: 2, Window: time.Minute})
	f := NewFlow(newSQLiteUserRepository(t), okRegistry(), newCredentials(t), limiter, time.Millisecond, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		st, err := f.AttemptLogin(ctx, "josefeliciano", "bad")
		require.NoError(t, err)
		assert.Equal(t, ReasonInvalidCredentials, st.Reason)
	}

	st, err := f.AttemptLogin(ctx, "josefeliciano", "12345678")
	require.NoError(t, err)
	assert.Equal(t, ReasonTooManyAttempts, st.Reason)

	// other users are unaffected
	st, err = f.AttemptLogin(ctx, "alexminator@gmail.com", "12345678")
	require.NoError(t, err)
	assert.Equal(t, KindSuccess, st.Kind)
}

func TestStates_ConcurrentObserversSeeSameSequence(t *testing.T) {
	f := newTestFlow(t, newSQLiteUserRepository(t), okRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const observers = 3
	chans := make([]<-chan State, observers)
	for i := range chans {
		chans[i] = f.States(ctx)
	}

	_, err := f.AttemptLogin(context.Background(), "nobody", "wrong")
	require.NoError(t, err)
	f.ErrorDismissed()

	for _, ch := range chans {
		got := collect(t, ch, 4)
		assert.Equal(t, []Kind{KindInitial, KindLoading, KindError, KindInitial}, kinds(got))
	}
}
