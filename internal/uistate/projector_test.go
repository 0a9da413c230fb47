package uistate

import (
	"context"
	"sync"
	"testing"
	"time"

	"medical_assistant_backend/internal/datastore"
	"medical_assistant_backend/internal/domain"
	"medical_assistant_backend/internal/network"
	"medical_assistant_backend/internal/platform/database"
	"medical_assistant_backend/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingRepository counts repository subscriptions.
type countingRepository struct {
	user.Repository
	mu            sync.Mutex
	subscriptions int
}

func (r *countingRepository) UserData(ctx context.Context) <-chan domain.UserData {
	r.mu.Lock()
	r.subscriptions++
	r.mu.Unlock()
	return r.Repository.UserData(ctx)
}

func (r *countingRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subscriptions
}

func newRepository(t *testing.T) *countingRepository {
	db := database.NewTestDB(t, &datastore.UserPreferences{})
	repo, err := user.NewRepository(datastore.NewPreferencesDataSource(db, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	return &countingRepository{Repository: repo}
}

func next(t *testing.T, ch <-chan UiState) UiState {
	t.Helper()
	select {
	case s, ok := <-ch:
		require.True(t, ok, "stream closed")
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ui state")
		return UiState{}
	}
}

func quiet(t *testing.T, ch <-chan UiState, d time.Duration) {
	t.Helper()
	select {
	case s := <-ch:
		t.Fatalf("unexpected ui state %+v", s)
	case <-time.After(d):
	}
}

func TestProjector_LoadingThenSuccess(t *testing.T) {
	repo := newRepository(t)
	p := NewProjector(repo, time.Second, zap.NewNop())
	defer p.Close()

	assert.Equal(t, KindLoading, p.Current().Kind)
	assert.False(t, p.Active(), "nothing subscribed before the first observer")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := p.Attach(ctx)

	assert.Equal(t, Loading(), next(t, ch))
	assert.Equal(t, Success(domain.DefaultUserData()), next(t, ch))
	quiet(t, ch, 30*time.Millisecond)
}

func TestProjector_OneSuccessPerDistinctSnapshot(t *testing.T) {
	repo := newRepository(t)
	p := NewProjector(repo, time.Second, zap.NewNop())
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := p.Attach(ctx)
	next(t, ch)
	next(t, ch)

	bg := context.Background()
	require.NoError(t, repo.SetUserFromNetwork(bg, network.UserForTestWithPatient.AsUserData()))
	got := next(t, ch)
	assert.Equal(t, KindSuccess, got.Kind)
	assert.Equal(t, domain.UserTypePatient, got.UserData.UserType)

	// same values again: nothing new
	require.NoError(t, repo.SetUserFromNetwork(bg, network.UserForTestWithPatient.AsUserData()))
	require.NoError(t, repo.SetShouldHideOnboarding(bg, false))
	quiet(t, ch, 50*time.Millisecond)

	require.NoError(t, repo.SetShouldHideOnboarding(bg, true))
	assert.True(t, next(t, ch).UserData.ShouldHideOnboarding)
}

func TestProjector_ObserversShareOneSubscription(t *testing.T) {
	repo := newRepository(t)
	p := NewProjector(repo, time.Second, zap.NewNop())
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a := p.Attach(ctx)
	b := p.Attach(ctx)
	c := p.Attach(ctx)

	require.NoError(t, repo.SetDarkThemeConfig(context.Background(), domain.DarkThemeDark))
	for _, ch := range []<-chan UiState{a, b, c} {
		var last UiState
		for last.UserData.DarkThemeConfig != domain.DarkThemeDark {
			last = next(t, ch)
		}
	}
	assert.Equal(t, 1, repo.count())
	assert.Equal(t, 3, p.Observers())
}

func TestProjector_ReattachWithinGraceEmitsNoLoading(t *testing.T) {
	repo := newRepository(t)
	p := NewProjector(repo, 300*time.Millisecond, zap.NewNop())
	defer p.Close()

	ctx1, cancel1 := context.WithCancel(context.Background())
	ch1 := p.Attach(ctx1)
	next(t, ch1)
	success := next(t, ch1)
	cancel1()
	require.Eventually(t, func() bool { return p.Observers() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, p.Active())

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	ch2 := p.Attach(ctx2)

	assert.Equal(t, success, next(t, ch2))
	quiet(t, ch2, 50*time.Millisecond)
	assert.Equal(t, 1, repo.count())
}

func TestProjector_GraceExpiryReleasesSubscription(t *testing.T) {
	repo := newRepository(t)
	p := NewProjector(repo, 30*time.Millisecond, zap.NewNop())
	defer p.Close()

	ctx1, cancel1 := context.WithCancel(context.Background())
	ch1 := p.Attach(ctx1)
	next(t, ch1)
	success := next(t, ch1)
	cancel1()

	require.Eventually(t, func() bool { return !p.Active() }, time.Second, 5*time.Millisecond)

	// retained value survives teardown; the upstream is opened again
	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	ch2 := p.Attach(ctx2)
	assert.Equal(t, success, next(t, ch2))
	assert.True(t, p.Active())
	require.Eventually(t, func() bool { return repo.count() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, repo.SetThemeBrand(context.Background(), domain.ThemeBrandAndroid))
	assert.Equal(t, domain.ThemeBrandAndroid, next(t, ch2).UserData.ThemeBrand)
}
