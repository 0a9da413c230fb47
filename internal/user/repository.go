// File: internal/user/repository.go
package user

import (
	"context"
	"fmt"
	"sync"

	"medical_assistant_backend/internal/common"
	"medical_assistant_backend/internal/domain"
	"medical_assistant_backend/internal/platform/flow"

	"go.uber.org/zap"
)

// PreferencesStore is the durable store the repository writes through.
// *datastore.PreferencesDataSource implements it.
type PreferencesStore interface {
	UserData(ctx context.Context) (domain.UserData, error)
	Update(ctx context.Context, fn func(*domain.UserData)) (domain.UserData, error)
}

// Repository is the single source of truth for the user profile.
type Repository interface {
	// UserData streams the current profile and every later change until ctx is done.
	UserData(ctx context.Context) <-chan domain.UserData
	// Current returns the latest committed profile.
	Current() domain.UserData
	// SetUserFromNetwork replaces identity and medical fields. It fails with
	// common.ErrInvalidProfileState, leaving the profile untouched, when the
	// role/identifier invariant does not hold.
	SetUserFromNetwork(ctx context.Context, u domain.UserData) error
	SetPreference(ctx context.Context, p domain.Preference, value interface{}) error
	SetShouldHideOnboarding(ctx context.Context, hide bool) error
	SetDynamicColorPreference(ctx context.Context, use bool) error
	SetThemeBrand(ctx context.Context, brand domain.ThemeBrand) error
	SetDarkThemeConfig(ctx context.Context, mode domain.DarkThemeConfig) error
}

type offlineFirstRepository struct {
	store  PreferencesStore
	state  *flow.State[domain.UserData]
	mu     sync.Mutex // one mutation at a time
	logger *zap.Logger
}

// NewRepository loads the stored profile and returns a repository publishing it.
func NewRepository(store PreferencesStore, logger *zap.Logger) (Repository, error) {
	initial, err := store.UserData(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load initial user data: %w", err)
	}
	return &offlineFirstRepository{
		store:  store,
		state:  flow.NewState(initial),
		logger: logger.Named("UserDataRepository"),
	}, nil
}

func (r *offlineFirstRepository) UserData(ctx context.Context) <-chan domain.UserData {
	return r.state.Subscribe(ctx)
}

func (r *offlineFirstRepository) Current() domain.UserData {
	return r.state.Value()
}

func (r *offlineFirstRepository) SetUserFromNetwork(ctx context.Context, u domain.UserData) error {
	if err := u.ValidateRole(); err != nil {
		r.logger.Warn("Rejected profile with inconsistent role", zap.String("userType", string(u.UserType)), zap.Error(err))
		return fmt.Errorf("set user from network: %w", common.ErrInvalidProfileState.WithDetails(err.Error()))
	}

	return r.mutate(ctx, func(cur *domain.UserData) {
		*cur = cur.WithProfileFrom(u)
	})
}

func (r *offlineFirstRepository) SetPreference(ctx context.Context, p domain.Preference, value interface{}) error {
	probe := r.Current()
	if err := p.Apply(&probe, value); err != nil {
		return common.ErrUnprocessableEntity.WithDetails(err.Error())
	}
	return r.mutate(ctx, func(cur *domain.UserData) {
		_ = p.Apply(cur, value) // value already checked above
	})
}

func (r *offlineFirstRepository) SetShouldHideOnboarding(ctx context.Context, hide bool) error {
	return r.SetPreference(ctx, domain.PreferenceShouldHideOnboarding, hide)
}

func (r *offlineFirstRepository) SetDynamicColorPreference(ctx context.Context, use bool) error {
	return r.SetPreference(ctx, domain.PreferenceUseDynamicColor, use)
}

func (r *offlineFirstRepository) SetThemeBrand(ctx context.Context, brand domain.ThemeBrand) error {
	return r.SetPreference(ctx, domain.PreferenceThemeBrand, brand)
}

func (r *offlineFirstRepository) SetDarkThemeConfig(ctx context.Context, mode domain.DarkThemeConfig) error {
	return r.SetPreference(ctx, domain.PreferenceDarkThemeConfig, mode)
}

// mutate writes through the store and publishes only what the store committed.
func (r *offlineFirstRepository) mutate(ctx context.Context, fn func(*domain.UserData)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	committed, err := r.store.Update(ctx, fn)
	if err != nil {
		r.logger.Error("Profile write failed, keeping previous snapshot", zap.Error(err))
		return err
	}
	if r.state.Set(committed) {
		r.logger.Debug("Profile updated", zap.String("userType", string(committed.UserType)))
	}
	return nil
}
