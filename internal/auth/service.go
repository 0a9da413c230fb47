// File: internal/auth/service.go
package auth

import (
	"context"
	"sync"
	"time"

	"medical_assistant_backend/internal/domain"
	"medical_assistant_backend/internal/platform/flow"
	"medical_assistant_backend/internal/user"

	"go.uber.org/zap"
)

// PatientRegistry records profiles that logged in successfully.
type PatientRegistry interface {
	InsertPatient(ctx context.Context, u domain.UserData) error
}

// Flow is the login session state machine:
// Initial -> Loading -> Success | Error, and Error -> Initial on dismiss.
type Flow struct {
	repo        user.Repository
	patients    PatientRegistry
	credentials CredentialChecker
	limiter     AttemptLimiter
	delay       time.Duration
	logger      *zap.Logger

	state *flow.State[State]

	mu       sync.Mutex
	attempt  uint64 // id of the latest attempt; older ones may not emit
	inFlight context.CancelFunc
}

// NewFlow creates a session flow starting in Initial.
func NewFlow(
	repo user.Repository,
	patients PatientRegistry,
	credentials CredentialChecker,
	limiter AttemptLimiter,
	delay time.Duration,
	logger *zap.Logger,
) *Flow {
	return &Flow{
		repo:        repo,
		patients:    patients,
		credentials: credentials,
		limiter:     limiter,
		delay:       delay,
		logger:      logger.Named("SessionFlow"),
		state:       flow.NewState(Initial()),
	}
}

// Current returns the latest session state.
func (f *Flow) Current() State {
	return f.state.Value()
}

// States streams the current session state and every later transition until ctx is done.
func (f *Flow) States(ctx context.Context) <-chan State {
	return f.state.Subscribe(ctx)
}

// AttemptLogin runs one login attempt and returns the state it ended in.
//
// Loading is published before AttemptLogin blocks. If ctx is cancelled during
// the simulated lookup, or a newer attempt supersedes this one, no further
// state is published and ctx's error (or context.Canceled) is returned. Once
// the lookup has finished the profile write runs to completion regardless of
// ctx, and Success is only published after the repository has committed it.
func (f *Flow) AttemptLogin(ctx context.Context, username, password string) (State, error) {
	attemptCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	f.mu.Lock()
	if f.inFlight != nil {
		f.inFlight()
	}
	f.attempt++
	id := f.attempt
	f.inFlight = cancel
	f.state.Set(Loading())
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		if f.attempt == id {
			f.inFlight = nil
		}
		f.mu.Unlock()
	}()

	timer := time.NewTimer(f.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-attemptCtx.Done():
		f.logger.Debug("Login attempt abandoned during lookup", zap.String("username", username))
		return State{}, attemptCtx.Err()
	}

	result := f.resolve(context.WithoutCancel(attemptCtx), username, password)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attempt != id {
		f.logger.Debug("Login attempt superseded, dropping result", zap.String("username", username))
		return State{}, context.Canceled
	}
	f.state.Set(result)
	return result, nil
}

func (f *Flow) resolve(ctx context.Context, username, password string) State {
	if f.limiter.Locked(username) {
		f.logger.Warn("Login rejected, username locked out", zap.String("username", username))
		return Failure(ReasonTooManyAttempts, MessageTooManyAttempts)
	}

	nu, ok := f.credentials.Lookup(username, password)
	if !ok {
		if f.limiter.RecordFailure(username) {
			f.logger.Warn("Username locked out after repeated failures", zap.String("username", username))
		}
		f.logger.Info("Login failed: invalid credentials", zap.String("username", username))
		return Failure(ReasonInvalidCredentials, MessageInvalidCredentials)
	}
	f.limiter.Clear(username)

	profile := nu.AsUserData()
	if err := f.repo.SetUserFromNetwork(ctx, profile); err != nil {
		f.logger.Error("Login failed: profile write", zap.String("username", username), zap.Error(err))
		return Failure(ReasonProfileWriteFailed, MessageProfileWriteFailed)
	}
	// the profile is committed; a registry miss must not report a failed login
	if err := f.patients.InsertPatient(ctx, profile); err != nil {
		f.logger.Error("Patient registry insert failed after login", zap.String("username", username), zap.Error(err))
	}

	f.logger.Info("Login succeeded", zap.String("username", username), zap.String("userType", string(nu.UserType)))
	return Success(f.repo.Current())
}

// ErrorDismissed moves Error back to Initial. It is a no-op in any other state.
func (f *Flow) ErrorDismissed() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.Value().Kind == KindError {
		f.state.Set(Initial())
	}
	return f.state.Value()
}

// Reset abandons any in-flight attempt and returns to Initial.
func (f *Flow) Reset() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight != nil {
		f.inFlight()
		f.inFlight = nil
	}
	f.attempt++
	f.state.Set(Initial())
	return f.state.Value()
}
