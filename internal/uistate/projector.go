// File: internal/uistate/projector.go
package uistate

import (
	"context"
	"time"

	"medical_assistant_backend/internal/domain"
	"medical_assistant_backend/internal/platform/flow"
	"medical_assistant_backend/internal/user"

	"go.uber.org/zap"
)

// Kind is the presentation state tag.
type Kind string

const (
	KindLoading Kind = "loading"
	KindSuccess Kind = "success"
)

// UiState is the two-state projection of the stored profile.
type UiState struct {
	Kind     Kind
	UserData domain.UserData
}

func Loading() UiState { return UiState{Kind: KindLoading} }

func Success(u domain.UserData) UiState {
	return UiState{Kind: KindSuccess, UserData: u}
}

// Projector republishes repository snapshots as UiState. All observers share
// one repository subscription, kept open for a grace period after the last
// observer leaves.
type Projector struct {
	shared *flow.Shared[UiState]
	logger *zap.Logger
}

// NewProjector creates a projector over repo. Nothing is subscribed until the first Attach.
func NewProjector(repo user.Repository, grace time.Duration, logger *zap.Logger) *Projector {
	logger = logger.Named("UiStateProjector")
	upstream := func(ctx context.Context) <-chan UiState {
		logger.Debug("Subscribing to user data")
		return flow.Map(ctx, repo.UserData(ctx), Success)
	}
	return &Projector{
		shared: flow.NewShared(upstream, Loading(), grace),
		logger: logger,
	}
}

// Attach registers an observer until ctx is done. The stream starts with the
// current state and carries every later distinct state.
func (p *Projector) Attach(ctx context.Context) <-chan UiState {
	return p.shared.Attach(ctx)
}

// Current is the latest projected state.
func (p *Projector) Current() UiState {
	return p.shared.Value()
}

// Active reports whether the repository subscription is open.
func (p *Projector) Active() bool {
	return p.shared.Active()
}

// Observers is the number of attached observers.
func (p *Projector) Observers() int {
	return p.shared.Observers()
}

// Close drops the repository subscription and refuses new observers.
func (p *Projector) Close() {
	p.shared.Close()
	p.logger.Debug("Projector closed")
}
