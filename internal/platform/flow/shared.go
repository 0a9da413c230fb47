package flow

import (
	"context"
	"sync"
	"time"
)

// Upstream opens a subscription that must stop (and close its channel) when ctx ends.
type Upstream[T any] func(ctx context.Context) <-chan T

// Shared multicasts one upstream subscription to any number of observers.
//
// The upstream is started by the first Attach. When the last observer leaves, a
// grace timer starts; an Attach before it fires cancels it, otherwise the
// upstream is cancelled. The last value is retained across restarts, so a late
// observer never sees the initial value again once something was received.
type Shared[T comparable] struct {
	upstream Upstream[T]
	grace    time.Duration
	state    *State[T]

	mu        sync.Mutex
	observers int
	cancel    context.CancelFunc
	timer     *time.Timer
	starts    int
	closed    bool
}

// NewShared creates a manager that reports initial until the upstream emits.
func NewShared[T comparable](upstream Upstream[T], initial T, grace time.Duration) *Shared[T] {
	return &Shared[T]{
		upstream: upstream,
		grace:    grace,
		state:    NewState(initial),
	}
}

// Attach registers an observer for the lifetime of ctx and returns its stream.
func (s *Shared[T]) Attach(ctx context.Context) <-chan T {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ch := make(chan T)
		close(ch)
		return ch
	}
	s.observers++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	// subscribe before starting so the first observer sees the initial value
	ch := s.state.Subscribe(ctx)
	if s.cancel == nil {
		s.startLocked()
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.detach()
	}()
	return ch
}

// Value is the latest shared value.
func (s *Shared[T]) Value() T {
	return s.state.Value()
}

// Active reports whether the upstream subscription is currently open.
func (s *Shared[T]) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Starts counts how many times the upstream has been opened.
func (s *Shared[T]) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// Observers is the number of attached observers.
func (s *Shared[T]) Observers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.observers
}

// Close tears down the upstream immediately and refuses new observers.
func (s *Shared[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopLocked()
}

func (s *Shared[T]) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.starts++

	src := s.upstream(ctx)
	go func() {
		for {
			select {
			case v, ok := <-src:
				if !ok {
					return
				}
				if ctx.Err() != nil {
					return
				}
				s.state.Set(v)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Shared[T]) detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers--
	if s.observers > 0 || s.closed {
		return
	}
	if s.grace <= 0 {
		s.stopLocked()
		return
	}

	var t *time.Timer
	t = time.AfterFunc(s.grace, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timer == t && s.observers == 0 {
			s.stopLocked()
		}
	})
	s.timer = t
}

func (s *Shared[T]) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
