// Package flow holds the small set of hot-stream primitives the profile
// pipeline is built on: a distinct-until-changed value holder with
// per-subscriber ordered delivery, and a reference-counted sharing manager.
package flow

import (
	"context"
	"sync"
)

// State is a hot value. Subscribers get the current value first and then every
// later distinct value, in order. Setting an equal value emits nothing.
type State[T comparable] struct {
	mu    sync.Mutex
	value T
	subs  map[*subscriber[T]]struct{}
}

// NewState creates a State holding initial.
func NewState[T comparable](initial T) *State[T] {
	return &State[T]{
		value: initial,
		subs:  make(map[*subscriber[T]]struct{}),
	}
}

// Value returns the current value.
func (s *State[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v and fans it out. It reports whether the value changed.
func (s *State[T]) Set(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == s.value {
		return false
	}
	s.value = v
	for sub := range s.subs {
		sub.push(v)
	}
	return true
}

// Subscribe returns a channel carrying the current value and every later change.
// The channel is closed once ctx is done.
func (s *State[T]) Subscribe(ctx context.Context) <-chan T {
	out := make(chan T)
	sub := &subscriber[T]{wake: make(chan struct{}, 1)}

	s.mu.Lock()
	sub.pending = []T{s.value}
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go sub.run(ctx, out, func() {
		s.mu.Lock()
		delete(s.subs, sub)
		s.mu.Unlock()
	})
	return out
}

// Subscribers is the number of live subscriptions.
func (s *State[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

type subscriber[T any] struct {
	mu      sync.Mutex
	pending []T
	wake    chan struct{}
}

func (s *subscriber[T]) push(v T) {
	s.mu.Lock()
	s.pending = append(s.pending, v)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) run(ctx context.Context, out chan<- T, unregister func()) {
	defer close(out)
	defer unregister()
	for {
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, v := range batch {
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}

		select {
		case <-s.wake:
		case <-ctx.Done():
			return
		}
	}
}

// Map forwards f(v) for every value of in until in closes or ctx is done.
func Map[A, B any](ctx context.Context, in <-chan A, f func(A) B) <-chan B {
	out := make(chan B)
	go func() {
		defer close(out)
		for {
			select {
			case v, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- f(v):
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
