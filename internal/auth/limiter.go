// File: internal/auth/limiter.go
package auth

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// AttemptLimiter locks a username out after too many failed logins.
type AttemptLimiter interface {
	// Locked reports whether the username is currently locked out.
	Locked(username string) bool
	// RecordFailure counts a failed attempt and reports whether it triggered a lockout.
	RecordFailure(username string) bool
	// Clear forgets the failures for a username.
	Clear(username string)
}

// InMemoryAttemptLimiter counts failures in an expiring in-memory cache.
type InMemoryAttemptLimiter struct {
	mu          sync.Mutex
	cache       *cache.Cache
	maxAttempts int
	window      time.Duration
}

// AttemptLimiterConfig holds the configuration for the InMemoryAttemptLimiter.
type AttemptLimiterConfig struct {
	MaxAttempts int           // 0 disables the limiter
	Window      time.Duration // failures and lockouts expire after this long
}

// NewInMemoryAttemptLimiter creates a new in-memory attempt limiter.
func NewInMemoryAttemptLimiter(cfg AttemptLimiterConfig) *InMemoryAttemptLimiter {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	return &InMemoryAttemptLimiter{
		cache:       cache.New(window, 2*window),
		maxAttempts: cfg.MaxAttempts,
		window:      window,
	}
}

func (l *InMemoryAttemptLimiter) Locked(username string) bool {
	if l.maxAttempts <= 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	n, found := l.cache.Get(username)
	return found && n.(int) >= l.maxAttempts
}

func (l *InMemoryAttemptLimiter) RecordFailure(username string) bool {
	if l.maxAttempts <= 0 {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 1
	if v, found := l.cache.Get(username); found {
		n = v.(int) + 1
	}
	// each failure restarts the window
	l.cache.Set(username, n, l.window)
	return n >= l.maxAttempts
}

func (l *InMemoryAttemptLimiter) Clear(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache.Delete(username)
}
