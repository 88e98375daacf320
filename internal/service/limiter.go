package service

import (
	"context"
	"fmt"
	"time"

	"github.com/techincepto/portal-backend/internal/model"
)

// AttemptStore persists failed-login counters.
type AttemptStore interface {
	// Get returns the counter for key, or nil when none is stored.
	Get(ctx context.Context, key string) (*model.LoginAttempt, error)
	// Increment bumps the counter for key, stamps it with at and keeps it for at least ttl.
	Increment(ctx context.Context, key string, at time.Time, ttl time.Duration) (*model.LoginAttempt, error)
	// Delete removes the counter for key.
	Delete(ctx context.Context, key string) error
}

// LoginLimiter blocks a (client, identifier) pair after too many failed logins
// inside a rolling window measured from the last failure. Stale counters are
// evicted lazily when read.
type LoginLimiter struct {
	store       AttemptStore
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// NewLoginLimiter creates a limiter over store.
func NewLoginLimiter(store AttemptStore, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{store: store, maxAttempts: maxAttempts, window: window, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (l *LoginLimiter) WithClock(now func() time.Time) *LoginLimiter {
	l.now = now
	return l
}

// LimiterKey scopes attempts to one client address and one submitted identifier.
func LimiterKey(clientAddr, identifier string) string {
	return clientAddr + ":" + identifier
}

// IsBlocked reports whether key reached the attempt ceiling within the window.
func (l *LoginLimiter) IsBlocked(ctx context.Context, key string) (bool, error) {
	a, err := l.current(ctx, key)
	if err != nil {
		return false, err
	}
	return a != nil && a.Count >= l.maxAttempts, nil
}

// RecordFailure counts one failed attempt for key.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	if _, err := l.current(ctx, key); err != nil {
		return err
	}
	if _, err := l.store.Increment(ctx, key, l.now(), l.window); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return nil
}

// Clear forgets all attempts for key.
func (l *LoginLimiter) Clear(ctx context.Context, key string) error {
	if err := l.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear login attempts: %w", err)
	}
	return nil
}

// current loads the counter for key, dropping it when the window has passed.
func (l *LoginLimiter) current(ctx context.Context, key string) (*model.LoginAttempt, error) {
	a, err := l.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load login attempts: %w", err)
	}
	if a == nil {
		return nil, nil
	}
	// Exactly one window after the last failure counts as expired.
	if l.now().Sub(a.LastAttemptAt) >= l.window {
		if err := l.store.Delete(ctx, key); err != nil {
			return nil, fmt.Errorf("evict login attempts: %w", err)
		}
		return nil, nil
	}
	return a, nil
}
