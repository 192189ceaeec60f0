// Package auth implements the demo credential check, session persistence,
// and login throttling for the CropCura service.
package auth

import (
	"sync"
	"time"

	"cropcura/internal/types"
)

// SecurityConfig holds the thresholds for login throttling.
type SecurityConfig struct {
	// IPBlockThreshold is the number of failed attempts from an IP within
	// the window before the IP is blocked.
	IPBlockThreshold int

	// IdentifierBlockThreshold is the number of failed attempts for one
	// username within the window before that username is blocked.
	IdentifierBlockThreshold int

	// WindowDuration is the time window for counting recent failures.
	WindowDuration time.Duration
}

// DefaultSecurityConfig returns the default throttling thresholds.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		IPBlockThreshold:         100,
		IdentifierBlockThreshold: 5,
		WindowDuration:           15 * time.Minute,
	}
}

// AttemptTracker counts recent failed logins per username and per IP.
type AttemptTracker struct {
	mu           sync.Mutex
	byIdentifier map[string][]time.Time
	byIP         map[string][]time.Time
	config       SecurityConfig
	clock        types.Clock
}

// NewAttemptTracker creates an AttemptTracker.
func NewAttemptTracker(config SecurityConfig, clock types.Clock) *AttemptTracker {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &AttemptTracker{
		byIdentifier: make(map[string][]time.Time),
		byIP:         make(map[string][]time.Time),
		config:       config,
		clock:        clock,
	}
}

// CheckLoginAllowed reports whether neither the identifier nor the IP is
// currently blocked.
func (t *AttemptTracker) CheckLoginAllowed(identifier, ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	since := t.clock.Now().Add(-t.config.WindowDuration)
	if identifier != "" && countSince(t.byIdentifier, identifier, since) >= t.config.IdentifierBlockThreshold {
		return false
	}
	if ip != "" && countSince(t.byIP, ip, since) >= t.config.IPBlockThreshold {
		return false
	}
	return true
}

// IsIPBlocked reports whether ip has reached the failure threshold within
// the window.
func (t *AttemptTracker) IsIPBlocked(ip string) bool {
	if ip == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	since := t.clock.Now().Add(-t.config.WindowDuration)
	return countSince(t.byIP, ip, since) >= t.config.IPBlockThreshold
}

// RecordAttempt records a login outcome. A success clears the identifier's
// failure history; IP history is kept.
func (t *AttemptTracker) RecordAttempt(identifier, ip string, success bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if success {
		delete(t.byIdentifier, identifier)
		return
	}
	now := t.clock.Now()
	if identifier != "" {
		t.byIdentifier[identifier] = append(t.byIdentifier[identifier], now)
	}
	if ip != "" {
		t.byIP[ip] = append(t.byIP[ip], now)
	}
}

// countSince prunes entries older than since and returns how many remain.
func countSince(m map[string][]time.Time, key string, since time.Time) int {
	times := m[key]
	kept := times[:0]
	for _, ts := range times {
		if ts.After(since) {
			kept = append(kept, ts)
		}
	}
	if len(kept) == 0 {
		delete(m, key)
		return 0
	}
	m[key] = kept
	return len(kept)
}
