package auth

import (
	"math"
	"sync"
	"time"
)

const (
	// DefaultLockoutThreshold is the failed-attempt count that blocks an email.
	DefaultLockoutThreshold = 5
	// DefaultLockoutDuration is how long a blocked email stays blocked.
	DefaultLockoutDuration = 30 * time.Minute
	// warnAfterAttempts is the failure count at which remaining-attempt
	// warnings start.
	warnAfterAttempts = 3
)

// BlockStatus reports whether an email is currently blocked.
type BlockStatus struct {
	Blocked          bool
	MinutesRemaining int
}

// FailureOutcome reports the tracker state after a recorded failure.
type FailureOutcome struct {
	Attempts          int
	AttemptsRemaining int
	Locked            bool
	LockedUntil       time.Time
}

// ShouldWarn reports whether the caller should surface a remaining-attempts
// warning for this failure.
func (o FailureOutcome) ShouldWarn() bool {
	return !o.Locked && o.Attempts >= warnAfterAttempts
}

// AttemptTracker tracks failed logins per email. It stands in for a backend
// rate limiter; injecting it keeps tests isolated and lets a real deployment
// back it with a persistent keyed store.
type AttemptTracker interface {
	// Check reports the block state. A block whose window elapsed self-heals
	// here: the record resets and the email is reported unblocked.
	Check(email string) BlockStatus
	// RecordFailure registers a failed attempt and transitions the email to
	// blocked once the threshold is reached.
	RecordFailure(email string) FailureOutcome
	// Reset removes the record entirely (successful login).
	Reset(email string)
}

type loginAttempt struct {
	attempts     int
	lastAttempt  time.Time
	blockedUntil time.Time
}

// MemoryAttemptTracker is the in-process AttemptTracker. Emails key the map
// verbatim, matching the behavior of the system this replaces.
type MemoryAttemptTracker struct {
	mu        sync.Mutex
	records   map[string]*loginAttempt
	threshold int
	duration  time.Duration
	now       func() time.Time
}

// TrackerOption customises a MemoryAttemptTracker.
type TrackerOption func(*MemoryAttemptTracker)

// WithTrackerClock overrides the tracker clock, primarily for tests.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *MemoryAttemptTracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewMemoryAttemptTracker builds a tracker with the supplied limits; zero
// values select the defaults.
func NewMemoryAttemptTracker(threshold int, duration time.Duration, opts ...TrackerOption) *MemoryAttemptTracker {
	if threshold <= 0 {
		threshold = DefaultLockoutThreshold
	}
	if duration <= 0 {
		duration = DefaultLockoutDuration
	}

	t := &MemoryAttemptTracker{
		records:   make(map[string]*loginAttempt),
		threshold: threshold,
		duration:  duration,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Check implements AttemptTracker.
func (t *MemoryAttemptTracker) Check(email string) BlockStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, ok := t.records[email]
	if !ok || record.blockedUntil.IsZero() {
		return BlockStatus{}
	}

	now := t.now()
	if record.blockedUntil.After(now) {
		remaining := record.blockedUntil.Sub(now)
		return BlockStatus{
			Blocked:          true,
			MinutesRemaining: int(math.Ceil(remaining.Minutes())),
		}
	}

	// Block elapsed: self-heal to a clean record.
	record.attempts = 0
	record.blockedUntil = time.Time{}
	return BlockStatus{}
}

// RecordFailure implements AttemptTracker.
func (t *MemoryAttemptTracker) RecordFailure(email string) FailureOutcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	record, ok := t.records[email]
	if !ok {
		record = &loginAttempt{}
		t.records[email] = record
	}

	record.attempts++
	record.lastAttempt = now

	outcome := FailureOutcome{
		Attempts:          record.attempts,
		AttemptsRemaining: t.threshold - record.attempts,
	}

	if record.attempts >= t.threshold {
		record.blockedUntil = now.Add(t.duration)
		outcome.Locked = true
		outcome.AttemptsRemaining = 0
		outcome.LockedUntil = record.blockedUntil
	}

	return outcome
}

// Reset implements AttemptTracker.
func (t *MemoryAttemptTracker) Reset(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.records, email)
}

// SweepExpired removes records whose block window elapsed and records idle
// for longer than the lockout duration, returning how many were purged.
// Correctness never depends on this; Check self-heals lazily. The sweep just
// keeps the map from accumulating dead entries.
func (t *MemoryAttemptTracker) SweepExpired() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	purged := 0
	for email, record := range t.records {
		expiredBlock := !record.blockedUntil.IsZero() && !record.blockedUntil.After(now)
		stale := record.blockedUntil.IsZero() && now.Sub(record.lastAttempt) > t.duration
		if expiredBlock || stale {
			delete(t.records, email)
			purged++
		}
	}
	return purged
}

// Len reports how many emails currently have attempt records.
func (t *MemoryAttemptTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.records)
}
