package auth

import (
	"sync"
	"time"
)

// RateLimiter tracks failed PIN attempts per client IP. A four-digit PIN is
// trivially brute-forced without it.
type RateLimiter struct {
	mu              sync.Mutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	now             func() time.Time
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	MaxAttempts     int           // Maximum attempts before lockout (default: 5)
	WindowDuration  time.Duration // Time window for counting attempts (default: 15m)
	LockoutDuration time.Duration // How long to lock out after max attempts (default: 30m)
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
	}
}

// NewRateLimiter creates a new rate limiter. Zero fields take the defaults.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	def := DefaultRateLimitConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = def.WindowDuration
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}

	return &RateLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		now:             time.Now,
	}
}

// Allow reports whether a login attempt from ip may proceed and, if not,
// how long until the lockout expires.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	record, exists := rl.attempts[ip]
	if !exists {
		return true, 0
	}

	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}

	if now.Sub(record.firstAttempt) > rl.windowDuration || record.count < rl.maxAttempts {
		return true, 0
	}

	return false, rl.lockoutDuration
}

// RecordFailure records a failed attempt and reports whether ip is now locked.
func (rl *RateLimiter) RecordFailure(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	record, exists := rl.attempts[ip]
	if !exists || now.Sub(record.firstAttempt) > rl.windowDuration {
		record = &attemptRecord{firstAttempt: now}
		rl.attempts[ip] = record
	}

	record.count++
	if record.count >= rl.maxAttempts {
		record.lockedUntil = now.Add(rl.lockoutDuration)
		return true, rl.lockoutDuration
	}

	return false, 0
}

// RecordSuccess clears the failure record for ip.
func (rl *RateLimiter) RecordSuccess(ip string) {
	rl.mu.Lock()
	delete(rl.attempts, ip)
	rl.mu.Unlock()
}

// pruneLocked drops records whose window and lockout have both expired.
// Pruning on write keeps the limiter free of background goroutines.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	expiry := rl.windowDuration + rl.lockoutDuration
	for key, record := range rl.attempts {
		windowExpired := now.Sub(record.firstAttempt) > expiry
		lockoutExpired := record.lockedUntil.IsZero() || now.After(record.lockedUntil)
		if windowExpired && lockoutExpired {
			delete(rl.attempts, key)
		}
	}
}
