package auth

import (
	"testing"
	"time"
)

func newTestLimiter(now *time.Time) *RateLimiter {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: 5 * time.Minute,
	})
	rl.now = func() time.Time { return *now }
	return rl
}

func TestRateLimiter_LocksAfterMaxAttempts(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := newTestLimiter(&now)

	for i := 0; i < 2; i++ {
		if locked, _ := rl.RecordFailure("10.0.0.1"); locked {
			t.Fatalf("locked too early on attempt %d", i+1)
		}
	}
	if allowed, _ := rl.Allow("10.0.0.1"); !allowed {
		t.Fatal("expected attempt to be allowed below the limit")
	}

	locked, retry := rl.RecordFailure("10.0.0.1")
	if !locked || retry != 5*time.Minute {
		t.Fatalf("expected lockout of 5m, got locked=%v retry=%v", locked, retry)
	}

	allowed, retry := rl.Allow("10.0.0.1")
	if allowed {
		t.Error("expected ip to be locked out")
	}
	if retry != 5*time.Minute {
		t.Errorf("expected 5m retry, got %v", retry)
	}

	if allowed, _ := rl.Allow("10.0.0.2"); !allowed {
		t.Error("other clients must not be affected")
	}
}

func TestRateLimiter_LockoutExpires(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := newTestLimiter(&now)

	for i := 0; i < 3; i++ {
		rl.RecordFailure("10.0.0.1")
	}

	now = now.Add(6 * time.Minute)
	if allowed, _ := rl.Allow("10.0.0.1"); !allowed {
		t.Error("expected lockout to have expired")
	}
}

func TestRateLimiter_SuccessClears(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := newTestLimiter(&now)

	rl.RecordFailure("10.0.0.1")
	rl.RecordFailure("10.0.0.1")
	rl.RecordSuccess("10.0.0.1")

	if locked, _ := rl.RecordFailure("10.0.0.1"); locked {
		t.Error("count should restart after a successful login")
	}
}

func TestRateLimiter_PrunesExpiredRecords(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl := newTestLimiter(&now)

	rl.RecordFailure("10.0.0.1")
	now = now.Add(time.Hour)
	rl.RecordFailure("10.0.0.2")

	if _, ok := rl.attempts["10.0.0.1"]; ok {
		t.Error("expected stale record to be pruned")
	}
}
