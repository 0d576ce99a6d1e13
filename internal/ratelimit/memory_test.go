package ratelimit

import (
	"testing"
	"time"
)

func TestMemoryLimiterEnforcesQuota(t *testing.T) {
	limiter := NewMemoryFixedWindowLimiter(2, time.Hour)
	if !limiter.Allow("ip-1") || !limiter.Allow("ip-1") {
		t.Fatalf("first two requests should pass")
	}
	if limiter.Allow("ip-1") {
		t.Fatalf("third request should be blocked")
	}
	if !limiter.Allow("ip-2") {
		t.Fatalf("other keys must keep their own quota")
	}
}

func TestMemoryLimiterResetsAtWindowBoundary(t *testing.T) {
	limiter := NewMemoryFixedWindowLimiter(1, 15*time.Minute)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }

	if !limiter.Allow("ip-1") {
		t.Fatalf("first request should pass")
	}
	if limiter.Allow("ip-1") {
		t.Fatalf("second request in window should be blocked")
	}

	limiter.now = func() time.Time { return base.Add(15 * time.Minute) }
	if !limiter.Allow("ip-1") {
		t.Fatalf("request after window boundary should pass")
	}
}

func TestMemoryLimiterEmptyKeyFallsBackToUnknown(t *testing.T) {
	limiter := NewMemoryFixedWindowLimiter(1, time.Hour)
	if !limiter.Allow("") {
		t.Fatalf("first request should pass")
	}
	if limiter.Allow("  ") {
		t.Fatalf("blank keys share the unknown bucket and should be blocked")
	}
}
