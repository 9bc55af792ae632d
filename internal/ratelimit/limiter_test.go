package ratelimit

import (
	"testing"
	"time"
)

func TestSlidingWindowAllowsUpToLimit(t *testing.T) {
	l := NewSlidingWindow()

	for i := 0; i < 3; i++ {
		if res := l.Allow("k", 3, time.Minute); !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	res := l.Allow("k", 3, time.Minute)
	if res.Allowed {
		t.Fatal("fourth request inside window should be blocked")
	}
	if res.RetryAfterSeconds < 1 {
		t.Fatalf("retry-after should be at least 1, got %d", res.RetryAfterSeconds)
	}
}

func TestSlidingWindowExpiresOldHits(t *testing.T) {
	current := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	l := NewSlidingWindow()
	l.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		l.Allow("k", 3, time.Minute)
	}
	if l.Allow("k", 3, time.Minute).Allowed {
		t.Fatal("should be blocked at limit")
	}

	current = current.Add(61 * time.Second)
	if !l.Allow("k", 3, time.Minute).Allowed {
		t.Fatal("hits older than the window should have expired")
	}
}

func TestSlidingWindowKeysAreIndependent(t *testing.T) {
	l := NewSlidingWindow()

	for i := 0; i < 3; i++ {
		l.Allow("a", 3, time.Minute)
	}
	if !l.Allow("b", 3, time.Minute).Allowed {
		t.Fatal("exhausting one key should not block another")
	}
}
