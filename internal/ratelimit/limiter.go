// Package ratelimit provides request throttling behind a small interface so
// the in-process default can be swapped for a shared-cache implementation
// when running multiple service instances.
package ratelimit

import (
	"sync"
	"time"
)

type Result struct {
	Allowed           bool
	RetryAfterSeconds int
}

type Limiter interface {
	// Allow records a hit for key and reports whether it fits inside the
	// window. When blocked, RetryAfterSeconds says how long to wait.
	Allow(key string, limit int, window time.Duration) Result
}

// SlidingWindow is an in-memory sliding-window limiter. Counters reset on
// process restart and are not shared across instances.
type SlidingWindow struct {
	mu      sync.Mutex
	buckets map[string][]time.Time

	now func() time.Time
}

func NewSlidingWindow() *SlidingWindow {
	return &SlidingWindow{
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (l *SlidingWindow) Allow(key string, limit int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-window)

	bucket := l.buckets[key]
	kept := bucket[:0]
	for _, t := range bucket {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		l.buckets[key] = kept
		retry := int(kept[0].Add(window).Sub(now).Seconds())
		if retry < 1 {
			retry = 1
		}
		return Result{Allowed: false, RetryAfterSeconds: retry}
	}

	l.buckets[key] = append(kept, now)
	return Result{Allowed: true}
}
