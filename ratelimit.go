package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter caps WebSocket upgrades per client IP. Idle entries are
// reaped in the background so the table does not grow forever.
type RateLimiter struct {
	mu    sync.Mutex
	perIP map[string]*limiterEntry
	limit rate.Limit
	burst int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(perSecond float64) *RateLimiter {
	rl := &RateLimiter{
		perIP: make(map[string]*limiterEntry),
		limit: rate.Limit(perSecond),
		burst: int(perSecond) + 1,
	}
	go rl.reap()

	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, ok := rl.perIP[ip]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rl.limit, rl.burst),
		}
		rl.perIP[ip] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

func (rl *RateLimiter) reap() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)

		rl.mu.Lock()
		for ip, entry := range rl.perIP {
			if entry.lastSeen.Before(cutoff) {
				delete(rl.perIP, ip)
			}
		}
		rl.mu.Unlock()
	}
}
