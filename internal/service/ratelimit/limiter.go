package ratelimit

import (
	"sync"
	"time"
)

// pruneAfter is how long an untouched bucket survives. Keys are per client
// IP, so without pruning the map grows with every unique caller.
const pruneAfter = 10 * time.Minute

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a keyed token bucket. It gates force-refresh requests so a hot
// client loop cannot bypass the pulse cache.
type Limiter struct {
	mu     sync.Mutex
	m      map[string]*bucket
	lastGC time.Time
}

func New() *Limiter {
	return &Limiter{m: make(map[string]*bucket), lastGC: time.Now()}
}

// Allow returns true if one token can be consumed for key. A new key starts
// with a full bucket of the given capacity.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybePrune(now)

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// maybePrune drops buckets idle past pruneAfter. Caller holds the lock.
func (l *Limiter) maybePrune(now time.Time) {
	if now.Sub(l.lastGC) < pruneAfter {
		return
	}
	for k, b := range l.m {
		if now.Sub(b.last) > pruneAfter {
			delete(l.m, k)
		}
	}
	l.lastGC = now
}
