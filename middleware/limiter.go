package middleware

import (
	"container/list"
	"sync"
	"time"
)

// AttemptLimiter is a per-client token bucket over authentication attempts.
// Authenticate spends one token per attempt and resets the bucket once a
// client authenticates, so in practice it bounds consecutive failures.
// It is safe for concurrent use.
type AttemptLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*list.Element
	order      *list.List // least recently seen first
	maxRate    int
	window     time.Duration
	maxBuckets int
	now        func() time.Time
	closed     bool
}

type bucket struct {
	client     string
	tokens     int
	lastRefill int64
}

// NewAttemptLimiter allows maxAttempts per window for each client.
// Non-positive arguments fall back to 10 attempts per minute.
func NewAttemptLimiter(maxAttempts int, window time.Duration) *AttemptLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	if window <= 0 {
		window = time.Minute
	}

	return &AttemptLimiter{
		buckets:    make(map[string]*list.Element),
		order:      list.New(),
		maxRate:    maxAttempts,
		window:     window,
		maxBuckets: 10000,
		now:        time.Now,
	}
}

// Allow spends one attempt for client and reports whether it was available.
// An empty client key is never allowed.
func (l *AttemptLimiter) Allow(client string) bool {
	if client == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}

	nowNano := l.now().UnixNano()
	elem, exists := l.buckets[client]

	if !exists {
		if len(l.buckets) >= l.maxBuckets {
			l.evictOldestUnsafe()
		}
		l.buckets[client] = l.order.PushBack(&bucket{
			client:     client,
			tokens:     l.maxRate - 1,
			lastRefill: nowNano,
		})
		return true
	}

	l.order.MoveToBack(elem)
	b := elem.Value.(*bucket)

	elapsed := nowNano - b.lastRefill

	if elapsed >= int64(l.window) {
		b.tokens = l.maxRate
		b.lastRefill = nowNano
	} else if elapsed > 0 {
		refill := int(float64(l.maxRate) * float64(elapsed) / float64(l.window))
		if refill > 0 {
			b.tokens = min(b.tokens+refill, l.maxRate)
			b.lastRefill = nowNano
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// Reset forgets client, restoring its full allowance.
func (l *AttemptLimiter) Reset(client string) {
	if client == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if elem, ok := l.buckets[client]; ok {
		l.order.Remove(elem)
		delete(l.buckets, client)
	}
}

// Close releases all buckets. Allow returns false afterwards.
// It is safe to call Close multiple times.
func (l *AttemptLimiter) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	l.closed = true
	clear(l.buckets)
	l.buckets = nil
	l.order.Init()
}

// evictOldestUnsafe drops the least recently seen client in constant time.
func (l *AttemptLimiter) evictOldestUnsafe() {
	if front := l.order.Front(); front != nil {
		delete(l.buckets, l.order.Remove(front).(*bucket).client)
	}
}
