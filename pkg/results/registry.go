// Package results holds callbacks waiting for a screen to return a result.
//
// The registry is bounded in two ways. At most Capacity callbacks are pending
// at once, and a callback older than TTL is eligible for eviction. Eviction
// happens only when an insert finds the registry full: expired callbacks are
// swept first, then the single oldest callback is dropped. An evicted callback
// is never invoked.
package results

import (
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the maximum number of pending callbacks.
	DefaultCapacity = 50
	// DefaultTTL is how long a pending callback is protected from the sweep.
	DefaultTTL = 5 * time.Minute
)

// Callback receives a result, or nil when the request was cancelled.
type Callback func(result any)

// Clock supplies the creation timestamp of pending callbacks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Entry is a pending callback.
type Entry struct {
	Key       string
	Callback  Callback
	CreatedAt time.Time

	seq uint64
}

// Option configures a Registry.
type Option func(*Registry)

// WithCapacity sets the maximum number of pending callbacks.
// Values below one are ignored.
func WithCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithTTL sets the age after which a pending callback may be swept.
func WithTTL(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger logs evictions at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Registry maps request keys to pending callbacks.
// All methods are safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]*Entry
	nextSeq  uint64
	capacity int
	ttl      time.Duration
	clock    Clock
	logger   *zap.Logger

	evictions atomic.Int64
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries:  make(map[string]*Entry),
		capacity: DefaultCapacity,
		ttl:      DefaultTTL,
		clock:    systemClock{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capacity returns the maximum number of pending callbacks.
func (r *Registry) Capacity() int { return r.capacity }

// TTL returns the sweep age.
func (r *Registry) TTL() time.Duration { return r.ttl }

// Store registers cb under key, replacing any callback already stored there.
func (r *Registry) Store(key string, cb Callback) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if _, exists := r.entries[key]; !exists && len(r.entries) >= r.capacity {
		r.sweepLocked(now)
		if len(r.entries) >= r.capacity {
			r.evictOldestLocked()
		}
	}
	r.nextSeq++
	r.entries[key] = &Entry{Key: key, Callback: cb, CreatedAt: now, seq: r.nextSeq}
}

func (r *Registry) sweepLocked(now time.Time) {
	for key, e := range r.entries {
		if now.Sub(e.CreatedAt) > r.ttl {
			delete(r.entries, key)
			r.evictions.Inc()
			r.logger.Debug("result callback expired", zap.String("key", key), zap.Time("created", e.CreatedAt))
		}
	}
}

func (r *Registry) evictOldestLocked() {
	var oldest *Entry
	for _, e := range r.entries {
		if oldest == nil || e.CreatedAt.Before(oldest.CreatedAt) ||
			(e.CreatedAt.Equal(oldest.CreatedAt) && e.seq < oldest.seq) {
			oldest = e
		}
	}
	if oldest == nil {
		return
	}
	delete(r.entries, oldest.Key)
	r.evictions.Inc()
	r.logger.Debug("result callback evicted", zap.String("key", oldest.Key), zap.Int("capacity", r.capacity))
}

// Remove takes the callback stored under key out of the registry.
// A key can be removed once; later calls report false.
func (r *Registry) Remove(key string) (Callback, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	delete(r.entries, key)
	return e.Callback, true
}

// Resolve removes the callback under key and invokes it with result.
// It reports whether a callback ran.
func (r *Registry) Resolve(key string, result any) bool {
	cb, ok := r.Remove(key)
	if !ok {
		return false
	}
	if cb != nil {
		cb(result)
	}
	return true
}

// Has reports whether a callback is pending under key.
func (r *Registry) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	return ok
}

// Len returns the number of pending callbacks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Clear drops every pending callback without invoking any.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
}

// Evictions returns how many callbacks were dropped by the sweep or the
// capacity limit since the registry was created.
func (r *Registry) Evictions() int64 {
	return r.evictions.Load()
}
