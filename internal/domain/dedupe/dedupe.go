// Package dedupe remembers idempotency keys so a retried reload request is
// not queued twice.
package dedupe

import (
	"context"
	"sync"
	"time"
)

const defaultMaxSize = 1024

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord reports whether key was seen within the window and
	// records it if not. The check and the record are atomic.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so the request can be retried, e.g. after the
	// reload queue rejected it.
	Unrecord(ctx context.Context, key string)

	Size() int
}

// inMemoryDeduper keeps keys in insertion order and drops the oldest once
// maxSize is reached. Keys older than ttl count as unseen.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	order   []string
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryDeduper creates a deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]time.Time, d.maxSize)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.expire(now)

	if _, ok := d.seen[key]; ok {
		return true
	}
	if len(d.order) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[key] = now
	d.order = append(d.order, key)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; !ok {
		return
	}
	delete(d.seen, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

// expire drops keys recorded before now-ttl. Must be called with d.mu held.
func (d *inMemoryDeduper) expire(now time.Time) {
	if d.ttl <= 0 {
		return
	}
	cutoff := now.Add(-d.ttl)
	n := 0
	for n < len(d.order) && !d.seen[d.order[n]].After(cutoff) {
		delete(d.seen, d.order[n])
		n++
	}
	d.order = d.order[n:]
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	delete(d.seen, d.order[0])
	d.order = d.order[1:]
}
