// Package dedup provides the idempotency cache protecting the webhook
// path from duplicate delivery. The upstream board retries on timeout,
// so the same event id may arrive more than once in a short window.
package dedup

import (
	"strings"
	"sync"
	"time"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// Cache remembers event ids for a fixed TTL. Expired entries are purged
// lazily on each access; the event source is low-volume enough that a
// background sweeper is not worth a goroutine.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]time.Time
}

// New creates new Cache instance with the given entry lifetime.
func New(ttl time.Duration) *Cache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates new Cache instance with an injected clock.
func NewWithClock(ttl time.Duration, now Clock) *Cache {
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]time.Time),
	}
}

// Seen reports whether the event id was already recorded within the
// TTL, recording its first-seen time if not. The check-and-insert is
// atomic: two concurrent deliveries of one id cannot both be novel.
// A blank id is never recorded and always reported unseen.
func (c *Cache) Seen(eventID string) bool {
	if strings.TrimSpace(eventID) == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, seenAt := range c.entries {
		if now.Sub(seenAt) > c.ttl {
			delete(c.entries, id)
		}
	}

	if _, ok := c.entries[eventID]; ok {
		return true
	}
	c.entries[eventID] = now

	return false
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
