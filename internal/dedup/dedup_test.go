package dedup

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCacheSeen(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	cache := NewWithClock(5*time.Minute, clock.Now)

	assert.False(t, cache.Seen("evt-1"))
	assert.True(t, cache.Seen("evt-1"))

	// a distinct id is novel
	assert.False(t, cache.Seen("evt-2"))
}

func TestCacheSeen_BlankIDSkipsDedup(t *testing.T) {
	cache := New(5 * time.Minute)

	assert.False(t, cache.Seen(""))
	assert.False(t, cache.Seen(""))
	assert.False(t, cache.Seen("   "))
	assert.False(t, cache.Seen("\t\n"))
	assert.False(t, cache.Seen("   "))
	assert.Equal(t, 0, cache.Len())
}

func TestCacheSeen_ExpiryOnAccess(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	cache := NewWithClock(5*time.Minute, clock.Now)

	assert.False(t, cache.Seen("evt-1"))

	// still within the TTL
	clock.Advance(5 * time.Minute)
	assert.True(t, cache.Seen("evt-1"))

	// past the TTL the id is novel again
	clock.Advance(5*time.Minute + time.Second)
	assert.False(t, cache.Seen("evt-1"))
}

func TestCacheSeen_PurgesExpiredEntries(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	cache := NewWithClock(time.Minute, clock.Now)

	for i := 0; i < 10; i++ {
		cache.Seen(fmt.Sprintf("evt-%d", i))
	}
	assert.Equal(t, 10, cache.Len())

	clock.Advance(2 * time.Minute)
	cache.Seen("fresh")
	assert.Equal(t, 1, cache.Len())
}

func TestCacheSeen_ConcurrentSameID(t *testing.T) {
	cache := New(5 * time.Minute)

	const goroutines = 32
	novel := make(chan bool, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			novel <- !cache.Seen("evt-race")
		}()
	}
	wg.Wait()
	close(novel)

	count := 0
	for n := range novel {
		if n {
			count++
		}
	}

	// exactly one delivery may win
	assert.Equal(t, 1, count)
}
