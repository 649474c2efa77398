package voting

import (
	"sync"
	"time"
)

// Cooldown remembers the last accepted submission per kiosk.
type Cooldown struct {
	window time.Duration
	last   map[string]time.Time
	mu     sync.Mutex
}

// NewCooldown creates a cooldown tracker. A zero window disables it.
func NewCooldown(window time.Duration) *Cooldown {
	return &Cooldown{
		window: window,
		last:   make(map[string]time.Time),
	}
}

// Allow reports whether key may submit at now and, if so, records the attempt.
func (c *Cooldown) Allow(key string, now time.Time) bool {
	if c == nil || c.window <= 0 {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.last[key]; ok && now.Sub(last) < c.window {
		return false
	}
	c.last[key] = now
	c.prune(now)
	return true
}

// Release forgets key so a failed submission does not block the kiosk.
func (c *Cooldown) Release(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.last, key)
}

// prune drops expired entries; caller holds the lock.
func (c *Cooldown) prune(now time.Time) {
	if len(c.last) < 256 {
		return
	}
	for key, last := range c.last {
		if now.Sub(last) >= c.window {
			delete(c.last, key)
		}
	}
}
