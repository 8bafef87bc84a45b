package cmd

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/ef-ds/deque"
)

// Bucket selects what a cooldown is counted per.
type Bucket int

const (
	BucketUser Bucket = iota
	BucketChannel
	BucketGuild
	BucketGlobal
)

func (b Bucket) String() string {
	switch b {
	case BucketChannel:
		return "channel"
	case BucketGuild:
		return "guild"
	case BucketGlobal:
		return "global"
	default:
		return "user"
	}
}

func (b Bucket) key(c *Context) string {
	switch b {
	case BucketChannel:
		return c.Message.ChannelID
	case BucketGuild:
		if c.Message.GuildID == "" {
			return "dm:" + c.Message.ChannelID
		}
		return c.Message.GuildID
	case BucketGlobal:
		return ""
	default:
		return c.Message.AuthorID
	}
}

// CooldownManager allows Uses invocations per Period in each bucket. Every
// bucket keeps a sliding window of the timestamps of its recent uses.
type CooldownManager struct {
	Uses   int
	Period time.Duration
	Bucket Bucket

	mu      sync.Mutex
	windows map[string]*deque.Deque
	now     func() time.Time
}

// NewCooldown returns a manager allowing uses per period.
func NewCooldown(uses int, period time.Duration, bucket Bucket) *CooldownManager {
	return &CooldownManager{
		Uses:    uses,
		Period:  period,
		Bucket:  bucket,
		windows: make(map[string]*deque.Deque),
		now:     time.Now,
	}
}

// Add records a use for the context's bucket. It fails with an OnCooldown
// CheckFailure, without recording anything, when the window is full.
func (m *CooldownManager) Add(c *Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	key := m.Bucket.key(c)
	w, ok := m.windows[key]
	if !ok {
		w = deque.New()
		m.windows[key] = w
	}
	if wait := m.expire(w, now); wait > 0 {
		return m.failure(c, wait)
	}
	w.PushBack(now)
	return nil
}

// RetryAfter reports how long the context's bucket must wait, or zero.
func (m *CooldownManager) RetryAfter(c *Context) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[m.Bucket.key(c)]
	if !ok {
		return 0
	}
	return m.expire(w, m.now())
}

// Check fails with an OnCooldown CheckFailure while the bucket is full.
func (m *CooldownManager) Check(_ context.Context, c *Context) error {
	if wait := m.RetryAfter(c); wait > 0 {
		return m.failure(c, wait)
	}
	return nil
}

// Reset forgets the context's bucket.
func (m *CooldownManager) Reset(c *Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, m.Bucket.key(c))
}

// Prune drops buckets whose windows have fully expired and returns how many
// were removed.
func (m *CooldownManager) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, w := range m.windows {
		m.expire(w, now)
		if w.Len() == 0 {
			delete(m.windows, key)
			removed++
		}
	}
	return removed
}

// expire pops timestamps older than Period and returns the remaining wait if
// the window is still full. The caller holds mu.
func (m *CooldownManager) expire(w *deque.Deque, now time.Time) time.Duration {
	for w.Len() > 0 {
		v, _ := w.Front()
		if now.Sub(v.(time.Time)) < m.Period {
			break
		}
		w.PopFront()
	}
	if w.Len() < m.Uses {
		return 0
	}
	v, _ := w.Front()
	return v.(time.Time).Add(m.Period).Sub(now)
}

func (m *CooldownManager) failure(c *Context, wait time.Duration) error {
	return &CheckFailure{Kind: OnCooldown, Command: c.Command, RetryAfter: wait}
}

// RunCooldownCleaner prunes idle cooldown buckets of every command in reg
// each interval until ctx is done. Call from main or app lifecycle.
func RunCooldownCleaner(ctx context.Context, reg *Registry, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			total := 0
			reg.Walk(func(c *Command) {
				if c.Cooldown != nil {
					total += c.Cooldown.Prune()
				}
			})
			if total > 0 {
				log.Printf("[DEBUG] Pruned %d idle cooldown buckets", total)
			}
		}
	}
}
