package leaderboard

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"

	"github.com/ambassador-program/engagement-ledger/internal/core/domain"
	"github.com/ambassador-program/engagement-ledger/internal/core/ports"
	"github.com/ambassador-program/engagement-ledger/internal/metrics"
)

const defaultCacheSize = 64

type cacheItem struct {
	entries   []ports.LeaderboardEntry
	expiresAt time.Time // zero: valid until the next Purge
}

// Cache holds ranked results keyed by period and limit. The owner purges it
// on every mutation; windowed results additionally expire after ttl since
// the window slides with the clock.
type Cache struct {
	lru   *lru.Cache[string, cacheItem]
	ttl   time.Duration
	clock clockwork.Clock
}

func NewCache(size int, ttl time.Duration, clock clockwork.Clock) (*Cache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		return nil, fmt.Errorf("leaderboard cache: %w", err)
	}
	return &Cache{lru: l, ttl: ttl, clock: clock}, nil
}

func cacheKey(period domain.Period, limit int) string {
	return fmt.Sprintf("%s:%d", period, limit)
}

// Get returns a copy of the cached ranking.
func (c *Cache) Get(period domain.Period, limit int) ([]ports.LeaderboardEntry, bool) {
	key := cacheKey(period, limit)
	item, ok := c.lru.Get(key)
	if ok && !item.expiresAt.IsZero() && c.clock.Now().After(item.expiresAt) {
		c.lru.Remove(key)
		ok = false
	}
	if !ok {
		metrics.LeaderboardCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.LeaderboardCacheTotal.WithLabelValues("hit").Inc()
	return cloneEntries(item.entries), true
}

func (c *Cache) Set(period domain.Period, limit int, entries []ports.LeaderboardEntry) {
	item := cacheItem{entries: cloneEntries(entries)}
	if _, bounded := period.Window(); bounded && c.ttl > 0 {
		item.expiresAt = c.clock.Now().Add(c.ttl)
	}
	c.lru.Add(cacheKey(period, limit), item)
}

// Purge drops every cached ranking.
func (c *Cache) Purge() { c.lru.Purge() }

func (c *Cache) Len() int { return c.lru.Len() }

func cloneEntries(entries []ports.LeaderboardEntry) []ports.LeaderboardEntry {
	out := make([]ports.LeaderboardEntry, len(entries))
	copy(out, entries)
	return out
}
