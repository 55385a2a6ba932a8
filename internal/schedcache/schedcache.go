// Package schedcache memoizes Schedule computations keyed by the tuple
// that fully determines their result: the document's cache hash, the
// as-of date, the (sorted) terminal set, the scheduling mode, and — for
// stochastic mode — the particle count and seed. It is
// safe for concurrent reads of distinct keys and computes each distinct
// key at most once concurrently via singleflight.
package schedcache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/alexanderramin/timelines/internal/domain"
)

// Mode selects deterministic vs. Monte Carlo scheduling, folded into the
// cache key.
type Mode string

const (
	ModeDeterministic Mode = "deterministic"
	ModeStochastic    Mode = "stochastic"
)

// Key fully determines a Schedule computation's result.
type Key struct {
	CacheHash uint64
	AsOf      time.Time
	Terminals []string
	Mode      Mode
	K         int
	Seed      int64
}

// string renders k as a stable, order-independent string — the terminal
// set is sorted before joining so {"b","a"} and {"a","b"} collide.
func (k Key) string() string {
	terminals := append([]string(nil), k.Terminals...)
	sort.Strings(terminals)
	return fmt.Sprintf("%d|%d|%s|%s|%d|%d",
		k.CacheHash, k.AsOf.UnixNano(), strings.Join(terminals, ","), k.Mode, k.K, k.Seed)
}

// ComputeFunc produces a Schedule for a cache miss.
type ComputeFunc func(ctx context.Context) (*domain.Schedule, error)

// Cache is an LRU-backed, compute-once Schedule cache.
type Cache struct {
	lru   *lru.Cache[string, *domain.Schedule]
	group singleflight.Group
}

// New returns a Cache holding up to size entries, evicting least-recently
// used entries once full.
func New(size int) (*Cache, error) {
	l, err := lru.New[string, *domain.Schedule](size)
	if err != nil {
		return nil, fmt.Errorf("schedcache: %w", err)
	}
	return &Cache{lru: l}, nil
}

// GetOrCompute returns the cached Schedule for key, computing it via fn
// on a miss. Concurrent callers for the same key share one computation
// (singleflight); callers for distinct keys never block one another.
// If ctx is cancelled before fn returns, the result is not cached.
func (c *Cache) GetOrCompute(ctx context.Context, key Key, fn ComputeFunc) (*domain.Schedule, error) {
	k := key.string()
	if sched, ok := c.lru.Get(k); ok {
		return sched, nil
	}

	v, err, _ := c.group.Do(k, func() (any, error) {
		sched, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, domain.ErrCancelRequested
		default:
		}
		c.lru.Add(k, sched)
		return sched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Schedule), nil
}

// Invalidate drops every cached entry — called when the caller knows the
// document changed in a way the cache_hash alone would not capture (e.g.
// a bulk import that rewrote many processes' histories in place).
func (c *Cache) Invalidate() {
	c.lru.Purge()
}

// Len returns the number of entries currently cached.
func (c *Cache) Len() int {
	return c.lru.Len()
}
