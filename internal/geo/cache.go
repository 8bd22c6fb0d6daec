package geo

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DistanceFunc computes the distance in miles between two coordinates.
type DistanceFunc func(a, b Coordinate) float64

// DistanceCacheConfig holds configuration for the distance cache.
type DistanceCacheConfig struct {
	// Distance is the underlying distance function (default: Miles).
	Distance DistanceFunc

	// TTL is how long computed distances stay valid (default: 24 hours).
	TTL time.Duration

	// CleanupInterval is how often expired entries are swept (default: 1 hour).
	CleanupInterval time.Duration

	// Logger for cache operations.
	Logger zerolog.Logger
}

// DistanceCache memoizes great-circle distances between coordinate pairs.
// It is shared by all planning runs in the process and safe for concurrent
// use. Keys are order-sensitive: (a,b) and (b,a) are distinct entries, which
// is harmless since distance is symmetric and a miss only recomputes.
type DistanceCache struct {
	distance        DistanceFunc
	ttl             time.Duration
	cleanupInterval time.Duration
	logger          zerolog.Logger

	mu          sync.RWMutex
	entries     map[pairKey]cachedDistance
	lastCleanup time.Time
}

type pairKey struct {
	From Coordinate
	To   Coordinate
}

type cachedDistance struct {
	miles     float64
	expiresAt time.Time
}

// NewDistanceCache creates a new distance cache.
func NewDistanceCache(cfg DistanceCacheConfig) *DistanceCache {
	distance := cfg.Distance
	if distance == nil {
		distance = Miles
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval == 0 {
		cleanupInterval = time.Hour
	}

	return &DistanceCache{
		distance:        distance,
		ttl:             ttl,
		cleanupInterval: cleanupInterval,
		logger:          cfg.Logger,
		entries:         make(map[pairKey]cachedDistance),
	}
}

// Distance returns the distance in miles between a and b, computing and
// caching it when no fresh entry exists.
func (c *DistanceCache) Distance(a, b Coordinate) float64 {
	key := pairKey{From: a, To: b}

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(cached.expiresAt) {
		return cached.miles
	}

	miles := c.distance(a, b)

	now := time.Now()
	c.mu.Lock()
	// A concurrent writer may have raced us here; overwriting is idempotent
	// since the value is derived purely from the key.
	c.entries[key] = cachedDistance{miles: miles, expiresAt: now.Add(c.ttl)}
	c.cleanupLocked(now)
	c.mu.Unlock()

	return miles
}

// cleanupLocked sweeps expired entries if the cleanup interval has passed.
// Caller must hold the write lock.
func (c *DistanceCache) cleanupLocked(now time.Time) {
	if now.Sub(c.lastCleanup) < c.cleanupInterval {
		return
	}

	c.lastCleanup = now
	expired := 0
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
			expired++
		}
	}

	if expired > 0 {
		c.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired distance cache entries")
	}
}

// Invalidate clears all cached distances.
func (c *DistanceCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[pairKey]cachedDistance)
}

// Len returns the number of cached entries, fresh or expired.
func (c *DistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
