package analysis

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/scottolmer/nfl-betting-system-sub001/internal/metrics"
	"github.com/scottolmer/nfl-betting-system-sub001/internal/models"
)

// CacheKey identifies one analysis: the prop under the weight table version
// it was scored with. A calibration swap naturally misses the old entries.
type CacheKey struct {
	PropID         uuid.UUID
	Season         int
	Week           int
	WeightsVersion int64
}

// String returns the string representation of the cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%d:%d:v%d", k.PropID, k.Season, k.Week, k.WeightsVersion)
}

// AnalysisCache provides time-bound in-memory caching for finished analyses
type AnalysisCache struct {
	cache *cache.Cache
	ttl   time.Duration

	mu        sync.RWMutex
	hitCount  uint64
	missCount uint64
}

// NewAnalysisCache creates a cache with the given entry TTL
func NewAnalysisCache(ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Get retrieves a cached analysis, nil on miss
func (c *AnalysisCache) Get(key CacheKey) *models.PropAnalysis {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, found := c.cache.Get(key.String()); found {
		if analysis, ok := v.(*models.PropAnalysis); ok {
			c.hitCount++
			metrics.AnalysisCacheHits.Inc()
			return analysis
		}
	}

	c.missCount++
	metrics.AnalysisCacheMisses.Inc()
	return nil
}

// Set stores a finished analysis
func (c *AnalysisCache) Set(key CacheKey, analysis *models.PropAnalysis) {
	c.cache.Set(key.String(), analysis, c.ttl)
}

// Stats returns lifetime hit and miss counts
func (c *AnalysisCache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hitCount, c.missCount
}

// Flush drops every cached analysis
func (c *AnalysisCache) Flush() {
	c.cache.Flush()
}
