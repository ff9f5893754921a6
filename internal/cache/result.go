package cache

import (
	"encoding/json"
	"time"

	"github.com/ppiankov/jtbd/internal/model"
)

// ResultCache stores analysis results as JSON in any Cache
type ResultCache struct {
	backend Cache
	ttl     time.Duration
}

// NewResultCache wraps backend; ttl of zero uses the backend default
func NewResultCache(backend Cache, ttl time.Duration) *ResultCache {
	return &ResultCache{backend: backend, ttl: ttl}
}

// Get returns a cached result. Entries that no longer decode are treated as misses.
func (c *ResultCache) Get(key string) (*model.AnalysisResult, bool) {
	data, ok := c.backend.Get(key)
	if !ok {
		return nil, false
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		_ = c.backend.Delete(key)
		return nil, false
	}
	return &result, true
}

// Set stores a result
func (c *ResultCache) Set(key string, result *model.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.backend.Set(key, data, c.ttl)
}
