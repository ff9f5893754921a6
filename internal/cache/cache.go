// Package cache stores rendered analysis results so repeated runs over an
// unchanged corpus skip clustering.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// keyPrefix is bumped whenever the cached result format changes
const keyPrefix = "jtbd:v1:"

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key hashes the JSON encoding of every part into a cache key.
// Callers pass everything the cached value depends on (corpus, settings, mode).
func Key(parts ...interface{}) (string, error) {
	h := sha256.New()
	for i, part := range parts {
		data, err := json.Marshal(part)
		if err != nil {
			return "", fmt.Errorf("cache key part %d: %w", i, err)
		}
		h.Write(data)
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}
