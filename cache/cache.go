// Package cache stores analysis results so identical submissions skip the LLM.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"redline-backend/models"
	"redline-backend/textutil"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity is used when a non-positive capacity is requested
const DefaultCapacity = 256

// Store is the cache the analysis service depends on. Implementations must be
// safe for concurrent use.
type Store interface {
	Get(key string) (models.AnalysisResult, bool)
	Set(key string, value models.AnalysisResult)
}

// LRU is a fixed-capacity Store that evicts the least recently used entry
type LRU struct {
	entries *lru.Cache[string, models.AnalysisResult]
}

// NewLRU creates a new LRU store
func NewLRU(capacity int) (*LRU, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, models.AnalysisResult](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &LRU{entries: entries}, nil
}

// Get returns the cached result for key
func (c *LRU) Get(key string) (models.AnalysisResult, bool) {
	return c.entries.Get(key)
}

// Set stores value under key, evicting the oldest entry when full
func (c *LRU) Set(key string, value models.AnalysisResult) {
	c.entries.Add(key, value)
}

// Len is the number of cached entries
func (c *LRU) Len() int {
	return c.entries.Len()
}

// Key hashes the whitespace-normalized text together with the prompt variant,
// so reflowed copies of the same document share an entry.
func Key(text, variant string) string {
	h := sha256.New()
	h.Write([]byte(textutil.Normalize(text)))
	h.Write([]byte{0})
	h.Write([]byte(variant))
	return hex.EncodeToString(h.Sum(nil))
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(string) (models.AnalysisResult, bool) { return models.AnalysisResult{}, false }
func (Noop) Set(string, models.AnalysisResult)        {}
