package cache

import (
	"fmt"
	"sync"
	"testing"

	"redline-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(id string) models.AnalysisResult {
	return models.AnalysisResult{DocumentID: id, Comments: []models.Comment{}}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	c.Set("a", result("a"))
	c.Set("b", result("b"))
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", result("c"))

	_, ok = c.Get("b")
	assert.False(t, ok, "b was least recently used")
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "a", got.DocumentID)
	assert.Equal(t, 2, c.Len())
}

func TestLRUDefaultCapacity(t *testing.T) {
	c, err := NewLRU(0)
	require.NoError(t, err)
	for i := 0; i < DefaultCapacity+10; i++ {
		c.Set(fmt.Sprint(i), result(fmt.Sprint(i)))
	}
	assert.Equal(t, DefaultCapacity, c.Len())
}

func TestLRUConcurrentAccess(t *testing.T) {
	c, err := NewLRU(64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", i%100)
				c.Set(key, result(key))
				if got, ok := c.Get(key); ok {
					assert.Equal(t, key, got.DocumentID)
				}
			}
		}(w)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 64)
}

func TestKey(t *testing.T) {
	base := Key("Clause 1.\nPayment  due.", "legal")

	assert.Equal(t, base, Key("  Clause 1. Payment due.\n", "legal"))
	assert.NotEqual(t, base, Key("Clause 1. Payment due.", "prd"))
	assert.NotEqual(t, base, Key("Clause 2. Payment due.", "legal"))
	assert.Len(t, base, 64)
}

func TestNoop(t *testing.T) {
	var s Store = Noop{}
	s.Set("a", result("a"))
	_, ok := s.Get("a")
	assert.False(t, ok)
}
