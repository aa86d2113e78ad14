package repositories

import (
	"testing"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildRepository_EvictGuildOverrides(t *testing.T) {
	cache, err := lru.New(guildCacheSize)
	require.NoError(t, err)
	r := &guildRepository{overrideCache: cache}

	r.cacheOverride("123", "coinflip", 5*time.Second, true)
	r.cacheOverride("123", "all", 10*time.Second, true)
	r.cacheOverride("1234", "coinflip", 30*time.Second, true)

	r.evictGuildOverrides("123")

	_, _, found := r.cachedOverride("123", "coinflip")
	assert.False(t, found)
	_, _, found = r.cachedOverride("123", "all")
	assert.False(t, found)

	// A guild whose ID merely extends the evicted one keeps its entry.
	d, ok, found := r.cachedOverride("1234", "coinflip")
	require.True(t, found)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, d)
}
