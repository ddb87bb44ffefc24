package glyph

import pc "github.com/phroun/purfectcast"

// cacheKey identifies a rasterized glyph
type cacheKey struct {
	ch   rune
	size float64
}

// cacheEntry stores a rasterized glyph
type cacheEntry struct {
	metrics    pc.GlyphMetrics
	coverage   []byte
	lastAccess uint64 // Access counter for LRU eviction
}

// glyphCache provides LRU caching for rasterized glyphs.
// It is not safe for concurrent use; Rasterizer guards it.
type glyphCache struct {
	entries       map[cacheKey]*cacheEntry
	accessCounter uint64 // Global counter incremented on each access
	maxEntries    int    // Maximum cache size
}

func newGlyphCache(maxEntries int) *glyphCache {
	return &glyphCache{
		entries:    make(map[cacheKey]*cacheEntry),
		maxEntries: max(maxEntries, 1),
	}
}

// get retrieves a cached glyph, updating its access time
func (c *glyphCache) get(key cacheKey) (*cacheEntry, bool) {
	entry, ok := c.entries[key]
	if ok {
		c.accessCounter++
		entry.lastAccess = c.accessCounter
	}
	return entry, ok
}

// put adds a glyph to the cache, evicting old entries if needed
func (c *glyphCache) put(key cacheKey, metrics pc.GlyphMetrics, coverage []byte) {
	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxEntries {
		c.evictOldest(max(c.maxEntries/4, 1)) // Evict 25% of entries
	}

	c.accessCounter++
	c.entries[key] = &cacheEntry{
		metrics:    metrics,
		coverage:   coverage,
		lastAccess: c.accessCounter,
	}
}

// evictOldest removes the n least recently used entries
func (c *glyphCache) evictOldest(n int) {
	if n <= 0 || len(c.entries) == 0 {
		return
	}

	type entryInfo struct {
		key        cacheKey
		lastAccess uint64
	}

	entries := make([]entryInfo, 0, len(c.entries))
	for k, v := range c.entries {
		entries = append(entries, entryInfo{k, v.lastAccess})
	}

	// Partial selection sort for the n smallest
	for i := 0; i < n && i < len(entries); i++ {
		minIdx := i
		for j := i + 1; j < len(entries); j++ {
			if entries[j].lastAccess < entries[minIdx].lastAccess {
				minIdx = j
			}
		}
		entries[i], entries[minIdx] = entries[minIdx], entries[i]
		delete(c.entries, entries[i].key)
	}
}

func (c *glyphCache) size() int {
	return len(c.entries)
}
