package layout

import "sync"

// LineCache memoizes computed line layouts. Entries validate against
// the line's current text, so a stale layout can never be served after
// an edit even if the caller forgot to invalidate; invalidation exists
// to reclaim memory early, not for correctness. Eviction is LRU by a
// generation counter.
type LineCache struct {
	mu      sync.Mutex
	engine  *LayoutEngine
	entries map[uint32]*cacheEntry
	maxSize int
	gen     uint64

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	text   string
	layout *LineLayout
	gen    uint64
}

// NewLineCache creates a cache over the given engine holding at most
// maxSize lines; maxSize <= 0 means unbounded.
func NewLineCache(engine *LayoutEngine, maxSize int) *LineCache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &LineCache{
		engine:  engine,
		entries: make(map[uint32]*cacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the layout for a line, computing and caching it when the
// cached copy is missing or was built from different text.
func (c *LineCache) Get(line uint32, text string) *LineLayout {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if entry, ok := c.entries[line]; ok && entry.text == text {
		entry.gen = c.gen
		c.hits++
		return entry.layout
	}

	c.misses++
	layout := c.engine.Layout(text, line)
	c.entries[line] = &cacheEntry{text: text, layout: layout, gen: c.gen}
	c.evictLocked()
	return layout
}

// evictLocked drops least-recently-used entries until the cache fits.
func (c *LineCache) evictLocked() {
	if c.maxSize <= 0 {
		return
	}
	for len(c.entries) > c.maxSize {
		var oldestLine uint32
		oldestGen := c.gen + 1
		for line, entry := range c.entries {
			if entry.gen < oldestGen {
				oldestGen = entry.gen
				oldestLine = line
			}
		}
		delete(c.entries, oldestLine)
	}
}

// Invalidate drops one line's entry.
func (c *LineCache) Invalidate(line uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, line)
}

// InvalidateRange drops the inclusive line range.
func (c *LineCache) InvalidateRange(startLine, endLine uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for line := range c.entries {
		if line >= startLine && line <= endLine {
			delete(c.entries, line)
		}
	}
}

// InvalidateFrom drops every line at or after startLine, for edits that
// shift all following lines.
func (c *LineCache) InvalidateFrom(startLine uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for line := range c.entries {
		if line >= startLine {
			delete(c.entries, line)
		}
	}
}

// InvalidateAll empties the cache.
func (c *LineCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint32]*cacheEntry)
}

// Size returns the number of cached lines.
func (c *LineCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Stats returns a snapshot of the counters.
func (c *LineCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Size: len(c.entries)}
}

// Engine returns the layout engine the cache computes with.
func (c *LineCache) Engine() *LayoutEngine {
	return c.engine
}
