package symbols

import (
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
)

// Cache maps buffer content hashes to the symbols indexed from them,
// evicting the least recently used buffer once full.
type Cache struct {
	entries     map[uint64]cacheEntry
	accessTime  map[uint64]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

// cacheEntry keeps the buffer so a hash collision reads as a miss.
type cacheEntry struct {
	buffer  string
	symbols []Symbol
}

func NewCache(maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		entries:    make(map[uint64]cacheEntry, maxEntries),
		accessTime: make(map[uint64]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

// Get returns a copy of the symbols cached for buffer.
func (c *Cache) Get(buffer string) ([]Symbol, bool) {
	key := xxhash.Sum64String(buffer)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || entry.buffer != buffer {
		c.misses++
		return nil, false
	}
	c.hits++
	c.markAccessed(key)
	return append([]Symbol(nil), entry.symbols...), true
}

// Put stores a copy of syms for buffer.
func (c *Cache) Put(buffer string, syms []Symbol) {
	key := xxhash.Sum64String(buffer)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLRU()
	}
	c.entries[key] = cacheEntry{buffer: buffer, symbols: append([]Symbol(nil), syms...)}
	c.markAccessed(key)
}

// Purge empties the cache.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]cacheEntry, c.maxEntries)
	c.accessTime = make(map[uint64]int64, c.maxEntries)
}

func (c *Cache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]int{
		"cachedBuffers": len(c.entries),
		"maxBuffers":    c.maxEntries,
		"cacheHits":     int(c.hits),
		"cacheMisses":   int(c.misses),
	}
}

func (c *Cache) markAccessed(key uint64) {
	c.accessCount++
	c.accessTime[key] = c.accessCount
}

func (c *Cache) evictLRU() {
	var oldest uint64
	var oldestTime int64 = math.MaxInt64
	found := false

	for key, t := range c.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldest = key
			found = true
		}
	}

	if found {
		delete(c.entries, oldest)
		delete(c.accessTime, oldest)
		log.Debugf("Evicted buffer %016x from symbol cache", oldest)
	}
}
