package web

import (
	"geogrid/grid"
	"github.com/hauke96/sigolo/v2"
	"math"
	"sync"
)

// lruQueryCache is a simple LRU (least recently used) cache for query results. It has an internal locking mechanism
// and can be used in concurrent goroutines. The recency of entries is measured by a counter that increases with every
// access.
type lruQueryCache struct {
	entries         map[string]grid.QueryResult // Query key to its result
	lastAccessTimes map[string]int64            // Query key to value of the access counter at the last access
	accessCounter   int64
	mutex           *sync.Mutex
	maxSize         int // Maximum number of entries this cache should hold
}

func newLruQueryCache(maxSize int) *lruQueryCache {
	return &lruQueryCache{
		entries:         map[string]grid.QueryResult{},
		lastAccessTimes: map[string]int64{},
		mutex:           &sync.Mutex{},
		maxSize:         maxSize,
	}
}

// get returns the cached result and marks it as recently used.
func (c *lruQueryCache) get(key string) (grid.QueryResult, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	result, ok := c.entries[key]
	if ok {
		c.touch(key)
	}
	return result, ok
}

// insert adds or replaces the result for the given key. If the cache is full, the entry that hasn't been used longest
// will be evicted. A cache with a maximum size of 0 or less stores nothing.
func (c *lruQueryCache) insert(key string, result grid.QueryResult) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.maxSize <= 0 {
		return
	}

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		// Cache is full -> evict entry that has been unused the longest
		longestUnusedKey := c.getMinEntry()
		delete(c.entries, longestUnusedKey)
		delete(c.lastAccessTimes, longestUnusedKey)
		sigolo.Tracef("Evicted cached query %s", longestUnusedKey)
	}

	c.entries[key] = result
	c.touch(key)
}

func (c *lruQueryCache) clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = map[string]grid.QueryResult{}
	c.lastAccessTimes = map[string]int64{}
}

func (c *lruQueryCache) len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.entries)
}

// touch does NOT use locking and is meant for internal use only!
func (c *lruQueryCache) touch(key string) {
	c.accessCounter++
	c.lastAccessTimes[key] = c.accessCounter
}

// getMinEntry returns the key that hasn't been used longest. This function does NOT use locking and is meant for
// internal use only!
func (c *lruQueryCache) getMinEntry() string {
	minTimestamp := int64(math.MaxInt64)
	minKey := ""

	for key, timestamp := range c.lastAccessTimes {
		if timestamp < minTimestamp {
			minTimestamp = timestamp
			minKey = key
		}
	}

	return minKey
}
