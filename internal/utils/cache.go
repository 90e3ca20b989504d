package utils

import (
	"os"
	"sync"
	"time"
)

// cacheEntry remembers the file state a cached value was derived from
type cacheEntry[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// FileCache caches values derived from files and drops them once the file changes
type FileCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[V]
}

// NewFileCache creates an empty cache
func NewFileCache[V any]() *FileCache[V] {
	return &FileCache[V]{entries: make(map[string]cacheEntry[V])}
}

// Get returns the cached value for path if the file is unchanged since Put
func (c *FileCache[V]) Get(path string) (V, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}

	stat, err := os.Stat(path)
	if err == nil && stat.ModTime().Equal(entry.modTime) && stat.Size() == entry.size {
		return entry.value, true
	}

	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
	return zero, false
}

// Put stores value for path together with the file's current size and mtime
func (c *FileCache[V]) Put(path string, value V) error {
	stat, err := os.Stat(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry[V]{value: value, modTime: stat.ModTime(), size: stat.Size()}
	return nil
}

// Len returns the number of cached entries
func (c *FileCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries
func (c *FileCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[V])
}
