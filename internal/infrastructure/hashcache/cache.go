// Package hashcache computes SHA-256 content hashes with modification-time
// keyed caching, used to detect re-classification of unchanged files.
package hashcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
)

type cacheKey struct {
	path  string
	mtime int64
}

// Cache is monotonic: entries are only added, and the mtime in the key makes
// staleness self-correcting.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]string
}

func New() *Cache {
	return &Cache{entries: make(map[cacheKey]string)}
}

// Hash returns the hex SHA-256 of the file content, reusing the cached value
// when the file's modification time is unchanged.
func (c *Cache) Hash(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat file: %w", err)
	}
	key := cacheKey{path: path, mtime: info.ModTime().UnixNano()}

	c.mu.Lock()
	cached, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	sum, err := hashFile(path)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.entries[key] = sum
	c.mu.Unlock()
	return sum, nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]string)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
