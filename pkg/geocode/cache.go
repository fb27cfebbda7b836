package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// CacheEntry records one resolution attempt, success or explicit failure.
// Entries are never mutated once written: a cached failure is not retried.
type CacheEntry struct {
	PlaceName  string   `json:"place_name"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Address    string   `json:"address,omitempty"`
	Geocoded   bool     `json:"geocoded"`
	Provider   string   `json:"provider"`
	Confidence float64  `json:"confidence"`
}

// Cache is the file-backed geocode result store, owned by the resolver and
// injected at construction. It assumes a single writer process; writes are
// serialized with a lock file and made atomic via temp-file rename so a
// crash never leaves a truncated cache on disk.
type Cache struct {
	path    string
	entries map[string]CacheEntry
	lock    *flock.Flock
}

// CacheKey builds the lookup key for a (place, country) pair.
func CacheKey(place, country string) string {
	return place + "_" + country
}

// OpenCache loads the cache file at path, or starts empty when the file
// does not exist or cannot be parsed. An empty path keeps the cache purely
// in memory.
func OpenCache(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]CacheEntry)}
	if path == "" {
		return c, nil
	}
	c.lock = flock.New(path + ".lock")

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("geocode cache: read %s: %w", path, err)
	}
	// A corrupt cache is not fatal; resolution starts over.
	if err := json.Unmarshal(data, &c.entries); err != nil {
		c.entries = make(map[string]CacheEntry)
	}
	return c, nil
}

// Get returns the stored entry for key, if any.
func (c *Cache) Get(key string) (CacheEntry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Len reports the number of stored entries.
func (c *Cache) Len() int { return len(c.entries) }

// Put stores an entry and persists the cache file.
func (c *Cache) Put(key string, e CacheEntry) error {
	c.entries[key] = e
	return c.save()
}

func (c *Cache) save() error {
	if c.path == "" {
		return nil
	}

	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("geocode cache: lock: %w", err)
	}
	defer c.lock.Unlock()

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".geocode-cache-*")
	if err != nil {
		return fmt.Errorf("geocode cache: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("geocode cache: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("geocode cache: rename: %w", err)
	}
	return nil
}
