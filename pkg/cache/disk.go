package cache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

// DiskCache is an on-disk cache for CLI usage. Entries survive process
// restarts and carry their own expiration metadata.
type DiskCache struct {
	kv *diskv.Diskv
}

// NewDiskCache creates a disk cache rooted at dir. The directory is
// created on first write if it does not exist.
func NewDiskCache(dir string) (Cache, error) {
	if dir == "" {
		return nil, errors.New("cache directory required")
	}
	// Caller keys are hashed before they reach the store, so the
	// transform always sees a 64-char hex string.
	kv := diskv.New(diskv.Options{
		BasePath:     dir,
		Transform:    func(key string) []string { return []string{key[:2]} },
		CacheSizeMax: 8 * 1024 * 1024,
	})
	return &DiskCache{kv: kv}, nil
}

// diskEntry wraps cached data with its expiration time.
type diskEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value. Expired or unreadable entries are removed and
// reported as a miss.
func (c *DiskCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	stored := Hash([]byte(key))

	data, err := c.kv.Read(stored)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = c.kv.Erase(stored)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = c.kv.Erase(stored)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set stores a value. A zero TTL means the entry never expires.
func (c *DiskCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := diskEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return c.kv.Write(Hash([]byte(key)), encoded)
}

// Delete removes a key. Missing keys are not an error.
func (c *DiskCache) Delete(ctx context.Context, key string) error {
	err := c.kv.Erase(Hash([]byte(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Close does nothing. Disk entries persist until expired or deleted.
func (c *DiskCache) Close() error {
	return nil
}

var _ Cache = (*DiskCache)(nil)
