package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coocood/freecache"
)

const timestampLen = 8

// MemoryCache lives for the process lifetime. Each freecache value is the
// write timestamp (unix ms, big endian) followed by the cached bytes.
type MemoryCache struct {
	cache   *freecache.Cache
	NowFunc func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

func NewMemoryCache(sizeBytes int) *MemoryCache {
	return &MemoryCache{
		cache:   freecache.NewCache(sizeBytes),
		NowFunc: time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Entry, bool) {
	raw, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	if len(raw) < timestampLen {
		_ = c.cache.Del([]byte(key))
		return nil, false
	}

	tsMillis := int64(binary.BigEndian.Uint64(raw[:timestampLen]))
	value := make([]byte, len(raw)-timestampLen)
	copy(value, raw[timestampLen:])

	return &Entry{
		Key:       key,
		Value:     value,
		Timestamp: time.UnixMilli(tsMillis),
	}, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, _ Options) error {
	return c.setAt(key, value, c.NowFunc())
}

func (c *MemoryCache) setAt(key string, value []byte, ts time.Time) error {
	buf := make([]byte, timestampLen+len(value))
	binary.BigEndian.PutUint64(buf[:timestampLen], uint64(ts.UnixMilli()))
	copy(buf[timestampLen:], value)

	// 0 -> no expiry, staleness is checked by the readers
	if err := c.cache.Set([]byte(key), buf, 0); err != nil {
		if errors.Is(err, freecache.ErrLargeEntry) {
			return fmt.Errorf("cache entry [%s] too large (%d bytes): %w", key, len(value), err)
		}
		return fmt.Errorf("memory cache set [%s]: %w", key, err)
	}
	return nil
}

func (c *MemoryCache) Clear(_ context.Context, pattern string) error {
	if pattern == "" {
		c.cache.Clear()
		return nil
	}
	for _, k := range c.Keys() {
		if strings.Contains(k, pattern) {
			c.cache.Del([]byte(k))
		}
	}
	return nil
}

// Keys returns the keys of all live entries, sorted.
func (c *MemoryCache) Keys() []string {
	var keys []string
	it := c.cache.NewIterator()
	for e := it.Next(); e != nil; e = it.Next() {
		keys = append(keys, string(e.Key))
	}
	sort.Strings(keys)
	return keys
}
