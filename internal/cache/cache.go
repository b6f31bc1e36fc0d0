package cache

import (
	"context"
	"net/url"
	"time"
)

// Cache is the response cache shared by the accessors. It is advisory: a
// failed read is a miss, a failed write only means the next read misses too.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key string, value []byte, opts Options) error
	// Clear removes every entry whose key contains pattern, "" removes all.
	Clear(ctx context.Context, pattern string) error
}

type Options struct {
	// Persistent entries survive process restarts.
	Persistent bool
}

type Entry struct {
	Key   string
	Value []byte
	// Timestamp is the time the value was written, staleness is decided by readers.
	Timestamp time.Time
}

// Fresh reports whether the entry is younger than ttl. A non-positive ttl never expires.
func (e *Entry) Fresh(ttl time.Duration, now time.Time) bool {
	if e == nil {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Sub(e.Timestamp) < ttl
}

type Info struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Key derives the cache key of an endpoint called with params. Parameters are
// sorted by name so reordered but equivalent requests share one key.
func Key(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	// Encode sorts by key
	return endpoint + "?" + values.Encode()
}
