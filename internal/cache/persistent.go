package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitcourses/internal/storage"

	log "github.com/sirupsen/logrus"
)

// KeyPrefix separates cache entries from the rest of the persisted client
// state, so wiping the cache never touches the session or the shadow lists.
const KeyPrefix = "cache::"

type persistedEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // unix ms
}

// PersistentCache keeps entries in the client state store. Values must be JSON.
type PersistentCache struct {
	store   storage.Store
	NowFunc func() time.Time
}

var _ Cache = (*PersistentCache)(nil)

func NewPersistentCache(store storage.Store) *PersistentCache {
	return &PersistentCache{
		store:   store,
		NowFunc: time.Now,
	}
}

func (c *PersistentCache) Get(ctx context.Context, key string) (*Entry, bool) {
	raw, found, err := c.store.Get(ctx, KeyPrefix+key)
	if err != nil {
		log.Warnf("persistent cache get [%s]: %s", key, err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var pe persistedEntry
	if err := json.Unmarshal([]byte(raw), &pe); err != nil || len(pe.Data) == 0 {
		log.Warnf("persistent cache entry [%s] is corrupted, ignoring it", key)
		return nil, false
	}

	return &Entry{
		Key:       key,
		Value:     pe.Data,
		Timestamp: time.UnixMilli(pe.Timestamp),
	}, true
}

func (c *PersistentCache) Set(ctx context.Context, key string, value []byte, _ Options) error {
	return c.setAt(ctx, key, value, c.NowFunc())
}

func (c *PersistentCache) setAt(ctx context.Context, key string, value []byte, ts time.Time) error {
	if !json.Valid(value) {
		return fmt.Errorf("persistent cache set [%s]: value is not valid json", key)
	}
	encoded, err := json.Marshal(persistedEntry{
		Data:      value,
		Timestamp: ts.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal cache entry [%s]: %w", key, err)
	}
	if err := c.store.Set(ctx, KeyPrefix+key, string(encoded)); err != nil {
		return fmt.Errorf("persistent cache set [%s]: %w", key, err)
	}
	return nil
}

func (c *PersistentCache) Clear(ctx context.Context, pattern string) error {
	keys, err := c.Keys(ctx)
	if err != nil {
		return err
	}

	var toDelete []string
	for _, k := range keys {
		if strings.Contains(k, pattern) {
			toDelete = append(toDelete, KeyPrefix+k)
		}
	}
	if len(toDelete) == 0 {
		return nil
	}
	if err := c.store.Delete(ctx, toDelete...); err != nil {
		return fmt.Errorf("persistent cache clear [%s]: %w", pattern, err)
	}
	return nil
}

// Keys returns the cache keys, without the storage prefix.
func (c *PersistentCache) Keys(ctx context.Context) ([]string, error) {
	storeKeys, err := c.store.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list persistent cache keys: %w", err)
	}
	keys := make([]string, 0, len(storeKeys))
	for _, k := range storeKeys {
		keys = append(keys, strings.TrimPrefix(k, KeyPrefix))
	}
	return keys, nil
}
