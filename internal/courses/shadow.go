package courses

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/2beens/fitcourses/internal/storage"

	log "github.com/sirupsen/logrus"
)

const (
	KeyShadow          = "userCourses"
	DefaultShadowLimit = 256
)

// Shadow is the local copy of the enrolled course ids: bounded, without TTL,
// written through on every successful enrollment change. It may be stale, and
// it is only read when the server cannot be reached.
type Shadow struct {
	mu    sync.Mutex
	store storage.Store
	limit int
}

func NewShadow(store storage.Store, limit int) *Shadow {
	if limit <= 0 {
		limit = DefaultShadowLimit
	}
	return &Shadow{
		store: store,
		limit: limit,
	}
}

// List returns the stored ids. found is false when no list was ever stored.
func (s *Shadow) List(ctx context.Context) (ids []string, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Shadow) Add(ctx context.Context, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, _, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == courseID {
			return nil
		}
	}
	return s.save(ctx, append(ids, courseID))
}

func (s *Shadow) Remove(ctx context.Context, courseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, _, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != courseID {
			kept = append(kept, id)
		}
	}
	return s.save(ctx, kept)
}

// Replace overwrites the list with ids fetched from the server.
func (s *Shadow) Replace(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return s.save(ctx, unique)
}

func (s *Shadow) load(ctx context.Context) ([]string, bool, error) {
	raw, found, err := s.store.Get(ctx, KeyShadow)
	if err != nil {
		return nil, false, fmt.Errorf("read shadow list: %w", err)
	}
	if !found {
		return []string{}, false, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Warnf("shadow list is corrupted, ignoring it: %s", err)
		return []string{}, false, nil
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, true, nil
}

// save keeps the newest ids when the list grows over the limit.
func (s *Shadow) save(ctx context.Context, ids []string) error {
	if len(ids) > s.limit {
		ids = ids[len(ids)-s.limit:]
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal shadow list: %w", err)
	}
	if err := s.store.Set(ctx, KeyShadow, string(encoded)); err != nil {
		return fmt.Errorf("write shadow list: %w", err)
	}
	return nil
}
