package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/2beens/fitcourses/pkg"

	log "github.com/sirupsen/logrus"
)

const stateFileName = "state.json"

// FileStore keeps all values in a single JSON object on disk. Every write
// rewrites the file through a temp file and a rename.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string) (*FileStore, error) {
	if err := pkg.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("ensure state dir: %w", err)
	}

	fs := &FileStore{
		path:   filepath.Join(dir, stateFileName),
		values: make(map[string]string),
	}

	exists, err := pkg.PathExists(fs.path, false)
	if err != nil {
		return nil, fmt.Errorf("check state file: %w", err)
	}
	if !exists {
		return fs, nil
	}

	content, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	if len(content) == 0 {
		return fs, nil
	}
	if err := json.Unmarshal(content, &fs.values); err != nil {
		// a broken state file must not lock the user out, start over
		log.Errorf("state file [%s] is corrupted, starting with empty state: %s", fs.path, err)
		fs.values = make(map[string]string)
	}

	return fs, nil
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.values[key]
	s.values[key] = value
	if err := s.flush(); err != nil {
		if existed {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for _, k := range keys {
		if _, ok := s.values[k]; ok {
			delete(s.values, k)
			removed = true
		}
	}
	if !removed {
		return nil
	}
	return s.flush()
}

func (s *FileStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return matchingKeys(s.values, prefix), nil
}

// flush must be called with the write lock held.
func (s *FileStore) flush() error {
	content, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), stateFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}
