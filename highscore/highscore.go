// Package highscore persists the best score of each game key between runs.
package highscore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps scores in a small JSON document on disk. Every Set
// rewrites the whole file.
type FileStore struct {
	path   string
	mu     sync.RWMutex
	scores map[string]int
}

// NewFileStore opens the store at path, creating an empty document (and its
// parent directory) when the file does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	store := &FileStore{
		path:   path,
		scores: make(map[string]int),
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(data) > 0 {
			if err := json.Unmarshal(data, &store.scores); err != nil {
				return nil, fmt.Errorf("highscore: decode %s: %w", path, err)
			}
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("highscore: create directory: %w", err)
		}
		if err := store.save(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("highscore: read %s: %w", path, err)
	}

	return store, nil
}

// DefaultPath returns the per-user location used by the game binaries.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "blockfall", "highscore.json"), nil
}

func (s *FileStore) Get(key string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, ok := s.scores[key]
	return score, ok, nil
}

func (s *FileStore) Set(key string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.scores[key]
	s.scores[key] = score
	if err := s.save(); err != nil {
		if had {
			s.scores[key] = prev
		} else {
			delete(s.scores, key)
		}
		return err
	}
	return nil
}

// save writes through a temporary file so a crash never leaves a truncated
// document behind. Callers hold the lock, or own the store exclusively.
func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.scores, "", "  ")
	if err != nil {
		return fmt.Errorf("highscore: encode: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("highscore: write: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("highscore: replace: %w", err)
	}
	return nil
}

// MemoryStore is a process-local store, used when no file is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	scores map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[string]int)}
}

func (s *MemoryStore) Get(key string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, ok := s.scores[key]
	return score, ok, nil
}

func (s *MemoryStore) Set(key string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scores[key] = score
	return nil
}
