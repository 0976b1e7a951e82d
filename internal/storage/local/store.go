package local

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/umka-learn/umka/internal/domain"
)

// Store keeps profile snapshots as JSON files, one per user key. It is
// the lowest-durability tier: always available, best effort, no history.
type Store struct {
	basePath string
	mu       sync.RWMutex
}

// NewStore creates a snapshot store rooted at the given directory.
func NewStore(basePath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "profiles"), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// SaveSnapshot writes the profile for the given user key, replacing any
// previous snapshot.
func (s *Store) SaveSnapshot(_ context.Context, userKey string, p *domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Create(s.path(userKey))
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(p); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the profile for the given user key. A missing
// snapshot is domain.ErrProfileNotFound.
func (s *Store) LoadSnapshot(_ context.Context, userKey string) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := os.Open(s.path(userKey))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	var p domain.Profile
	if err := json.NewDecoder(file).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &p, nil
}

// Delete removes the snapshot for the given user key. Missing snapshots
// are domain.ErrProfileNotFound.
func (s *Store) Delete(_ context.Context, userKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(userKey)); err != nil {
		if os.IsNotExist(err) {
			return domain.ErrProfileNotFound
		}
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	return nil
}

// List returns the user keys with a stored snapshot.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.basePath, "profiles"))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read store directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		keys = append(keys, name[:len(name)-len(".json")])
	}
	return keys, nil
}

func (s *Store) path(userKey string) string {
	return filepath.Join(s.basePath, "profiles", userKey+".json")
}
