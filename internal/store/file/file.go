// Package file implements the credential store as a single JSON document
// mapping user id to record, rewritten wholesale on every update.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/podgenius/podgenius-server/internal/model"
	"github.com/podgenius/podgenius-server/internal/store"
)

const fileName = "users.json"

// FileStore guards the document with a process-local mutex. Concurrent
// writers in other processes remain last-write-wins, matching the observed
// behavior of the hosted-profile variant.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// New opens (or creates) the JSON document under dataDir.
func New(dataDir string) (store.Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	s := &FileStore{path: filepath.Join(dataDir, fileName)}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		if err := s.write(map[string]*model.UserRecord{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *FileStore) Get(ctx context.Context, userID string) (*model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	return records[userID].Clone(), nil
}

func (s *FileStore) Update(ctx context.Context, userID string, patch model.UserPatch) (*model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	merged := model.Merge(userID, records[userID], patch)
	records[userID] = merged
	if err := s.write(records); err != nil {
		return nil, err
	}
	return merged.Clone(), nil
}

func (s *FileStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(s.path)
	return err
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) read() (map[string]*model.UserRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	records := map[string]*model.UserRecord{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// write rewrites the whole document. A temp-file rename keeps a crashed write
// from truncating existing records.
func (s *FileStore) write(records map[string]*model.UserRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
