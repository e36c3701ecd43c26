package identity

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wheelwords/wheelwords-go/internal/model"
)

// FileStore persists identifiers in a small JSON file so a restarted
// client process re-enters its games under the same identity
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a FileStore backed by the given path. The file
// is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ Store = (*FileStore)(nil)

func (s *FileStore) Load(code model.JoinCode, displayName string) (model.PlayerID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.read()
	if err != nil {
		return "", false, err
	}
	id, ok := ids[fileKey(code, displayName)]
	return model.PlayerID(id), ok, nil
}

func (s *FileStore) Save(code model.JoinCode, displayName string, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.read()
	if err != nil {
		return err
	}
	ids[fileKey(code, displayName)] = string(id)

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	ids := make(map[string]string)
	if err := json.Unmarshal(data, &ids); err != nil {
		// A corrupt scratch file is not worth failing a join over
		return make(map[string]string), nil
	}
	return ids, nil
}

func fileKey(code model.JoinCode, displayName string) string {
	return fmt.Sprintf("%s/%s", code, displayName)
}
