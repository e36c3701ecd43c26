package identity

import (
	"sync"

	"github.com/wheelwords/wheelwords-go/internal/model"
)

// Store persists the durable per-(game, display-name) player identifier
// on the client side so reconnects resume the same seat
type Store interface {
	// Load returns the saved identifier, if any
	Load(code model.JoinCode, displayName string) (model.PlayerID, bool, error)

	// Save records the identifier for later reconnects
	Save(code model.JoinCode, displayName string, id model.PlayerID) error
}

type identityKey struct {
	code model.JoinCode
	name string
}

// MemoryStore is an in-process Store for tests and ephemeral clients
type MemoryStore struct {
	mu  sync.RWMutex
	ids map[identityKey]model.PlayerID
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ids: make(map[identityKey]model.PlayerID)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Load(code model.JoinCode, displayName string) (model.PlayerID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[identityKey{code: code, name: displayName}]
	return id, ok, nil
}

func (s *MemoryStore) Save(code model.JoinCode, displayName string, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[identityKey{code: code, name: displayName}] = id
	return nil
}
