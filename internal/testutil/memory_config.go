package testutil

import (
	"sync"

	"github.com/alexanderramin/vartui/internal/config"
)

// MemoryConfigStore is a config.Store held in memory.
type MemoryConfigStore struct {
	mu      sync.Mutex
	cfg     config.Config
	SaveErr error
	saves   int
}

var _ config.Store = (*MemoryConfigStore)(nil)

func NewMemoryConfigStore(cfg config.Config) *MemoryConfigStore {
	return &MemoryConfigStore{cfg: cfg}
}

func (s *MemoryConfigStore) Load() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *MemoryConfigStore) Save(cfg config.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.cfg = cfg
	s.saves++
	return nil
}

// Saves returns how many successful saves happened.
func (s *MemoryConfigStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
