package credstore

import (
	"sync"

	"github.com/slimenefellah/myguide/internal/interfaces"
	"github.com/slimenefellah/myguide/internal/models"
)

// MemoryStorage is a non-persistent backend for tests and ephemeral runs.
type MemoryStorage struct {
	mu    sync.Mutex
	creds models.Credentials
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (models.Credentials, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, nil
}

func (m *MemoryStorage) Save(creds models.Credentials) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = creds
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = models.Credentials{}
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

var _ interfaces.CredentialStorage = (*MemoryStorage)(nil)
