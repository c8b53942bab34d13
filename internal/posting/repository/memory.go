package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/posting"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("posting not found")
)

// MemoryRepo is a simple in-memory posting repository used for the
// standalone review service and unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*posting.Posting
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*posting.Posting)}
}

func (m *MemoryRepo) Create(p *posting.Posting) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.store[p.ID] = p
	return p.ID, nil
}

func (m *MemoryRepo) Get(id string) (*posting.Posting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}
