package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/careerbridge/careerbridge/backend/go-services/internal/application"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("application not found")
	ErrDuplicate = errors.New("already applied to this posting")
)

// Repository is the application record store: keyed by id, with a secondary
// posting index that preserves insertion order.
type Repository interface {
	Create(app *application.Application) (*application.Application, error)
	Get(id string) (*application.Application, error)
	ListByPosting(postingID string) ([]*application.Application, error)
	SetStatus(id string, status application.Status) (*application.Application, error)
}

// MemoryRepo is the in-memory record store used by the standalone review
// service and unit tests. All mutations take the write lock, so competing
// SetStatus calls on one record serialize (last write wins). Reads hand out
// snapshots, never pointers into the store, so callers can mutate results
// freely while transitions run.
type MemoryRepo struct {
	mu     sync.RWMutex
	store  map[string]*application.Application
	byPost map[string][]string // posting id -> application ids, insertion order
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		store:  make(map[string]*application.Application),
		byPost: make(map[string][]string),
	}
}

func (m *MemoryRepo) Create(app *application.Application) (*application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range m.byPost[app.PostingID] {
		if ex, ok := m.store[id]; ok && ex.ApplicantSub == app.ApplicantSub {
			return nil, ErrDuplicate
		}
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	app.Status = app.Status.Normalize()
	stored := *app
	m.store[app.ID] = &stored
	m.byPost[app.PostingID] = append(m.byPost[app.PostingID], app.ID)
	return app, nil
}

func (m *MemoryRepo) Get(id string) (*application.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.store[id]; ok {
		snap := *a
		return &snap, nil
	}
	return nil, ErrNotFound
}

// ListByPosting returns the posting's applications in insertion order.
// Index entries whose record has gone missing are skipped rather than
// surfaced as nils.
func (m *MemoryRepo) ListByPosting(postingID string) ([]*application.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := m.byPost[postingID]
	out := make([]*application.Application, 0, len(ids))
	for _, id := range ids {
		if a, ok := m.store[id]; ok && a != nil {
			snap := *a
			out = append(out, &snap)
		}
	}
	return out, nil
}

func (m *MemoryRepo) SetStatus(id string, status application.Status) (*application.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Status = status.Normalize()
	snap := *a
	return &snap, nil
}
