package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/ppiankov/sentinel/internal/model"
)

type memoryEntry struct {
	createdAt time.Time
	data      *model.DocumentAnalysis
}

// MemoryStore keeps sessions in process memory using go-cache.
// Expired entries are dropped by the go-cache janitor.
type MemoryStore struct {
	items *cache.Cache
	ttl   time.Duration
	// mu serializes read-refresh cycles against Delete
	mu sync.Mutex
}

// NewMemoryStore creates an in-memory store
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		items: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

func (s *MemoryStore) Create() (string, error) {
	id := uuid.NewString()
	s.items.Set(id, &memoryEntry{createdAt: time.Now().UTC()}, s.ttl)
	return id, nil
}

func (s *MemoryStore) Put(id string, analysis *model.DocumentAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items.Get(id)
	if !ok {
		return ErrNotFound
	}
	entry := v.(*memoryEntry)
	s.items.Set(id, &memoryEntry{createdAt: entry.createdAt, data: analysis}, s.ttl)
	return nil
}

func (s *MemoryStore) Get(id string) (*model.DocumentAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	entry := v.(*memoryEntry)
	s.items.Set(id, entry, s.ttl)
	if entry.data == nil {
		return nil, ErrNoData
	}
	return entry.data, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items.Delete(id)
	return nil
}

func (s *MemoryStore) Info(id string) (Info, error) {
	v, exp, ok := s.items.GetWithExpiration(id)
	if !ok {
		return Info{}, ErrNotFound
	}
	entry := v.(*memoryEntry)
	return Info{
		ID:        id,
		CreatedAt: entry.createdAt,
		ExpiresAt: exp.UTC(),
		HasData:   entry.data != nil,
	}, nil
}

// Count returns live sessions; Items already skips expired entries
func (s *MemoryStore) Count() int {
	return len(s.items.Items())
}

func (s *MemoryStore) Close() error {
	s.items.Flush()
	return nil
}
