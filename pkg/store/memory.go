package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/persist"
)

// MemoryStore is an in-process diagram store. Diagrams are held as wire
// documents, so callers can never mutate a stored diagram through a
// previously returned pointer.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	doc       persist.Document
	updatedAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(ctx context.Context, name string, d *diagram.Diagram) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = memoryEntry{doc: persist.Encode(d), updatedAt: time.Now()}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, name string) (*diagram.Diagram, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
	}
	return persist.Decode(e.doc)
}

func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, 0, len(s.entries))
	for name, e := range s.entries {
		out = append(out, Info{Name: name, Diagram: e.doc.Diagram, UpdatedAt: e.updatedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[name]; !ok {
		return errors.New(errors.ErrCodeNotFound, "diagram %q not found", name)
	}
	delete(s.entries, name)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
