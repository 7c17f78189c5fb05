package store

import (
	"context"
	"sync"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

// MemoryStore is an in-memory document store for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*Document)}
}

func (s *MemoryStore) Put(ctx context.Context, doc *Document) error {
	if err := prepare(doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy so later caller mutations don't leak in.
	stored := *doc
	s.docs[doc.ID] = &stored
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "scene document %s", id)
	}
	out := *doc
	return &out, nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out := *doc
		docs = append(docs, &out)
	}
	sortByName(docs)
	return docs, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
