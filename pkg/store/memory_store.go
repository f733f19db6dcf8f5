package store

import (
	"context"
	"sync"
)

// MemoryStore is a minimal in-memory Store implementation intended for
// tests and examples. It uses Ref.Identifier() as its deterministic key
// and makes no persistence assumptions beyond that.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	blob []byte
	meta Meta
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) ([]byte, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	blob := append([]byte(nil), record.blob...)
	return blob, cloneMeta(record.meta), true, nil
}

func (s *MemoryStore) Save(_ context.Context, ref Ref, blob []byte, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	s.mu.Lock()
	s.records[key] = memoryRecord{blob: append([]byte(nil), blob...), meta: cloneMeta(meta)}
	s.mu.Unlock()
	return cloneMeta(meta), nil
}
