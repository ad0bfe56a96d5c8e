package store

import (
	"context" // Context for the DocumentStore contract
	"fmt"     // Error wrapping
	"sort"    // Stable scan order
	"sync"    // Guards the document map
)

// MemoryStore is an in-process DocumentStore. Values are copied on the way in
// and on the way out.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Fields
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Fields)}
}

func (s *MemoryStore) Write(ctx context.Context, path string, fields Fields, merge bool) error {
	if _, _, err := SplitDocPath(path); err != nil {
		return err
	}
	copied, err := Encode(fields) // Deep copy through JSON
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.docs[path]; ok && merge {
		copied = Merge(existing, copied) // Keep fields absent from the write
	}
	s.docs[path] = copied
	return nil
}

func (s *MemoryStore) Read(ctx context.Context, path string) (Fields, error) {
	if _, _, err := SplitDocPath(path); err != nil {
		return nil, err
	}
	s.mu.RLock()
	f, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return Encode(f)
}

func (s *MemoryStore) ScanCollection(ctx context.Context, path string) ([]Document, error) {
	if err := CheckCollectionPath(path); err != nil {
		return nil, err
	}

	s.mu.RLock()
	var out []Document
	for p, f := range s.docs {
		coll, id, _ := SplitDocPath(p)
		if coll != path {
			continue
		}
		copied, err := Encode(f)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		out = append(out, Document{ID: id, Fields: copied})
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
