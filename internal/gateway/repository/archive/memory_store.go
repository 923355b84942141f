package archive

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"ideaforge/internal/gateway/entity"
)

// MemoryStore keeps encoded records in process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	if err := rec.validate(); err != nil {
		return err
	}
	body, err := encode(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectKey(rec.UserID, rec.ID)] = body
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID entity.UserID, id string) (Record, error) {
	if userID.IsZero() || strings.TrimSpace(id) == "" {
		return Record{}, fmt.Errorf("user_id and id are required")
	}
	s.mu.RLock()
	raw, ok := s.data[objectKey(userID, id)]
	s.mu.RUnlock()
	if !ok {
		return Record{}, ErrNotFound
	}
	return decode(raw)
}

func (s *MemoryStore) List(_ context.Context, userID entity.UserID) ([]string, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("user_id is required")
	}
	prefix := userPrefix(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, 16)
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			out = append(out, strings.TrimSuffix(strings.TrimPrefix(key, prefix), ".json"))
		}
	}
	sort.Strings(out)
	return out, nil
}

// NopStore drops every record. Used when no archive is configured.
type NopStore struct{}

func (NopStore) Put(context.Context, Record) error { return nil }
func (NopStore) Get(context.Context, entity.UserID, string) (Record, error) {
	return Record{}, ErrNotFound
}
func (NopStore) List(context.Context, entity.UserID) ([]string, error) { return nil, nil }
