package idea

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ideaforge/internal/gateway/entity"
)

type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]Idea
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]Idea),
		now:  time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, in Idea) (Idea, error) {
	if s == nil {
		return Idea{}, fmt.Errorf("store is nil")
	}
	out, err := prepare(in, s.now())
	if err != nil {
		return Idea{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.byID[out.ID]; ok && prev.UserID != out.UserID {
		return Idea{}, fmt.Errorf("id %s belongs to another user", out.ID)
	}
	s.byID[out.ID] = out
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, userID entity.UserID, id string) (Idea, error) {
	if s == nil {
		return Idea{}, fmt.Errorf("store is nil")
	}
	if err := checkKey(userID, id); err != nil {
		return Idea{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.byID[strings.TrimSpace(id)]
	if !ok || it.UserID != userID {
		return Idea{}, ErrNotFound
	}
	return it, nil
}

func (s *MemoryStore) List(_ context.Context, userID entity.UserID) ([]Idea, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}
	if userID.IsZero() {
		return nil, fmt.Errorf("user_id is required")
	}
	s.mu.RLock()
	out := make([]Idea, 0, 16)
	for _, it := range s.byID {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	s.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID entity.UserID, id string) error {
	if s == nil {
		return fmt.Errorf("store is nil")
	}
	if err := checkKey(userID, id); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.byID[id]
	if !ok || it.UserID != userID {
		return ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func sortNewestFirst(ideas []Idea) {
	sort.SliceStable(ideas, func(i, j int) bool {
		if ideas[i].CreatedAt.Equal(ideas[j].CreatedAt) {
			return ideas[i].ID < ideas[j].ID
		}
		return ideas[i].CreatedAt.After(ideas[j].CreatedAt)
	})
}
