package idea

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"ideaforge/internal/gateway/entity"
)

type CacheConfig struct {
	IdeaTTL        time.Duration
	IdeaMaxEntries int

	ListTTL        time.Duration
	ListMaxEntries int
}

func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		IdeaTTL:        5 * time.Minute,
		IdeaMaxEntries: 2048,
		ListTTL:        30 * time.Second,
		ListMaxEntries: 512,
	}
}

type MetricsSnapshot struct {
	IdeaHits       uint64
	IdeaMisses     uint64
	ListHits       uint64
	ListMisses     uint64
	OriginReads    uint64
	OriginWrites   uint64
	OriginReadErr  uint64
	OriginWriteErr uint64
}

type Metrics struct {
	ideaHits       atomic.Uint64
	ideaMisses     atomic.Uint64
	listHits       atomic.Uint64
	listMisses     atomic.Uint64
	originReads    atomic.Uint64
	originWrites   atomic.Uint64
	originReadErr  atomic.Uint64
	originWriteErr atomic.Uint64
}

func (m *Metrics) snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		IdeaHits:       m.ideaHits.Load(),
		IdeaMisses:     m.ideaMisses.Load(),
		ListHits:       m.listHits.Load(),
		ListMisses:     m.listMisses.Load(),
		OriginReads:    m.originReads.Load(),
		OriginWrites:   m.originWrites.Load(),
		OriginReadErr:  m.originReadErr.Load(),
		OriginWriteErr: m.originWriteErr.Load(),
	}
}

// CachedStore is a read-through cache in front of another Store. Writes go
// to the origin first and then refresh or invalidate cached entries.
type CachedStore struct {
	origin Store

	ideaCache *expirable.LRU[string, Idea]
	listCache *expirable.LRU[entity.UserID, []Idea]
	metrics   Metrics
}

func NewCachedStore(origin Store, cfg CacheConfig) *CachedStore {
	def := DefaultCacheConfig()
	if cfg.IdeaTTL <= 0 {
		cfg.IdeaTTL = def.IdeaTTL
	}
	if cfg.IdeaMaxEntries <= 0 {
		cfg.IdeaMaxEntries = def.IdeaMaxEntries
	}
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = def.ListTTL
	}
	if cfg.ListMaxEntries <= 0 {
		cfg.ListMaxEntries = def.ListMaxEntries
	}
	return &CachedStore{
		origin:    origin,
		ideaCache: expirable.NewLRU[string, Idea](cfg.IdeaMaxEntries, nil, cfg.IdeaTTL),
		listCache: expirable.NewLRU[entity.UserID, []Idea](cfg.ListMaxEntries, nil, cfg.ListTTL),
	}
}

func (s *CachedStore) Save(ctx context.Context, in Idea) (Idea, error) {
	s.metrics.originWrites.Add(1)
	out, err := s.origin.Save(ctx, in)
	if err != nil {
		s.metrics.originWriteErr.Add(1)
		return Idea{}, err
	}
	s.ideaCache.Add(ideaKey(out.UserID, out.ID), out)
	s.listCache.Remove(out.UserID)
	return out, nil
}

func (s *CachedStore) Get(ctx context.Context, userID entity.UserID, id string) (Idea, error) {
	key := ideaKey(userID, id)
	if it, ok := s.ideaCache.Get(key); ok {
		s.metrics.ideaHits.Add(1)
		return it, nil
	}
	s.metrics.ideaMisses.Add(1)
	s.metrics.originReads.Add(1)
	it, err := s.origin.Get(ctx, userID, id)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return Idea{}, err
	}
	s.ideaCache.Add(key, it)
	return it, nil
}

func (s *CachedStore) List(ctx context.Context, userID entity.UserID) ([]Idea, error) {
	if list, ok := s.listCache.Get(userID); ok {
		s.metrics.listHits.Add(1)
		return append([]Idea(nil), list...), nil
	}
	s.metrics.listMisses.Add(1)
	s.metrics.originReads.Add(1)
	list, err := s.origin.List(ctx, userID)
	if err != nil {
		s.metrics.originReadErr.Add(1)
		return nil, err
	}
	s.listCache.Add(userID, append([]Idea(nil), list...))
	return list, nil
}

func (s *CachedStore) Delete(ctx context.Context, userID entity.UserID, id string) error {
	s.metrics.originWrites.Add(1)
	if err := s.origin.Delete(ctx, userID, id); err != nil {
		s.metrics.originWriteErr.Add(1)
		return err
	}
	s.ideaCache.Remove(ideaKey(userID, id))
	s.listCache.Remove(userID)
	return nil
}

func (s *CachedStore) Metrics() MetricsSnapshot {
	return s.metrics.snapshot()
}

func ideaKey(userID entity.UserID, id string) string {
	return userID.String() + "\x00" + strings.TrimSpace(id)
}
