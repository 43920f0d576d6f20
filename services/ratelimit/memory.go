package ratelimit

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 64

type entry struct {
	mu          sync.Mutex
	windowStart int64
	count       int64
}

type shard struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// MemoryStore is the in-process fixed-window counter. Keys are sharded so
// concurrent requests for different licenses never contend on one lock;
// requests for the same license serialize on that license's entry only.
type MemoryStore struct {
	shards [shardCount]*shard
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{now: time.Now}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[string]*entry)}
	}
	return s
}

// WithClock overrides the time source so callers can pin a window.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%shardCount]
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	windowStart := s.now().Truncate(window).UnixNano()

	sh := s.shardFor(key)
	sh.mu.Lock()
	e, ok := sh.entries[key]
	if !ok {
		e = &entry{}
		sh.entries[key] = e
	}
	sh.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.windowStart != windowStart {
		e.windowStart = windowStart
		e.count = 0
	}
	e.count++
	return e.count, nil
}
