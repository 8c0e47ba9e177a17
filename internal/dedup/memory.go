package dedup

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	window time.Duration

	mu    sync.Mutex
	marks map[string]time.Time
}

func NewMemoryStore(window time.Duration) *MemoryStore {
	return &MemoryStore{
		window: normalizeWindow(window),
		marks:  make(map[string]time.Time),
	}
}

func (s *MemoryStore) Window() time.Duration { return s.window }

func (s *MemoryStore) IsDuplicate(_ context.Context, key string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	markedAt, ok := s.marks[key]
	return ok && now.Sub(markedAt) < s.window, nil
}

func (s *MemoryStore) Mark(_ context.Context, key string, now time.Time) error {
	s.mu.Lock()
	s.marks[key] = now
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) TryMark(_ context.Context, key string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if markedAt, ok := s.marks[key]; ok && now.Sub(markedAt) < s.window {
		return false, nil
	}
	s.marks[key] = now
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.marks, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.window)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, markedAt := range s.marks {
		if markedAt.Before(cutoff) {
			delete(s.marks, key)
			removed++
		}
	}
	return removed, nil
}

// Len is the number of live marks, swept or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.marks)
}
