package throttle

import (
	"context"
	"sync"
	"time"

	"github.com/avdeev21/accounts/pkg/clock"
)

// MemoryStore implements CounterStore in process memory. Only suitable for
// single-instance deployments and tests; with more than one instance the
// counters must live in the shared store instead.
type MemoryStore struct {
	clock    clock.Clock
	counters map[string]*memCounter
	stopC    chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

type memCounter struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory counter store and starts a janitor
// goroutine that drops expired counters. Call Stop to release it.
func NewMemoryStore(clk clock.Clock) *MemoryStore {
	s := &MemoryStore{
		clock:    clk,
		counters: make(map[string]*memCounter),
		stopC:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = &memCounter{expiresAt: now.Add(ttl)}
		s.counters[key] = c
	}
	c.count++
	return c.count, nil
}

// Stop shuts down the janitor goroutine.
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopC) })
}

func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopC:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, c := range s.counters {
		if !now.Before(c.expiresAt) {
			delete(s.counters, key)
		}
	}
}
