package changefeed

import (
	"context"
	"sync"
)

// Memory is an in-process feed. Events only reach subscribers of the same process.
type Memory struct {
	mu     sync.Mutex
	subs   map[string]map[*memorySubscription]struct{}
	buffer int
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[string]map[*memorySubscription]struct{}), buffer: 64}
}

func (m *Memory) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for sub := range m.subs[event.RestaurantID] {
		select {
		case sub.ch <- event:
		default:
			// Slow subscriber; the periodic refresh reconciles what it misses.
		}
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, restaurantID string) (Subscription, error) {
	sub := &memorySubscription{
		feed:         m,
		restaurantID: restaurantID,
		ch:           make(chan Event, m.buffer),
	}

	m.mu.Lock()
	if m.subs[restaurantID] == nil {
		m.subs[restaurantID] = make(map[*memorySubscription]struct{})
	}
	m.subs[restaurantID][sub] = struct{}{}
	m.mu.Unlock()

	return sub, nil
}

// Subscribers reports how many live subscriptions a restaurant has.
func (m *Memory) Subscribers(restaurantID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[restaurantID])
}

type memorySubscription struct {
	feed         *Memory
	restaurantID string
	ch           chan Event
	once         sync.Once
}

func (s *memorySubscription) Events() <-chan Event { return s.ch }

func (s *memorySubscription) Close() error {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs[s.restaurantID], s)
		if len(s.feed.subs[s.restaurantID]) == 0 {
			delete(s.feed.subs, s.restaurantID)
		}
		s.feed.mu.Unlock()
		close(s.ch)
	})
	return nil
}
