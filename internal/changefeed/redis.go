package changefeed

import (
	"context"
	"encoding/json"
	"sync"

	"soufra_admin/internal/logger"
	"soufra_admin/internal/redis"
)

// RedisFeed fans events out over Redis pub/sub on the channel of each restaurant,
// so every API replica sees writes made by the others.
type RedisFeed struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRedisFeed(client *redis.Client, log *logger.Logger) *RedisFeed {
	return &RedisFeed{client: client, logger: log}
}

func (f *RedisFeed) Publish(ctx context.Context, event Event) error {
	return f.client.PublishJSON(ctx, Channel(event.RestaurantID), event)
}

func (f *RedisFeed) Subscribe(ctx context.Context, restaurantID string) (Subscription, error) {
	ps, err := f.client.Subscribe(ctx, Channel(restaurantID))
	if err != nil {
		return nil, err
	}

	sub := &redisSubscription{
		events: make(chan Event, 64),
		done:   make(chan struct{}),
		close:  ps.Close,
	}

	go func() {
		defer close(sub.events)
		messages := ps.Channel()
		for {
			select {
			case <-sub.done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					f.logger.Error("feed_decode_failed", "Dropping malformed change event", err, map[string]interface{}{
						"channel": msg.Channel,
					})
					continue
				}
				select {
				case sub.events <- event:
				case <-sub.done:
					return
				}
			}
		}
	}()

	return sub, nil
}

type redisSubscription struct {
	events chan Event
	done   chan struct{}
	close  func() error
	once   sync.Once
	err    error
}

func (s *redisSubscription) Events() <-chan Event { return s.events }

func (s *redisSubscription) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.err = s.close()
	})
	return s.err
}
