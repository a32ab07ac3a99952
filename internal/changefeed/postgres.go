package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"soufra_admin/internal/logger"

	"github.com/jackc/pgx/v5"
)

// PostgresFeed listens on the channel the orders trigger notifies, so changes
// made by any writer of the database reach live views. Publishing is done by the
// trigger; Publish is a no-op.
type PostgresFeed struct {
	databaseURL string
	channel     string
	logger      *logger.Logger
}

func NewPostgresFeed(databaseURL, channel string, log *logger.Logger) *PostgresFeed {
	return &PostgresFeed{databaseURL: databaseURL, channel: channel, logger: log}
}

func (f *PostgresFeed) Publish(context.Context, Event) error { return nil }

// Subscribe opens a dedicated connection, issues LISTEN and forwards the
// notifications that belong to restaurantID.
func (f *PostgresFeed) Subscribe(ctx context.Context, restaurantID string) (Subscription, error) {
	conn, err := pgx.Connect(ctx, f.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect for LISTEN: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{f.channel}.Sanitize()); err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("failed to listen on %s: %w", f.channel, err)
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	sub := &postgresSubscription{
		events: make(chan Event, 64),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer close(sub.events)
		defer conn.Close(context.Background())

		for {
			n, err := conn.WaitForNotification(listenCtx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					f.logger.Error("feed_listen_failed", "LISTEN connection lost", err, map[string]interface{}{
						"restaurant_id": restaurantID,
					})
				}
				return
			}

			event, err := DecodeNotification([]byte(n.Payload))
			if err != nil {
				f.logger.Error("feed_decode_failed", "Dropping malformed notification", err, nil)
				continue
			}
			if event.RestaurantID != restaurantID {
				continue
			}
			select {
			case sub.events <- event:
			case <-listenCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}

// DecodeNotification parses the JSON payload built by the orders trigger.
func DecodeNotification(payload []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode notification: %w", err)
	}
	if event.RestaurantID == "" {
		switch {
		case event.New != nil:
			event.RestaurantID = event.New.RestaurantID
		case event.Old != nil:
			event.RestaurantID = event.Old.RestaurantID
		}
	}
	switch event.Type {
	case Insert, Update, Delete:
	default:
		return Event{}, fmt.Errorf("unknown event type %q", event.Type)
	}
	return event, nil
}

type postgresSubscription struct {
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *postgresSubscription) Events() <-chan Event { return s.events }

func (s *postgresSubscription) Close() error {
	s.cancel()
	<-s.done
	return nil
}
