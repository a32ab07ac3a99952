package changefeed

import (
	"context"
	"testing"
	"time"

	"soufra_admin/internal/logger"
	"soufra_admin/internal/models"
	"soufra_admin/internal/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
)

func receive(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func TestOrderEventStripsItems(t *testing.T) {
	order := &models.Order{ID: "o-1", RestaurantID: "r-1", OrderItems: []models.OrderItem{{Name: "Tea"}}}

	ev := OrderEvent(Update, order, nil)
	if ev.RestaurantID != "r-1" || ev.OrderID() != "o-1" || ev.Table != "orders" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.New.OrderItems != nil {
		t.Fatal("expected items to be stripped from the event")
	}
	if len(order.OrderItems) != 1 {
		t.Fatal("expected the original order to be left intact")
	}

	del := OrderEvent(Delete, nil, order)
	if del.RestaurantID != "r-1" || del.OrderID() != "o-1" || del.New != nil {
		t.Fatalf("unexpected delete event: %+v", del)
	}
}

func TestMemoryFeedScopesByRestaurant(t *testing.T) {
	feed := NewMemory()
	ctx := context.Background()

	mine, _ := feed.Subscribe(ctx, "r-1")
	theirs, _ := feed.Subscribe(ctx, "r-2")
	defer theirs.Close()

	feed.Publish(ctx, OrderEvent(Insert, &models.Order{ID: "o-1", RestaurantID: "r-1"}, nil))

	if ev := receive(t, mine); ev.OrderID() != "o-1" {
		t.Fatalf("expected o-1, got %q", ev.OrderID())
	}
	select {
	case ev := <-theirs.Events():
		t.Fatalf("unexpected event for other restaurant: %+v", ev)
	default:
	}

	if err := mine.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mine.Close()
	if feed.Subscribers("r-1") != 0 {
		t.Fatal("expected subscription to be removed on close")
	}
	if _, ok := <-mine.Events(); ok {
		t.Fatal("expected events channel to be closed")
	}
	if err := feed.Publish(ctx, OrderEvent(Insert, &models.Order{ID: "o-2", RestaurantID: "r-1"}, nil)); err != nil {
		t.Fatalf("publish after close: %v", err)
	}
}

func TestRedisFeedRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	defer client.Close()

	feed := NewRedisFeed(client, logger.Discard())
	ctx := context.Background()

	sub, err := feed.Subscribe(ctx, "r-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	order := &models.Order{ID: "o-9", RestaurantID: "r-1", Status: models.OrderCancelled}
	if err := feed.Publish(ctx, OrderEvent(Update, order, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := receive(t, sub)
	if ev.Type != Update || ev.New == nil || ev.New.Status != models.OrderCancelled {
		t.Fatalf("unexpected event: %+v", ev)
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
}

func TestDecodeNotification(t *testing.T) {
	payload := `{"type":"UPDATE","table":"orders","restaurant_id":"r-1",
		"new":{"id":"o-1","restaurant_id":"r-1","order_type":"dine_in","status":"ready","total_amount":2500,
		       "created_at":"2024-05-01T10:00:00.123456+00:00","updated_at":"2024-05-01T10:05:00+00:00"},
		"old":{"id":"o-1","restaurant_id":"r-1","order_type":"dine_in","status":"preparing","total_amount":2500,
		       "created_at":"2024-05-01T10:00:00.123456+00:00","updated_at":"2024-05-01T10:01:00+00:00"}}`

	ev, err := DecodeNotification([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.Type != Update || ev.New.Status != models.OrderReady || ev.Old.Status != models.OrderPreparing {
		t.Fatalf("unexpected event: %+v", ev)
	}

	ev, err = DecodeNotification([]byte(`{"type":"DELETE","old":{"id":"o-2","restaurant_id":"r-7"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.RestaurantID != "r-7" {
		t.Fatalf("expected restaurant id from old row, got %q", ev.RestaurantID)
	}

	if _, err := DecodeNotification([]byte(`{"type":"TRUNCATE"}`)); err == nil {
		t.Fatal("expected error for unknown type")
	}
	if _, err := DecodeNotification([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
